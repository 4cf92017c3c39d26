// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package schema defines the validation capability used to check
// request bodies before they are sent and decoded response bodies
// before they are returned.
//
// A Validator either rejects a value with a non-empty list of issues
// or accepts it, possibly narrowing it to a validated value. Validators
// are synchronous.
//
// Any validation library can be adapted with Func. Struct adapts
// struct-tag validation from github.com/go-playground/validator.
package schema

import (
	"strings"
)

// An Issue describes one reason a value was rejected.
type Issue struct {
	// Path locates the offending field within the value. It is empty
	// for issues about the value as a whole.
	Path []string `json:"path,omitempty"`
	// Code is a short machine-readable reason, for example the name
	// of the failed validation rule.
	Code string `json:"code,omitempty"`
	// Message is a human-readable reason.
	Message string `json:"message"`
}

// String formats the issue as "path: message".
func (i Issue) String() string {
	if len(i.Path) == 0 {
		return i.Message
	}
	return strings.Join(i.Path, ".") + ": " + i.Message
}

// A Validator validates values of type T.
//
// Validate returns the validated value and no issues if v is accepted,
// or a non-empty list of issues if it is rejected. Implementations must
// be safe for concurrent use by multiple goroutines.
type Validator[T any] interface {
	Validate(v T) (T, []Issue)
}

// The Func type is an adapter to allow the use of ordinary functions
// as validators.
type Func[T any] func(v T) (T, []Issue)

// Validate calls f(v).
func (f Func[T]) Validate(v T) (T, []Issue) {
	return f(v)
}

// Any adapts a Validator for a concrete type into a Validator for
// untyped values, as used for request bodies. A value that is not a T
// is rejected with a single issue.
func Any[T any](v Validator[T]) Validator[any] {
	if v == nil {
		panic("aspi/schema: nil validator")
	}
	return Func[any](func(x any) (any, []Issue) {
		t, ok := x.(T)
		if !ok {
			return x, []Issue{{Code: "type", Message: "unexpected value type"}}
		}
		return v.Validate(t)
	})
}

// Summarize joins the issues into a single line.
func Summarize(issues []Issue) string {
	s := make([]string, len(issues))
	for i := range issues {
		s[i] = issues[i].String()
	}
	return strings.Join(s, "; ")
}
