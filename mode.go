// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

import (
	"github.com/harshtalks/aspi/request"
	"github.com/harshtalks/aspi/result"
)

// A Mode selects how Request.Execute presents an execution outcome.
type Mode int

const (
	// PairMode presents the outcome as a Pair. It is the default.
	PairMode Mode = iota
	// ResultMode presents the outcome unchanged, as a
	// result.Result[*Success[T]].
	ResultMode
	// ThrowMode returns the *Success[T] directly and panics with the
	// failure error.
	ThrowMode
)

var modeNames = []string{"pair", "result", "throw"}

// String returns the name of the mode.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode returns the Mode named s.
func ParseMode(s string) (Mode, bool) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), true
		}
	}
	return PairMode, false
}

// A Success is the outcome of an execution whose terminal attempt
// received a 2XX response that decoded, and validated if a schema was
// registered, into Data.
type Success[T any] struct {
	Data     T
	Plan     *request.Plan
	Response *request.Response
}

// A Pair holds an outcome in two slots. Exactly one of them is non-nil.
type Pair[T any] struct {
	Data *Success[T]
	Err  error
}

// Get returns the two slots.
func (p Pair[T]) Get() (*Success[T], error) {
	return p.Data, p.Err
}

// Project renders an outcome in the given mode: a Pair for PairMode,
// the outcome itself for ResultMode, and the *Success[T] for ThrowMode,
// which panics with the failure if there is one.
func Project[T any](o result.Result[*Success[T]], m Mode) any {
	switch m {
	case ResultMode:
		return o
	case ThrowMode:
		return o.Unwrap()
	default:
		s, err := o.Get()
		return Pair[T]{Data: s, Err: err}
	}
}
