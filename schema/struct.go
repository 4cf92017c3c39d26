// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	structValidate     *validator.Validate
	structValidateOnce sync.Once
)

func validate() *validator.Validate {
	structValidateOnce.Do(func() {
		structValidate = validator.New()
	})
	return structValidate
}

// Struct returns a Validator that checks the `validate` struct tags on
// values of type T, which must be a struct or a pointer to a struct.
// Accepted values are returned unchanged.
func Struct[T any]() Validator[T] {
	return Func[T](func(v T) (T, []Issue) {
		err := validate().Struct(v)
		if err == nil {
			return v, nil
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return v, []Issue{{Code: "invalid", Message: err.Error()}}
		}
		issues := make([]Issue, 0, len(verrs))
		for _, fe := range verrs {
			issues = append(issues, fieldIssue(fe))
		}
		return v, issues
	})
}

func fieldIssue(fe validator.FieldError) Issue {
	path := strings.Split(fe.Namespace(), ".")
	if len(path) > 1 {
		// Drop the root type name.
		path = path[1:]
	}
	msg := "failed on the '" + fe.Tag() + "' rule"
	if p := fe.Param(); p != "" {
		msg += " (" + p + ")"
	}
	return Issue{Path: path, Code: fe.Tag(), Message: msg}
}
