// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package result provides a two-variant tagged container holding either
// a success value or a failure error, together with the usual
// projection helpers.
package result

// A Result holds either a value of type T (success) or a non-nil error
// (failure), never both. The zero value is a success holding the zero
// value of T.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a success holding v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Err returns a failure holding err, which must not be nil.
func Err[T any](err error) Result[T] {
	if err == nil {
		panic("aspi/result: nil error")
	}
	return Result[T]{err: err}
}

// IsOk reports whether r is a success.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// IsErr reports whether r is a failure.
func (r Result[T]) IsErr() bool {
	return r.err != nil
}

// Get returns the value and the error of r. Exactly one of the two is
// meaningful: the error is nil on success, and the value is the zero
// value on failure.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// Value returns the success value, or the zero value of T on failure.
func (r Result[T]) Value() T {
	return r.value
}

// Error returns the failure, or nil on success.
func (r Result[T]) Error() error {
	return r.err
}

// Unwrap returns the success value, panicking with the failure error if
// r is a failure.
func (r Result[T]) Unwrap() T {
	if r.err != nil {
		panic(r.err)
	}
	return r.value
}

// UnwrapOr returns the success value, or def if r is a failure.
func (r Result[T]) UnwrapOr(def T) T {
	if r.err != nil {
		return def
	}
	return r.value
}

// Map applies f to the success value of r. A failure passes through
// unchanged.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if r.err != nil {
		return Result[U]{err: r.err}
	}
	return Ok(f(r.value))
}

// MapErr applies f to the failure of r. A success passes through
// unchanged. If f returns nil the failure is kept.
func MapErr[T any](r Result[T], f func(error) error) Result[T] {
	if r.err == nil {
		return r
	}
	if err := f(r.err); err != nil {
		return Result[T]{err: err}
	}
	return r
}

// Match calls onOk with the success value or onErr with the failure and
// returns whichever result was produced.
func Match[T, U any](r Result[T], onOk func(T) U, onErr func(error) U) U {
	if r.err != nil {
		return onErr(r.err)
	}
	return onOk(r.value)
}
