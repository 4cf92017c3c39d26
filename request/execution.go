// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/harshtalks/aspi/transient"
)

// An Execution represents the state of a single Plan execution.
//
// When a plan is executed an Execution is created for it. The Execution
// is updated as the execution progresses, one attempt at a time, and is
// discarded when the execution ends. It is never shared between two
// executions.
//
// Retry policies and event handlers may store values on an Execution
// using SetValue and read them back with Value, but should treat the
// exported fields as read-only. The one exception is the Request field
// during the BeforeAttempt event, which handlers may replace or modify
// to change what is sent for that attempt.
type Execution struct {
	// Plan is the plan being executed. It is never nil.
	Plan *Plan

	// Start is the start time of the execution.
	Start time.Time

	// End is the end time of the execution. It is the zero value until
	// the execution ends.
	End time.Time

	// Attempt is the one-based number of the current attempt. It is one
	// on the initial attempt, two on the first retry, and so on. Once
	// the execution has ended it is the number of attempts made.
	Attempt int

	// Attempts is the attempt budget: the total number of attempts the
	// retry policy allows, including the first. It is at least one.
	Attempts int

	// Request is the HTTP request to be sent in the current attempt, or
	// already sent in the last attempt.
	Request *http.Request

	// Response is the response of the most recent attempt. It is
	// synthesized when the attempt ended in a transport error, and nil
	// while an attempt is underway.
	Response *Response

	// Err is the transport error of the most recent attempt, if any.
	// Whenever Err is non-nil it has the type *url.Error.
	Err error

	// Failure is the terminal failure of the execution. It is set just
	// before the execution ends and is nil if the execution succeeded.
	Failure error

	data context.Context
}

// StatusCode returns the status code of the most recent response, or
// zero if there is none.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Remaining returns the number of attempts left in the budget after
// the current one.
func (e *Execution) Remaining() int {
	if r := e.Attempts - e.Attempt; r > 0 {
		return r
	}
	return 0
}

// Final reports whether the current attempt is the last one the budget
// allows.
func (e *Execution) Final() bool {
	return e.Attempt >= e.Attempts
}

// Duration returns the duration of the execution so far, or of the
// whole execution once it has ended.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a timeout error.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue allows event handlers and retry policies to store arbitrary
// data in the execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be a built-in type.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
