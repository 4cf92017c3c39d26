// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"github.com/harshtalks/aspi/request"
)

// A Decider decides if a retry should be done.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
type DeciderFunc func(e *request.Execution) bool

// A ConditionFunc decides, from the plan and the response of the
// attempt that just failed, whether to retry. It may block, for
// example to consult a remote service, but should honour the plan's
// context when it does.
type ConditionFunc func(p *request.Plan, r *request.Response) bool

// TransportErr is a decider that returns true if the current attempt
// ended in a transport error rather than an HTTP response.
var TransportErr DeciderFunc = transportErr

// Failed is a decider that returns true if the current attempt received
// an HTTP response whose status code is not 2XX.
var Failed DeciderFunc = failed

// Decide returns true if a retry should be done, and false otherwise.
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Budget constructs a retry decider which allows up to n attempts in
// total, counting the first. The returned decider returns true while
// the one-based attempt number e.Attempt is less than n.
func Budget(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Attempt < n
	}
}

// StatusCode constructs a retry decider that returns true if the
// current attempt received an HTTP response whose status code is in ss.
func StatusCode(ss ...int) DeciderFunc {
	set := make(map[int]struct{}, len(ss))
	for _, s := range ss {
		set[s] = struct{}{}
	}
	return func(e *request.Execution) bool {
		if e.Err != nil || e.Response == nil {
			return false
		}
		_, ok := set[e.Response.StatusCode]
		return ok
	}
}

// Condition adapts a ConditionFunc into a retry decider. A nil
// condition never asks for a retry.
func Condition(cond ConditionFunc) DeciderFunc {
	if cond == nil {
		return never
	}
	return func(e *request.Execution) bool {
		return cond(e.Plan, e.Response)
	}
}

func never(_ *request.Execution) bool {
	return false
}

func transportErr(e *request.Execution) bool {
	return e.Err != nil
}

func failed(e *request.Execution) bool {
	return e.Err == nil && e.Response != nil && !e.Response.OK()
}
