// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/harshtalks/aspi/request"
)

// A Policy controls if and how failed attempts are retried during a
// request execution.
//
// The zero value allows exactly one attempt. A Policy is a plain value:
// the execution engine copies it when a request is built, so changing
// a Policy after building has no effect on that request. The functions
// it holds must be safe for concurrent use if the policy is shared by
// concurrent executions.
type Policy struct {
	// Attempts is the total number of attempts allowed, including the
	// first. Values below one are treated as one.
	Attempts int

	// Delay computes the wait before each retry. If nil, retries
	// happen immediately.
	Delay Waiter

	// StatusCodes lists the HTTP status codes that trigger a retry.
	StatusCodes []int

	// Condition, if set, decides whether a failed response whose status
	// is not in StatusCodes is retried. It is not called for successful
	// responses, transport errors, statuses in StatusCodes, or once the
	// attempt budget is spent, so it may run fewer times than there are
	// attempts.
	Condition ConditionFunc

	// OnRetry, if set, is called with the plan and the response of the
	// attempt that is about to be retried, before the delay. It is
	// never called after the terminal attempt.
	OnRetry func(p *request.Plan, r *request.Response)
}

// Never is a policy that never retries.
var Never = Policy{Attempts: 1}

// Budget returns the effective attempt budget.
func (p *Policy) Budget() int {
	if p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

// Decider returns the decision function described by p:
//
//	Budget(n).And(TransportErr.Or(Failed.And(StatusCode(...).Or(Condition(...)))))
func (p *Policy) Decider() DeciderFunc {
	return Budget(p.Budget()).And(
		TransportErr.Or(Failed.And(StatusCode(p.StatusCodes...).Or(Condition(p.Condition)))))
}

// Decide returns true if the current attempt of e should be retried.
func (p *Policy) Decide(e *request.Execution) bool {
	return p.Decider()(e)
}

// Wait returns the delay before retrying the current attempt of e.
func (p *Policy) Wait(e *request.Execution) time.Duration {
	if p.Delay == nil {
		return 0
	}
	if d := p.Delay.Wait(e); d > 0 {
		return d
	}
	return 0
}

// Retried runs the OnRetry hook, if any, for the current attempt of e.
func (p *Policy) Retried(e *request.Execution) {
	if p.OnRetry != nil {
		p.OnRetry(e.Plan, e.Response)
	}
}

// Clone returns a copy of p that shares no slices with it.
func (p Policy) Clone() Policy {
	p.StatusCodes = append([]int(nil), p.StatusCodes...)
	return p
}
