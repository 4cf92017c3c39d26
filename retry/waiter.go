// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand/v2"
	"time"

	"github.com/harshtalks/aspi/request"
)

// A Waiter specifies how long to wait before retrying a failed attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines. A Waiter is only consulted after the policy has decided
// to retry, so it never runs before the first attempt or after the
// final one.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// The WaiterFunc type is an adapter to allow the use of ordinary
// functions as waiters.
type WaiterFunc func(e *request.Execution) time.Duration

// Wait calls f(e).
func (f WaiterFunc) Wait(e *request.Execution) time.Duration {
	return f(e)
}

// Fixed constructs a Waiter that always returns the given duration.
func Fixed(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// DelayFunc constructs a Waiter from a function of the remaining
// attempt count, the total attempt budget, the plan, and the response
// of the attempt that is about to be retried.
//
// Parameter remaining is the number of attempts the budget still allows
// after the upcoming retry. On the last retry it is zero.
func DelayFunc(f func(remaining, total int, p *request.Plan, r *request.Response) time.Duration) Waiter {
	if f == nil {
		panic("aspi/retry: nil delay func")
	}
	return WaiterFunc(func(e *request.Execution) time.Duration {
		return f(e.Attempts-e.Attempt-1, e.Attempts, e.Plan, e.Response)
	})
}

// Backoff returns a Waiter whose ceiling doubles with each retry,
// starting at base and capped at max:
//
//	ceil := min(base * 2**(attempt-1), max)
//
// Without jitter the wait is ceil. With jitter it is drawn uniformly
// from [0, ceil). Backoff panics if base is not positive or max is less
// than base.
func Backoff(base, max time.Duration, jitter bool) Waiter {
	if base <= 0 {
		panic("aspi/retry: base must be positive")
	}
	if max < base {
		panic("aspi/retry: max must be at least base")
	}
	return backoff{base: base, max: max, jitter: jitter}
}

type backoff struct {
	base, max time.Duration
	jitter    bool
}

func (b backoff) Wait(e *request.Execution) time.Duration {
	ceil := b.base
	for n := e.Attempt - 1; n > 0 && ceil < b.max; n-- {
		if ceil > b.max/2 {
			ceil = b.max
			break
		}
		ceil *= 2
	}
	if ceil > b.max {
		ceil = b.max
	}
	if b.jitter {
		return time.Duration(rand.Int64N(int64(ceil)))
	}
	return ceil
}
