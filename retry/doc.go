// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides the retry policy consulted after every attempt
// of a request execution.
//
// A Policy has an attempt budget, a set of status codes that trigger a
// retry, an optional condition evaluated on failed responses, a Waiter
// computing the delay before the next attempt, and an optional hook run
// before each retry:
//
//	policy := retry.Policy{
//		Attempts:    3,
//		StatusCodes: []int{429, 502, 503},
//		Delay:       retry.Backoff(100*time.Millisecond, 2*time.Second, true),
//	}
//
// A successful (2XX) response is never retried. A failed response is
// retried while the budget allows it and either its status is in
// StatusCodes or Condition returns true. An attempt that ended in a
// transport error is always retried while the budget allows it.
//
// The building blocks of the decision (Budget, TransportErr, Failed,
// StatusCode, Condition) are exported as composable DeciderFunc values
// for use in custom deciders.
package retry
