// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package breaker provides an HTTPDoer that puts a circuit breaker in front
of another HTTPDoer.

Each resource, identified by request method and URL path, has its own
breaker. A breaker counts transport errors and 5XX responses as failures
and opens after a configured number of consecutive failures. While a
breaker is open, requests for its resource fail immediately with
gobreaker.ErrOpenState instead of being sent.

Install a breaker as the client's HTTPDoer:

	client := &aspi.Client{
		HTTPDoer: breaker.New(http.DefaultClient, breaker.Settings{
			ConsecutiveFailures: 5,
			Timeout:             30 * time.Second,
		}),
	}

Because the breaker sits below the retry loop, an open breaker surfaces
to the retry policy as a transport error on each attempt.
*/
package breaker
