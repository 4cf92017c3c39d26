// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package aspi provides a fluent HTTP request builder with retry support,
per-status error handlers, and typed response decoding.

Create a Client to hold shared configuration, then build and execute
requests from it.

	client := &aspi.Client{BaseURL: "https://api.example.com"}
	todo, err := aspi.Get[Todo](client, "/todos/1").
		Bearer(token).
		Do(ctx)
	if err != nil {
		...
	}
	fmt.Println(todo.Data.Title)

Every execution ends in exactly one outcome: a *Success holding the
decoded value, or one of three failures. A *ProtocolError means the
final response was not 2XX (or the final attempt could not reach the
server at all), a *CustomError means the final response had a status for
which an error handler is registered, and a *DecodeError means a body
could not be decoded or was rejected by a schema.

	_, err := aspi.Get[Todo](client, "/todos/1").
		NotFound(func(ec aspi.ErrorContext) any {
			return "no such todo"
		}).
		Do(ctx)
	var ce *aspi.CustomError
	if errors.As(err, &ce) && ce.Tag == "notFoundError" {
		...
	}

The outcome can be consumed as a (value, error) pair with Do, as a
result.Result with Result, or as a value that panics on failure with
Must. Execute applies whichever of the three was selected last with
WithPair, WithResult, or Throwable.

For control over retries, set a retry policy from package retry on the
Client or on a single request:

	req := aspi.Get[Todo](client, "/todos/1").Retry(retry.Policy{
		Attempts:    3,
		Delay:       retry.Fixed(200 * time.Millisecond),
		StatusCodes: []int{502, 503, 504},
	})

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer, such as an http.Client from the
standard net/http package or a circuit breaker from package breaker.

To hook into the fine-grained details of request execution, install a
handler into the appropriate handler chain:

	handlers := &aspi.HandlerGroup{}
	handlers.PushBack(aspi.BeforeAttempt, aspi.RequestID)
	client := &aspi.Client{
		Handlers: handlers,
	}
*/
package aspi
