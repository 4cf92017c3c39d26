// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"

	"github.com/harshtalks/aspi/request"
	"github.com/harshtalks/aspi/result"
	"github.com/harshtalks/aspi/retry"
	"github.com/harshtalks/aspi/schema"
	"github.com/harshtalks/aspi/status"
)

// A Request accumulates the configuration of one logical HTTP request
// whose success value has type T. Setters return the receiver so calls
// can be chained, and a later call to a setter replaces the value set
// by an earlier one.
//
// A Request is not safe for concurrent modification, but once it is
// fully configured it may be executed any number of times, including
// concurrently. Every execution works from its own snapshot of the
// request and of its Client.
type Request[T any] struct {
	client   *Client
	method   string
	path     string
	decoding Decoding

	header  http.Header
	query   url.Values
	cookies []*http.Cookie

	body       any
	jsonBody   bool
	bodyErr    error
	bodySchema schema.Validator[any]
	output     schema.Validator[T]

	policy   *retry.Policy
	handlers errorHandlers
	mode     Mode
}

// JSON returns a request whose response bodies are decoded as JSON and
// whose success value is the body unmarshalled into T. Use any for T to
// receive the generic decoded value.
func JSON[T any](c *Client, method, path string) *Request[T] {
	return newRequest[T](c, method, path, JSONDecoding)
}

// Text returns a request whose response bodies are kept as text.
func Text(c *Client, method, path string) *Request[string] {
	return newRequest[string](c, method, path, TextDecoding)
}

// Blob returns a request whose response bodies are kept as raw bytes.
func Blob(c *Client, method, path string) *Request[[]byte] {
	return newRequest[[]byte](c, method, path, BlobDecoding)
}

func newRequest[T any](c *Client, method, path string, d Decoding) *Request[T] {
	if c == nil {
		panic("aspi: nil client")
	}
	return &Request[T]{
		client:   c,
		method:   method,
		path:     path,
		decoding: d,
		header:   make(http.Header),
		query:    make(url.Values),
	}
}

// Header sets the request header key to value, replacing any value the
// Client or an earlier call set for key.
func (r *Request[T]) Header(key, value string) *Request[T] {
	r.header.Set(key, value)
	return r
}

// Headers sets each header in h, replacing the values for its keys.
func (r *Request[T]) Headers(h http.Header) *Request[T] {
	for k, v := range h {
		r.header[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	return r
}

// Bearer sets the Authorization header to a bearer token.
func (r *Request[T]) Bearer(token string) *Request[T] {
	return r.Header("Authorization", "Bearer "+token)
}

// BasicAuth sets the Authorization header to use HTTP Basic
// Authentication with the provided username and password.
func (r *Request[T]) BasicAuth(username, password string) *Request[T] {
	p := request.Plan{Header: make(http.Header)}
	p.SetBasicAuth(username, password)
	return r.Header("Authorization", p.Header.Get("Authorization"))
}

// Cookie adds a cookie to the request.
func (r *Request[T]) Cookie(c *http.Cookie) *Request[T] {
	r.cookies = append(r.cookies, c)
	return r
}

// Query sets the query parameter key to value.
func (r *Request[T]) Query(key, value string) *Request[T] {
	r.query.Set(key, value)
	return r
}

// Queries sets each query parameter in q, replacing the values for its
// keys.
func (r *Request[T]) Queries(q url.Values) *Request[T] {
	for k, v := range q {
		r.query[k] = append([]string(nil), v...)
	}
	return r
}

// Body sets the request body. The body may be a string, []byte, or
// io.Reader; a reader is consumed immediately.
func (r *Request[T]) Body(body any) *Request[T] {
	r.body, r.jsonBody, r.bodyErr = body, false, nil
	switch body.(type) {
	case nil, string, []byte:
	default:
		r.body, r.bodyErr = request.BodyBytes(body)
	}
	return r
}

// JSON sets the request body to v encoded as JSON, and sets the
// Content-Type header to application/json. The value is encoded when
// the request is built, after any body schema has validated it.
func (r *Request[T]) JSON(v any) *Request[T] {
	r.body, r.jsonBody, r.bodyErr = v, true, nil
	return r.Header("Content-Type", "application/json")
}

// BodySchema registers a validator for the request body. The body is
// validated before any HTTP request is sent; if it is rejected, the
// execution fails with a DecodeError tagged SchemaErrorTag and nothing
// is sent. For a JSON body, the validated value is what gets encoded.
//
// The value validated is the one passed to JSON, or the string or
// []byte passed to Body.
func (r *Request[T]) BodySchema(v schema.Validator[any]) *Request[T] {
	r.bodySchema = v
	return r
}

// Output registers a validator for the success value. It runs only on
// a 2XX response that decoded successfully; if it rejects the value,
// the execution fails with a DecodeError tagged SchemaErrorTag.
func (r *Request[T]) Output(v schema.Validator[T]) *Request[T] {
	r.output = v
	return r
}

// Retry sets the retry policy, overriding the Client's.
func (r *Request[T]) Retry(p retry.Policy) *Request[T] {
	p = p.Clone()
	r.policy = &p
	return r
}

// OnError registers an error handler for a status code. If the
// terminal attempt fails with that status, fn is called and its result
// becomes the Data of a CustomError tagged tag. Registering a second
// handler for the same code replaces the first.
func (r *Request[T]) OnError(code status.Code, tag string, fn ErrorHandlerFunc) *Request[T] {
	r.handlers.set(code, tag, fn)
	return r
}

// BadRequest registers fn for 400, tagged "badRequestError".
func (r *Request[T]) BadRequest(fn ErrorHandlerFunc) *Request[T] {
	return r.OnError(status.BadRequest, "badRequestError", fn)
}

// Unauthorized registers fn for 401, tagged "unauthorizedError".
func (r *Request[T]) Unauthorized(fn ErrorHandlerFunc) *Request[T] {
	return r.OnError(status.Unauthorized, "unauthorizedError", fn)
}

// Forbidden registers fn for 403, tagged "forbiddenError".
func (r *Request[T]) Forbidden(fn ErrorHandlerFunc) *Request[T] {
	return r.OnError(status.Forbidden, "forbiddenError", fn)
}

// NotFound registers fn for 404, tagged "notFoundError".
func (r *Request[T]) NotFound(fn ErrorHandlerFunc) *Request[T] {
	return r.OnError(status.NotFound, "notFoundError", fn)
}

// Conflict registers fn for 409, tagged "conflictError".
func (r *Request[T]) Conflict(fn ErrorHandlerFunc) *Request[T] {
	return r.OnError(status.Conflict, "conflictError", fn)
}

// TooManyRequests registers fn for 429, tagged "tooManyRequestsError".
func (r *Request[T]) TooManyRequests(fn ErrorHandlerFunc) *Request[T] {
	return r.OnError(status.TooManyRequests, "tooManyRequestsError", fn)
}

// InternalServerError registers fn for 500, tagged
// "internalServerError".
func (r *Request[T]) InternalServerError(fn ErrorHandlerFunc) *Request[T] {
	return r.OnError(status.InternalServerError, "internalServerError", fn)
}

// Tags returns the tags of the registered error handlers in the order
// their status codes were first registered. A CustomError returned by
// this request always carries one of these tags.
func (r *Request[T]) Tags() []string {
	return r.handlers.tags()
}

// WithResult selects ResultMode for Execute. It replaces any mode
// selected earlier.
func (r *Request[T]) WithResult() *Request[T] {
	r.mode = ResultMode
	return r
}

// Throwable selects ThrowMode for Execute. It replaces any mode
// selected earlier.
func (r *Request[T]) Throwable() *Request[T] {
	r.mode = ThrowMode
	return r
}

// WithPair selects PairMode, the default, for Execute. It replaces any
// mode selected earlier.
func (r *Request[T]) WithPair() *Request[T] {
	r.mode = PairMode
	return r
}

// Mode returns the mode Execute will use.
func (r *Request[T]) Mode() Mode {
	return r.mode
}

// Build resolves the request into a plan: the URL is the client's base
// URL joined with the path and query, and the header is the client's
// header with the request's headers replacing it key by key.
//
// Build does not run the body schema.
func (r *Request[T]) Build(ctx context.Context) (*request.Plan, error) {
	return r.build(ctx, r.body)
}

func (r *Request[T]) build(ctx context.Context, body any) (*request.Plan, error) {
	if r.bodyErr != nil {
		return nil, fmt.Errorf("aspi: body: %w", r.bodyErr)
	}
	u, err := request.ResolveURL(r.client.BaseURL, r.path, r.query)
	if err != nil {
		return nil, fmt.Errorf("aspi: %w", err)
	}
	var b []byte
	if r.jsonBody {
		if b, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("aspi: encode body: %w", err)
		}
	} else if b, err = request.BodyBytes(body); err != nil {
		return nil, fmt.Errorf("aspi: body: %w", err)
	}
	p, err := request.NewPlanWithContext(ctx, r.method, u, b)
	if err != nil {
		return nil, fmt.Errorf("aspi: %w", err)
	}
	for k, v := range r.client.Header {
		p.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), v...)
	}
	for k, v := range r.header {
		p.Header[k] = append([]string(nil), v...)
	}
	for _, c := range r.cookies {
		p.AddCookie(c)
	}
	if err = p.ValidateHeader(); err != nil {
		return nil, fmt.Errorf("aspi: %w", err)
	}
	return p, nil
}

// snapshot validates the body and builds everything one execution
// needs. A rejected body is returned as a DecodeError.
func (r *Request[T]) snapshot(ctx context.Context) (*snapshot[T], *DecodeError, error) {
	body := r.body
	var issues []schema.Issue
	if r.bodySchema != nil {
		body, issues = r.bodySchema.Validate(body)
	}
	if len(issues) > 0 {
		p, _ := r.build(ctx, r.body)
		return nil, &DecodeError{Tag: SchemaErrorTag, Issues: issues, Plan: p}, nil
	}
	p, err := r.build(ctx, body)
	if err != nil {
		return nil, nil, err
	}
	policy := r.client.retryPolicy()
	if r.policy != nil {
		policy = *r.policy
	}
	return &snapshot[T]{
		plan:     p,
		decoding: r.decoding,
		policy:   policy.Clone(),
		handlers: r.handlers.clone(),
		output:   r.output,
	}, nil, nil
}

// Outcome executes the request and returns its outcome. A request that
// cannot be built is a failure whose error is not one of the typed
// aspi errors; Kind reports it as KindOther.
//
// Outcome panics if an error handler panics.
func (r *Request[T]) Outcome(ctx context.Context) result.Result[*Success[T]] {
	s, rejected, err := r.snapshot(ctx)
	switch {
	case err != nil:
		return result.Err[*Success[T]](err)
	case rejected != nil:
		r.client.logger().Debug("aspi: request body rejected",
			"method", r.method,
			"path", r.path,
			"issues", len(rejected.Issues))
		return result.Err[*Success[T]](rejected)
	}
	return execute(r.client, s)
}

// Do executes the request and returns the outcome as a pair. Exactly
// one of the return values is nil.
func (r *Request[T]) Do(ctx context.Context) (*Success[T], error) {
	return r.Outcome(ctx).Get()
}

// Result executes the request and returns the outcome unchanged. It is
// the same as Outcome.
func (r *Request[T]) Result(ctx context.Context) result.Result[*Success[T]] {
	return r.Outcome(ctx)
}

// Must executes the request and returns the success, panicking with
// the failure error if there is one.
func (r *Request[T]) Must(ctx context.Context) *Success[T] {
	return r.Outcome(ctx).Unwrap()
}

// Execute executes the request and projects the outcome in the
// request's mode: a Pair[T] in PairMode, a result.Result[*Success[T]]
// in ResultMode, and a *Success[T] in ThrowMode.
func (r *Request[T]) Execute(ctx context.Context) any {
	return Project(r.Outcome(ctx), r.mode)
}
