// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/harshtalks/aspi/request"
	"github.com/harshtalks/aspi/result"
	"github.com/harshtalks/aspi/retry"
	"github.com/harshtalks/aspi/schema"
	"github.com/harshtalks/aspi/transient"
)

var emptyHandlers = HandlerGroup{}

// A Client is the shared configuration template requests are built
// from. Its zero value is a valid configuration.
//
// The zero value client uses http.DefaultClient (from net/http) as the
// HTTPDoer, makes exactly one attempt per request, runs no event
// handlers, and discards log output.
//
// A Client must be treated as read-only once requests built from it
// are executing: every execution takes a snapshot of the base URL,
// headers, and retry policy when it starts, but the HTTPDoer, Handlers,
// and Logger are shared by reference. Client is otherwise safe for
// concurrent use by multiple goroutines.
type Client struct {
	// BaseURL is prepended to request paths that are not absolute URLs.
	BaseURL string

	// Header holds default request headers. Headers set on a request
	// replace these on a per-key basis.
	Header http.Header

	// HTTPDoer sends HTTP requests and receives responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer

	// RetryPolicy is the default retry policy for requests that do not
	// set their own. If nil, retry.Never is used.
	RetryPolicy *retry.Policy

	// Handlers allows custom handler chains to be invoked when
	// designated events occur during a request execution.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup

	// Logger receives debug-level records describing each execution.
	// If Logger is nil, nothing is logged.
	Logger *slog.Logger
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (c *Client) CloseIdleConnections() {
	doer := c.doer()
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func (c *Client) handlers() *HandlerGroup {
	if c.Handlers == nil {
		return &emptyHandlers
	}

	return c.Handlers
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return c.Logger
}

func (c *Client) retryPolicy() retry.Policy {
	if c.RetryPolicy == nil {
		return retry.Never
	}

	return *c.RetryPolicy
}

// A snapshot is everything one execution needs, copied out of the
// request builder and client so the execution shares no mutable state
// with them.
type snapshot[T any] struct {
	plan     *request.Plan
	decoding Decoding
	policy   retry.Policy
	handlers errorHandlers
	output   schema.Validator[T]
}

// execute runs the attempt loop for s and produces its single outcome.
func execute[T any](c *Client, s *snapshot[T]) result.Result[*Success[T]] {
	p := s.plan
	e := &request.Execution{
		Plan:     p,
		Attempts: s.policy.Budget(),
	}

	handlers := c.handlers()
	log := c.logger().With("method", p.Method, "url", p.URL.Redacted())

	handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()
	log.Debug("aspi: execution start", "attempts", e.Attempts)

	out := loop(s, e, c.doer(), handlers, log)

	e.Failure = out.Error()
	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)
	log.Debug("aspi: execution end",
		"attempts", e.Attempt,
		"outcome", Kind(e.Failure),
		"duration", e.Duration())
	return out
}

func loop[T any](s *snapshot[T], e *request.Execution, doer HTTPDoer, handlers *HandlerGroup, log *slog.Logger) result.Result[*Success[T]] {
	p := e.Plan
	decide := s.policy.Decider()

	for e.Attempt = 1; ; e.Attempt++ {
		decodeErr := attempt(p, e, doer, handlers, s.decoding)
		handlers.run(AfterAttempt, e)
		if e.Err != nil {
			log.Debug("aspi: attempt failed",
				"attempt", e.Attempt,
				"category", transient.Categorize(e.Err).String(),
				"error", e.Err)
		} else {
			log.Debug("aspi: attempt done",
				"attempt", e.Attempt,
				"status", e.Response.StatusCode,
				"label", e.Response.Status)
		}

		if decodeErr != nil {
			return result.Err[*Success[T]](&DecodeError{
				Tag:      ParseErrorTag,
				Err:      decodeErr,
				Plan:     p,
				Response: e.Response,
			})
		}

		if p.Context().Err() != nil || !decide(e) {
			break
		}

		wait := s.policy.Wait(e)
		handlers.run(BeforeRetry, e)
		s.policy.Retried(e)
		log.Debug("aspi: retrying", "attempt", e.Attempt, "delay", wait)
		if err := sleep(p.Context(), wait); err != nil {
			e.Err = urlErrorWrap(p, err)
			e.Response = request.Synthesized()
			break
		}
	}

	return finish(s, e)
}

// finish turns the terminal attempt of e into an outcome.
func finish[T any](s *snapshot[T], e *request.Execution) result.Result[*Success[T]] {
	p, r := e.Plan, e.Response
	if e.Err != nil {
		return result.Err[*Success[T]](&ProtocolError{Plan: p, Response: r, Err: e.Err})
	}

	if r.OK() {
		v, err := convert[T](s.decoding, r)
		if err != nil {
			return result.Err[*Success[T]](&DecodeError{Tag: ParseErrorTag, Err: err, Plan: p, Response: r})
		}
		if s.output != nil {
			var issues []schema.Issue
			if v, issues = s.output.Validate(v); len(issues) > 0 {
				return result.Err[*Success[T]](&DecodeError{Tag: SchemaErrorTag, Issues: issues, Plan: p, Response: r})
			}
		}
		return result.Ok(&Success[T]{Data: v, Plan: p, Response: r})
	}

	if h, ok := s.handlers.lookup(r.StatusCode); ok {
		data := h.fn(ErrorContext{Plan: p, Response: r})
		return result.Err[*Success[T]](&CustomError{Tag: h.tag, Data: data, Plan: p, Response: r})
	}

	return result.Err[*Success[T]](&ProtocolError{Plan: p, Response: r})
}

// attempt sends one HTTP request and records the outcome on e. The
// returned error is non-nil only if a response arrived but its body
// could not be decoded.
func attempt(p *request.Plan, e *request.Execution, doer HTTPDoer, handlers *HandlerGroup, d Decoding) error {
	e.Request = p.ToRequest(p.Context())
	e.Response = nil
	e.Err = nil
	handlers.run(BeforeAttempt, e)
	resp, err := doer.Do(e.Request)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
		e.Response = request.Synthesized()
		return nil
	}

	body, err := readBody(e, resp, handlers)
	if err != nil {
		e.Err = urlErrorWrap(p, err)
		e.Response = request.Synthesized()
		return nil
	}

	e.Response = request.NewResponse(resp, body)
	e.Response.Data, err = d.decode(body)
	return err
}

func readBody(e *request.Execution, resp *http.Response, handlers *HandlerGroup) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	e.Response = request.NewResponse(resp, nil)
	handlers.run(BeforeReadBody, e)
	return io.ReadAll(resp.Body)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// convert produces the success value of type T from a 2XX response.
func convert[T any](d Decoding, r *request.Response) (T, error) {
	var v T
	switch d {
	case TextDecoding:
		if s, ok := any(string(r.Body)).(T); ok {
			return s, nil
		}
	case BlobDecoding:
		if b, ok := any(r.Body).(T); ok {
			return b, nil
		}
	default:
		if len(bytes.TrimSpace(r.Body)) == 0 {
			return v, nil
		}
		if generic, ok := any(&v).(*any); ok {
			*generic = r.Data
			return v, nil
		}
		err := json.Unmarshal(r.Body, &v)
		return v, err
	}
	return v, &decodeTypeError{decoding: d, target: v}
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
