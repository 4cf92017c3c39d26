// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package breaker

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/harshtalks/aspi"
)

// Settings configures the breakers created by a Doer.
type Settings struct {
	// MaxRequests is the number of requests allowed through while a
	// breaker is half-open. Zero means one.
	MaxRequests uint32

	// ConsecutiveFailures is the number of consecutive failures that
	// opens a breaker. Zero means one.
	ConsecutiveFailures uint32

	// Interval is the cyclic period of the closed state after which
	// failure counts are cleared. Zero means counts are never cleared
	// while the breaker stays closed.
	Interval time.Duration

	// Timeout is how long a breaker stays open before becoming
	// half-open. Zero means 60 seconds.
	Timeout time.Duration

	// Logger receives a record each time a breaker changes state. If
	// nil, nothing is logged.
	Logger *slog.Logger
}

// A Doer is an aspi.HTTPDoer which sends requests through per-resource
// circuit breakers. It is safe for concurrent use.
type Doer struct {
	doer     aspi.HTTPDoer
	settings Settings
	breakers sync.Map
}

// New returns a Doer that sends requests with doer.
func New(doer aspi.HTTPDoer, settings Settings) *Doer {
	if doer == nil {
		panic("aspi/breaker: nil doer")
	}
	return &Doer{doer: doer, settings: settings}
}

// Do sends req through the breaker for its resource. A 5XX response
// counts as a failure but is returned to the caller unchanged. If the
// breaker is open, Do returns gobreaker.ErrOpenState, or
// gobreaker.ErrTooManyRequests if it is half-open and already has
// MaxRequests requests in flight.
func (d *Doer) Do(req *http.Request) (*http.Response, error) {
	cb := d.breaker(Resource(req))
	resp, err := cb.Execute(func() (*http.Response, error) {
		resp, err := d.doer.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, &serverError{resp: resp}
		}
		return resp, nil
	})
	var se *serverError
	if errors.As(err, &se) {
		return se.resp, nil
	}
	return resp, err
}

// State returns the state of the breaker for resource. A resource that
// has never been requested is closed.
func (d *Doer) State(resource string) gobreaker.State {
	if cb, ok := d.breakers.Load(resource); ok {
		return cb.(*gobreaker.CircuitBreaker[*http.Response]).State()
	}
	return gobreaker.StateClosed
}

// CloseIdleConnections invokes the same method on the underlying doer,
// if it has one.
func (d *Doer) CloseIdleConnections() {
	if ic, ok := d.doer.(aspi.IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (d *Doer) breaker(resource string) *gobreaker.CircuitBreaker[*http.Response] {
	if cb, ok := d.breakers.Load(resource); ok {
		return cb.(*gobreaker.CircuitBreaker[*http.Response])
	}
	cb, _ := d.breakers.LoadOrStore(resource, d.newBreaker(resource))
	return cb.(*gobreaker.CircuitBreaker[*http.Response])
}

func (d *Doer) newBreaker(resource string) *gobreaker.CircuitBreaker[*http.Response] {
	failures := d.settings.ConsecutiveFailures
	if failures == 0 {
		failures = 1
	}
	st := gobreaker.Settings{
		Name:        resource,
		MaxRequests: d.settings.MaxRequests,
		Interval:    d.settings.Interval,
		Timeout:     d.settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	}
	if log := d.settings.Logger; log != nil {
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			log.Info("aspi: circuit breaker state change",
				"resource", name, "from", from.String(), "to", to.String())
		}
	}
	return gobreaker.NewCircuitBreaker[*http.Response](st)
}

// Resource returns the name of the breaker guarding req: its method
// and URL path joined by an underscore, for example "GET_/todos/1".
func Resource(req *http.Request) string {
	return req.Method + "_" + req.URL.Path
}

type serverError struct {
	resp *http.Response
}

func (e *serverError) Error() string {
	return "server error: " + e.resp.Status
}
