// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

import (
	"net/http"
)

// HTTPDoer is the interface that wraps the basic Do method.
//
// Do sends one HTTP request and returns an HTTP response, following
// the same contract as Do on http.Client from the standard net/http
// package. It must not retry; retries are the client's job.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any connections which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
type IdleCloser interface {
	CloseIdleConnections()
}

// Get returns a request for a GET to path whose success value is the
// JSON body decoded into T.
func Get[T any](c *Client, path string) *Request[T] {
	return JSON[T](c, http.MethodGet, path)
}

// Post returns a request for a POST to path whose success value is the
// JSON body decoded into T.
func Post[T any](c *Client, path string) *Request[T] {
	return JSON[T](c, http.MethodPost, path)
}

// Put returns a request for a PUT to path whose success value is the
// JSON body decoded into T.
func Put[T any](c *Client, path string) *Request[T] {
	return JSON[T](c, http.MethodPut, path)
}

// Patch returns a request for a PATCH to path whose success value is
// the JSON body decoded into T.
func Patch[T any](c *Client, path string) *Request[T] {
	return JSON[T](c, http.MethodPatch, path)
}

// Delete returns a request for a DELETE to path whose success value is
// the JSON body decoded into T.
func Delete[T any](c *Client, path string) *Request[T] {
	return JSON[T](c, http.MethodDelete, path)
}

// Head returns a request for a HEAD to path. Its success value is the
// (normally empty) body as text.
func Head(c *Client, path string) *Request[string] {
	return Text(c, http.MethodHead, path)
}
