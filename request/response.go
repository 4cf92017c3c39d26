// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"

	"github.com/harshtalks/aspi/status"
)

// A Response is the view of one attempt's HTTP response that retry
// policies, error handlers, and failures observe.
//
// A fresh Response is created for every attempt. When an attempt ends
// in a transport error instead of an HTTP response, a Response is
// synthesized with status 500 and a nil Raw response.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Status is the canonical label of StatusCode, for example
	// "NOT_FOUND".
	Status string

	// Raw is the underlying HTTP response, retained for inspection of
	// headers and other metadata. Its body has already been read and
	// closed. Raw is nil for a synthesized response.
	Raw *http.Response

	// Body is the complete response body.
	Body []byte

	// Data is the body decoded by the request's decoding strategy:
	// a generic JSON value (map[string]any, []any, string, float64,
	// bool, or nil), a string, or the body bytes.
	Data any
}

// NewResponse returns the Response for an HTTP response whose body has
// been read into body.
func NewResponse(raw *http.Response, body []byte) *Response {
	return &Response{
		StatusCode: raw.StatusCode,
		Status:     status.Label(raw.StatusCode),
		Raw:        raw,
		Body:       body,
	}
}

// Synthesized returns the Response used in place of an HTTP response
// when an attempt ends in a transport error.
func Synthesized() *Response {
	return &Response{
		StatusCode: int(status.InternalServerError),
		Status:     status.InternalServerError.Label(),
	}
}

// OK reports whether the status code is 2XX.
func (r *Response) OK() bool {
	return r != nil && status.Successful(r.StatusCode)
}

// Header returns the raw response headers, or nil if there are none.
func (r *Response) Header() http.Header {
	if r == nil || r.Raw == nil {
		return nil
	}
	return r.Raw.Header
}
