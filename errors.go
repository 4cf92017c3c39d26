// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

import (
	"errors"
	"fmt"

	"github.com/harshtalks/aspi/request"
	"github.com/harshtalks/aspi/schema"
	"github.com/harshtalks/aspi/transient"
)

// Reserved tags carried by a DecodeError. Error handlers registered by
// callers should not use them.
const (
	// ParseErrorTag labels a response body that could not be decoded,
	// for example malformed JSON.
	ParseErrorTag = "jsonParseError"
	// SchemaErrorTag labels a request body or decoded response body
	// rejected by a schema validator.
	SchemaErrorTag = "schemaParseError"
)

// Failure kinds reported by Kind.
const (
	KindSuccess  = "success"
	KindProtocol = "protocol"
	KindCustom   = "custom"
	KindDecode   = "decode"
	KindOther    = "other"
)

// A ProtocolError is the failure produced when the terminal attempt
// received a non-2XX response and no error handler is registered for
// its status, or when the terminal attempt ended in a transport error.
//
// For a transport error, Err holds the cause (always a *url.Error) and
// Response is synthesized with status 500 INTERNAL_SERVER_ERROR.
type ProtocolError struct {
	Plan     *request.Plan
	Response *request.Response
	Err      error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return "aspi: " + e.Err.Error()
	}
	return fmt.Sprintf("aspi: %s %s: %d %s",
		e.Plan.Method, e.Plan.URL.Redacted(), e.Response.StatusCode, e.Response.Status)
}

// Unwrap returns the transport error, if any.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// StatusCode returns the status code of the terminal response.
func (e *ProtocolError) StatusCode() int {
	return e.Response.StatusCode
}

// Status returns the canonical label of the terminal response status.
func (e *ProtocolError) Status() string {
	return e.Response.Status
}

// Body returns the decoded body of the terminal response, or nil for a
// transport error.
func (e *ProtocolError) Body() any {
	return e.Response.Data
}

// Transport reports whether the error was caused by a transport error
// rather than an HTTP response.
func (e *ProtocolError) Transport() bool {
	return e.Err != nil
}

// Timeout reports whether the transport error was a timeout.
func (e *ProtocolError) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// A CustomError is the failure produced when the terminal attempt
// received a non-2XX response whose status has a registered error
// handler. Data is the value returned by the handler.
type CustomError struct {
	Tag      string
	Data     any
	Plan     *request.Plan
	Response *request.Response
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("aspi: %s (%d %s)", e.Tag, e.Response.StatusCode, e.Response.Status)
}

// A DecodeError is the failure produced when a body could not be
// decoded or was rejected by a schema validator. Tag is ParseErrorTag
// or SchemaErrorTag.
//
// For a rejected request body, no request was sent and Response is nil.
// Plan is also nil if the rejected body could not be encoded.
type DecodeError struct {
	Tag      string
	Err      error
	Issues   []schema.Issue
	Plan     *request.Plan
	Response *request.Response
}

func (e *DecodeError) Error() string {
	if len(e.Issues) > 0 {
		return "aspi: " + e.Tag + ": " + schema.Summarize(e.Issues)
	}
	if e.Err != nil {
		return "aspi: " + e.Tag + ": " + e.Err.Error()
	}
	return "aspi: " + e.Tag
}

// Unwrap returns the underlying decoding error, if any.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Tag returns the tag of a CustomError or DecodeError, the status
// label of a ProtocolError, or the empty string for any other error.
func Tag(err error) string {
	var ce *CustomError
	var de *DecodeError
	var pe *ProtocolError
	switch {
	case errors.As(err, &ce):
		return ce.Tag
	case errors.As(err, &de):
		return de.Tag
	case errors.As(err, &pe):
		return pe.Status()
	}
	return ""
}

// Kind classifies an execution failure as KindProtocol, KindCustom,
// KindDecode, or KindOther. A nil error is KindSuccess.
func Kind(err error) string {
	var ce *CustomError
	var de *DecodeError
	var pe *ProtocolError
	switch {
	case err == nil:
		return KindSuccess
	case errors.As(err, &ce):
		return KindCustom
	case errors.As(err, &de):
		return KindDecode
	case errors.As(err, &pe):
		return KindProtocol
	}
	return KindOther
}

type decodeTypeError struct {
	decoding Decoding
	target   any
}

func (e *decodeTypeError) Error() string {
	return fmt.Sprintf("cannot decode %s body into %T", e.decoding, e.target)
}
