// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

import (
	"github.com/harshtalks/aspi/request"
	"github.com/harshtalks/aspi/status"
)

// An ErrorContext is passed to an ErrorHandlerFunc when the terminal
// attempt of an execution fails with a status the handler is
// registered for.
type ErrorContext struct {
	Plan     *request.Plan
	Response *request.Response
}

// An ErrorHandlerFunc transforms a failed response into a caller-chosen
// error payload, which becomes the Data of a CustomError.
//
// Error handlers are trusted code: a panic raised by one is not
// recovered and propagates out of the executing method.
type ErrorHandlerFunc func(ErrorContext) any

type errorHandler struct {
	tag string
	fn  ErrorHandlerFunc
}

// errorHandlers maps status codes to handlers, remembering the order in
// which codes were first registered.
type errorHandlers struct {
	byCode map[status.Code]errorHandler
	order  []status.Code
}

func (h *errorHandlers) set(code status.Code, tag string, fn ErrorHandlerFunc) {
	if fn == nil {
		panic("aspi: nil error handler")
	}
	if h.byCode == nil {
		h.byCode = make(map[status.Code]errorHandler)
	}
	if _, ok := h.byCode[code]; !ok {
		h.order = append(h.order, code)
	}
	h.byCode[code] = errorHandler{tag: tag, fn: fn}
}

func (h *errorHandlers) lookup(code int) (errorHandler, bool) {
	eh, ok := h.byCode[status.Code(code)]
	return eh, ok
}

func (h *errorHandlers) clone() errorHandlers {
	c := errorHandlers{
		byCode: make(map[status.Code]errorHandler, len(h.byCode)),
		order:  append([]status.Code(nil), h.order...),
	}
	for k, v := range h.byCode {
		c.byCode[k] = v
	}
	return c
}

func (h *errorHandlers) tags() []string {
	tags := make([]string, len(h.order))
	for i, code := range h.order {
		tags[i] = h.byCode[code].tag
	}
	return tags
}
