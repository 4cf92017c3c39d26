// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

import (
	"github.com/google/uuid"

	"github.com/harshtalks/aspi/request"
)

// RequestIDHeader is the header set by RequestID.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID is an event handler that stamps every attempt of an
// execution with the same X-Request-Id header. The ID is a random UUID
// chosen on the first attempt, unless the plan already carries the
// header, in which case the plan's value is kept.
//
// Install it on the BeforeAttempt event:
//
//	handlers.PushBack(aspi.BeforeAttempt, aspi.RequestID)
var RequestID Handler = HandlerFunc(stampRequestID)

func stampRequestID(_ Event, e *request.Execution) {
	id := RequestIDOf(e)
	if id == "" {
		id = e.Plan.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		e.SetValue(requestIDKey{}, id)
	}
	if e.Request != nil {
		e.Request.Header.Set(RequestIDHeader, id)
	}
}

// RequestIDOf returns the ID stamped on e by RequestID, or the empty
// string if there is none.
func RequestIDOf(e *request.Execution) string {
	id, _ := e.Value(requestIDKey{}).(string)
	return id
}
