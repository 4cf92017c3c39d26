// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// request execution starts.
	//
	// When Client fires BeforeExecutionStart, the execution is
	// non-nil but the only fields that have been set are the plan and
	// the attempt budget.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// individual HTTP request attempt.
	//
	// When Client fires BeforeAttempt, the execution's request field
	// is set to the HTTP request that WILL BE sent after all
	// BeforeAttempt handlers have finished. Handlers may replace or
	// modify it. Its header is a fresh copy of the plan header, but
	// its URL is shared with the plan and must be cloned before it is
	// changed.
	BeforeAttempt
	// BeforeReadBody identifies the event that occurs after an attempt
	// has resulted in an HTTP response but before the response body is
	// read and buffered.
	//
	// When Client fires BeforeReadBody, the execution's response field
	// holds the status and raw response, but no body.
	//
	// BeforeReadBody never fires if the attempt ended in a transport
	// error.
	BeforeReadBody
	// AfterAttempt identifies the event that occurs after an attempt
	// is concluded, whether or not it succeeded.
	//
	// When Client fires AfterAttempt, the execution's response field
	// is always set. If the attempt ended in a transport error, the
	// error field is also set and the response is synthesized.
	//
	// AfterAttempt runs before the retry policy is consulted.
	AfterAttempt
	// BeforeRetry identifies the event that occurs when the retry
	// policy has decided to retry the current attempt, before the
	// retry delay.
	BeforeRetry
	// AfterExecutionEnd identifies the event that occurs after the
	// request execution ends.
	//
	// When Client fires AfterExecutionEnd, the execution is in the
	// same state it was in after the final attempt EXCEPT that the end
	// time is set and the failure field holds the terminal failure, if
	// any.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"BeforeReadBody",
	"AfterAttempt",
	"BeforeRetry",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur in a
// request execution, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		BeforeReadBody,
		AfterAttempt,
		BeforeRetry,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	if evt < 0 || evt >= eventSentinel {
		return "Unknown"
	}
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
