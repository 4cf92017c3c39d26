// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

import (
	"fmt"

	"github.com/harshtalks/aspi/request"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in a Client.
//
// A HandlerGroup must not be modified while requests using it are
// executing.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler chain
// for a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	g.chain(evt, h)
	g.handlers[evt] = append(g.handlers[evt], h)
}

// PushFront adds an event handler to the front of the event handler
// chain for a specific event type.
func (g *HandlerGroup) PushFront(evt Event, h Handler) {
	g.chain(evt, h)
	g.handlers[evt] = append([]Handler{h}, g.handlers[evt]...)
}

// Len returns the length of the event handler chain for evt.
func (g *HandlerGroup) Len(evt Event) int {
	if int(evt) < len(g.handlers) {
		return len(g.handlers[evt])
	}
	return 0
}

func (g *HandlerGroup) chain(evt Event, h Handler) {
	if h == nil {
		panic("aspi: nil handler")
	}
	if evt < 0 || evt >= eventSentinel {
		panic(fmt.Sprintf("aspi: invalid event %d", int(evt)))
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, e)
	}
}

func run(chain []Handler, evt Event, e *request.Execution) {
	for _, h := range chain {
		h.Handle(evt, e)
	}
}

// A Handler handles the occurrence of an event during a request
// execution.
type Handler interface {
	Handle(Event, *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
