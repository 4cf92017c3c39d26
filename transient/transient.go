// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"syscall"
)

// A Category is the transience category of a transport error, as
// reported by Categorize.
type Category int

const (
	// Not indicates a nil error or an error that falls in no other
	// category. Such failures are unlikely to clear up on retry.
	Not Category = iota
	// Timeout indicates a client-side timeout: the error or one of its
	// wrapped causes has a Timeout method that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED), as happens while a service restarts.
	ConnRefused
	// ConnReset indicates the remote host reset an established
	// connection (syscall.ECONNRESET).
	ConnReset
	// Canceled indicates the execution's context was canceled. It is
	// never transient.
	Canceled
)

var categoryNames = [...]string{
	Not:         "other",
	Timeout:     "timeout",
	ConnRefused: "conn_refused",
	ConnReset:   "conn_reset",
	Canceled:    "canceled",
}

// String returns a short snake_case name for c, suitable as a log
// attribute or metric label.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Transient reports whether a retry after an error of category c has a
// reasonable prospect of success.
func (c Category) Transient() bool {
	return c == Timeout || c == ConnRefused || c == ConnReset
}

// Categorize returns the category of err. Wrapped causes are examined
// as well as err itself. Cancellation takes precedence over timeouts,
// and a timeout over the connection errors.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	if errors.Is(err, context.Canceled) {
		return Canceled
	}

	var t hasTimeout
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &t) && t.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
