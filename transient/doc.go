// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient categorises the transport errors that end request
// attempts before any HTTP response exists.
//
// The category is reported on protocol errors, logged by the client,
// and used as a metric label. It does not drive retry decisions: every
// transport error is retried while the attempt budget allows.
package transient
