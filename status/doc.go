// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package status holds the canonical table mapping numeric HTTP status
// codes to stable string labels, such as 404 <-> "NOT_FOUND" and
// 500 <-> "INTERNAL_SERVER_ERROR".
//
// The labels are used as error handler keys and to label the failures
// produced by a request execution.
package status
