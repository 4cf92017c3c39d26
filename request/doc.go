// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request provides the execution-ready description of an HTTP
request (Plan), the per-attempt view of an HTTP response (Response),
and the running state of one request execution (Execution).

A Plan is normally produced by the aspi.Request builder, which resolves
the base URL, path, and query string and merges headers before handing
the plan to the execution engine:

	p, err := aspi.Get[Todo](client, "/todos/1").Query("expand", "owner").Build(ctx)

Plans are snapshots. The engine never modifies a plan while executing
it; event handlers that need to change what goes on the wire change the
per-attempt http.Request instead.
*/
package request
