// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package aspi

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// A Decoding is the strategy used to decode response bodies.
type Decoding int

const (
	// JSONDecoding decodes bodies as JSON. An empty body decodes to
	// nil (or the zero value of the success type). A malformed body
	// ends the execution with a DecodeError tagged ParseErrorTag,
	// whatever the response status.
	JSONDecoding Decoding = iota
	// TextDecoding keeps bodies as strings.
	TextDecoding
	// BlobDecoding keeps bodies as raw bytes.
	BlobDecoding
)

var decodingNames = []string{"json", "text", "blob"}

// String returns the name of the decoding strategy.
func (d Decoding) String() string {
	if d < 0 || int(d) >= len(decodingNames) {
		return "unknown"
	}
	return decodingNames[d]
}

// decode produces the untyped value stored in request.Response.Data.
func (d Decoding) decode(body []byte) (any, error) {
	switch d {
	case TextDecoding:
		return string(body), nil
	case BlobDecoding:
		return body, nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return v, nil
}
