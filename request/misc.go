// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"io"
	"net/url"
	"strings"
)

const badBodyTypeMsg = "aspi/request: invalid type (for body use nil, " +
	"string, []byte, io.Reader or io.ReadCloser)"

// BodyBytes converts a generic body parameter to a byte slice for use
// as a plan body.
//
// The body parameter may be nil, or it may be a string, []byte,
// io.Reader, or io.ReadCloser. An io.Reader is read to the end, and an
// io.ReadCloser is also closed. Any other type is an error.
func BodyBytes(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		return x, nil
	case io.ReadCloser:
		b, err := io.ReadAll(x)
		if err != nil {
			return nil, err
		}
		err = x.Close()
		if err != nil {
			return nil, err
		}
		return b, nil
	case io.Reader:
		return BodyBytes(io.NopCloser(x))
	default:
		return nil, errors.New(badBodyTypeMsg)
	}
}

// ResolveURL joins base and path and appends the encoded query.
//
// If path is already an absolute URL, base is ignored. Otherwise
// exactly one slash separates base from path. Query parameters already
// present in path are kept, and query is added after them. A fragment
// stays at the end of the URL.
func ResolveURL(base, path string, query url.Values) (string, error) {
	s := path
	if u, err := url.Parse(path); err != nil {
		return "", err
	} else if !u.IsAbs() {
		switch {
		case base == "":
		case path == "":
			s = base
		default:
			s = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
		}
	}
	if len(query) == 0 {
		return s, nil
	}
	s, frag, hasFrag := strings.Cut(s, "#")
	sep := "?"
	if strings.Contains(s, "?") {
		sep = "&"
	}
	s += sep + query.Encode()
	if hasFrag {
		s += "#" + frag
	}
	return s, nil
}
