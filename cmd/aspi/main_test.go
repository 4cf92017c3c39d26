// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t0k3n", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		switch r.URL.Path {
		case "/todos/1":
			_, _ = io.WriteString(w, `{"id":1,"done":false}`)
		case "/echo":
			b, _ := io.ReadAll(r.Body)
			_, _ = w.Write(b)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"not found"}`)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeProfile(t *testing.T, baseURL string) string {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "base_url: " + baseURL + "\nbearer_token: t0k3n\nbreaker:\n  enabled: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	server := newServer(t)
	profile := writeProfile(t, server.URL)

	testCases := []struct {
		name   string
		args   []string
		code   int
		stdout string
	}{
		{"pair success", []string{"-config", profile, "get", "/todos/1"}, 0, `"id": 1`},
		{"result success", []string{"-config", profile, "-mode", "result", "GET", "/todos/1"}, 0, `"done": false`},
		{"throw success", []string{"-config", profile, "-mode", "throw", "POST", "/echo", `{"x":"y"}`}, 0, `"x": "y"`},
		{"pair failure", []string{"-config", profile, "GET", "/missing"}, 1, `"label": "NOT_FOUND"`},
		{"throw failure", []string{"-config", profile, "-mode", "throw", "GET", "/missing"}, 1, `"status": 404`},
		{"usage", []string{"-config", profile, "GET"}, 2, ""},
		{"bad mode", []string{"-config", profile, "-mode", "tagged", "GET", "/"}, 2, ""},
		{"bad profile", []string{"-config", filepath.Join(t.TempDir(), "nope.yaml"), "GET", "/"}, 1, ""},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var stdout, stderr strings.Builder
			code := run(context.Background(), testCase.args, &stdout, &stderr, server.Client())
			assert.Equal(t, testCase.code, code, stderr.String())
			assert.Contains(t, stdout.String(), testCase.stdout)
		})
	}
}
