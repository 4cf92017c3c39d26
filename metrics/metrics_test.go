// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshtalks/aspi"
	"github.com/harshtalks/aspi/retry"
)

type scriptedDoer struct {
	steps []func() (*http.Response, error)
}

func (d *scriptedDoer) Do(_ *http.Request) (*http.Response, error) {
	step := d.steps[0]
	d.steps = d.steps[1:]
	return step()
}

func status(code int) func() (*http.Response, error) {
	return func() (*http.Response, error) {
		return &http.Response{StatusCode: code, Body: io.NopCloser(strings.NewReader(""))}, nil
	}
}

func fail() (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	handlers := &aspi.HandlerGroup{}
	c.Install(handlers)
	doer := &scriptedDoer{steps: []func() (*http.Response, error){
		fail, status(503), status(200),
		status(404),
	}}
	cl := &aspi.Client{BaseURL: "http://example.com", HTTPDoer: doer, Handlers: handlers}
	ctx := context.Background()

	_, err := aspi.Get[any](cl, "/").
		Retry(retry.Policy{Attempts: 3, StatusCodes: []int{503}}).
		Do(ctx)
	require.NoError(t, err)
	_, err = aspi.Post[any](cl, "/").
		NotFound(func(aspi.ErrorContext) any { return nil }).
		Do(ctx)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Attempts.WithLabelValues("GET", TransportStatus)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Attempts.WithLabelValues("GET", "503")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Attempts.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Attempts.WithLabelValues("POST", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Retries.WithLabelValues("GET")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Outcomes.WithLabelValues("GET", aspi.KindSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Outcomes.WithLabelValues("POST", aspi.KindCustom)))
	assert.Equal(t, 2, testutil.CollectAndCount(c.Duration))

	n, err := testutil.GatherAndCount(reg, "aspi_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestNew_NilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() { New(nil) })
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
