// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshtalks/aspi/request"
)

func writeProfile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("ASPI_TEST_TOKEN", "s3cr3t")
	path := writeProfile(t, `
base_url: https://api.example.com
headers:
  Accept: application/json
bearer_token: ${ASPI_TEST_TOKEN}
retry:
  attempts: 3
  delay: 250ms
  statuses: [502, 503]
breaker:
  enabled: true
  consecutive_failures: 2
  interval: 1m
logging:
  level: debug
`)

	p, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", p.BaseURL)
	assert.Equal(t, map[string]string{"Accept": "application/json"}, p.Headers)
	assert.Equal(t, "s3cr3t", p.BearerToken)
	assert.Equal(t, RetryConfig{Attempts: 3, Delay: 250 * time.Millisecond, Statuses: []int{502, 503}}, p.Retry)
	assert.Equal(t, BreakerConfig{
		Enabled:             true,
		MaxRequests:         1,
		ConsecutiveFailures: 2,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
	}, p.Breaker)
	assert.Equal(t, "debug", p.Logging.Level)

	policy := p.RetryPolicy()
	assert.Equal(t, 3, policy.Attempts)
	assert.Equal(t, []int{502, 503}, policy.StatusCodes)
	require.NotNil(t, policy.Delay)
	assert.Equal(t, 250*time.Millisecond, policy.Delay.Wait(nil))

	st := p.BreakerSettings()
	assert.Equal(t, uint32(2), st.ConsecutiveFailures)
	assert.Equal(t, time.Minute, st.Interval)
}

func TestLoad_Defaults(t *testing.T) {
	p, err := Load(writeProfile(t, "base_url: http://localhost:8080\n"))

	require.NoError(t, err)
	assert.Equal(t, 1, p.Retry.Attempts)
	assert.False(t, p.Breaker.Enabled)
	assert.Equal(t, uint32(5), p.Breaker.ConsecutiveFailures)
	assert.Equal(t, "info", p.Logging.Level)
	assert.Nil(t, p.RetryPolicy().Delay)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read profile")

	_, err = Load(writeProfile(t, "retry: [not, a, map]\n"))
	assert.ErrorContains(t, err, "failed to parse profile")
}

func TestProfile_RetryPolicyBackoff(t *testing.T) {
	p, err := Load(writeProfile(t, `
retry:
  attempts: 4
  delay: 1s
  backoff:
    base: 100ms
    max: 300ms
`))

	require.NoError(t, err)
	assert.Equal(t, BackoffConfig{Base: 100 * time.Millisecond, Max: 300 * time.Millisecond}, p.Retry.Backoff)
	policy := p.RetryPolicy()
	require.NotNil(t, policy.Delay)
	assert.Equal(t, 100*time.Millisecond, policy.Delay.Wait(&request.Execution{Attempt: 1}))
	assert.Equal(t, 200*time.Millisecond, policy.Delay.Wait(&request.Execution{Attempt: 2}))
	assert.Equal(t, 300*time.Millisecond, policy.Delay.Wait(&request.Execution{Attempt: 3}))

	p.Retry.Backoff.Max = 0
	assert.Equal(t, 100*time.Millisecond, p.RetryPolicy().Delay.Wait(&request.Execution{Attempt: 3}))
}
