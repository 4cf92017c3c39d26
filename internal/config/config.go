// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads the client profiles used by the aspi command.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/harshtalks/aspi/breaker"
	"github.com/harshtalks/aspi/retry"
)

// Profile describes a client: where it sends requests and how it
// retries them.
type Profile struct {
	BaseURL     string            `yaml:"base_url"`
	Headers     map[string]string `yaml:"headers"`
	BearerToken string            `yaml:"bearer_token"`
	Retry       RetryConfig       `yaml:"retry"`
	Breaker     BreakerConfig     `yaml:"breaker"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// RetryConfig is the retry section of a profile.
type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
	Statuses []int         `yaml:"statuses"`
	Backoff  BackoffConfig `yaml:"backoff"`
}

// BackoffConfig is the exponential backoff section of a retry config.
// When Base is set it takes precedence over a fixed delay.
type BackoffConfig struct {
	Base   time.Duration `yaml:"base"`
	Max    time.Duration `yaml:"max"`
	Jitter bool          `yaml:"jitter"`
}

// BreakerConfig is the circuit breaker section of a profile.
type BreakerConfig struct {
	Enabled             bool          `yaml:"enabled"`
	MaxRequests         uint32        `yaml:"max_requests"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
	Interval            time.Duration `yaml:"interval"`
	Timeout             time.Duration `yaml:"timeout"`
}

// LoggingConfig is the logging section of a profile.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a profile from a YAML file. Environment variables in the
// file are expanded before it is parsed.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p Profile
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	// Set defaults if necessary
	if p.Retry.Attempts < 1 {
		p.Retry.Attempts = 1
	}
	if p.Breaker.ConsecutiveFailures == 0 {
		p.Breaker.ConsecutiveFailures = 5
	}
	if p.Breaker.MaxRequests == 0 {
		p.Breaker.MaxRequests = 1
	}
	if p.Breaker.Timeout == 0 {
		p.Breaker.Timeout = 30 * time.Second
	}
	if p.Logging.Level == "" {
		p.Logging.Level = "info"
	}

	return &p, nil
}

// RetryPolicy returns the retry policy described by the profile.
func (p *Profile) RetryPolicy() retry.Policy {
	policy := retry.Policy{
		Attempts:    p.Retry.Attempts,
		StatusCodes: append([]int(nil), p.Retry.Statuses...),
	}
	switch b := p.Retry.Backoff; {
	case b.Base > 0:
		max := b.Max
		if max < b.Base {
			max = b.Base
		}
		policy.Delay = retry.Backoff(b.Base, max, b.Jitter)
	case p.Retry.Delay > 0:
		policy.Delay = retry.Fixed(p.Retry.Delay)
	}
	return policy
}

// BreakerSettings returns the circuit breaker settings described by
// the profile.
func (p *Profile) BreakerSettings() breaker.Settings {
	return breaker.Settings{
		MaxRequests:         p.Breaker.MaxRequests,
		ConsecutiveFailures: p.Breaker.ConsecutiveFailures,
		Interval:            p.Breaker.Interval,
		Timeout:             p.Breaker.Timeout,
	}
}
