// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports Prometheus metrics about request executions.
//
// A Collector observes executions through event handlers, so it is
// installed in the HandlerGroup of an aspi.Client:
//
//	reg := prometheus.NewRegistry()
//	handlers := &aspi.HandlerGroup{}
//	metrics.New(reg).Install(handlers)
//	client := &aspi.Client{Handlers: handlers}
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/harshtalks/aspi"
	"github.com/harshtalks/aspi/request"
)

// TransportStatus is the status label of an attempt that ended in a
// transport error.
const TransportStatus = "transport"

// A Collector holds the execution metrics.
type Collector struct {
	// Attempts counts attempts by method and status code.
	Attempts *prometheus.CounterVec

	// Retries counts retries by method.
	Retries *prometheus.CounterVec

	// Outcomes counts finished executions by method and outcome kind.
	Outcomes *prometheus.CounterVec

	// Duration observes execution wall time by method.
	Duration *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics with reg. If reg is
// nil, the metrics are not registered.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aspi_attempts_total",
				Help: "Total number of HTTP request attempts",
			},
			[]string{"method", "status"},
		),
		Retries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aspi_retries_total",
				Help: "Total number of retries decided by retry policies",
			},
			[]string{"method"},
		),
		Outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aspi_outcomes_total",
				Help: "Total number of request executions by outcome kind",
			},
			[]string{"method", "kind"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aspi_execution_duration_seconds",
				Help:    "Request execution duration in seconds, including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// Install adds the collector's event handlers to the back of g.
func (c *Collector) Install(g *aspi.HandlerGroup) {
	g.PushBack(aspi.AfterAttempt, c)
	g.PushBack(aspi.BeforeRetry, c)
	g.PushBack(aspi.AfterExecutionEnd, c)
}

// Handle records the metrics for evt.
func (c *Collector) Handle(evt aspi.Event, e *request.Execution) {
	method := e.Plan.Method
	switch evt {
	case aspi.AfterAttempt:
		c.Attempts.WithLabelValues(method, attemptStatus(e)).Inc()
	case aspi.BeforeRetry:
		c.Retries.WithLabelValues(method).Inc()
	case aspi.AfterExecutionEnd:
		c.Outcomes.WithLabelValues(method, aspi.Kind(e.Failure)).Inc()
		c.Duration.WithLabelValues(method).Observe(e.Duration().Seconds())
	}
}

func attemptStatus(e *request.Execution) string {
	if e.Err != nil {
		return TransportStatus
	}
	return strconv.Itoa(e.StatusCode())
}
