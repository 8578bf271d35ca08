// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides metrics and instrumentation for the
// analytics service.
//
// # Description
//
// This package implements Prometheus metrics for monitoring the analytics
// API. Metrics include:
//   - Request counters and latency histograms per endpoint
//   - Error counters by endpoint and error kind
//   - Environmental fallback counters by reason
//   - In-flight request gauges
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "orcawatch"

// Subsystem for API metrics
const apiSubsystem = "api"

// APIMetrics holds all Prometheus metrics for the analytics endpoints.
//
// # Description
//
// Provides counters, histograms, and gauges for monitoring request volume,
// latency, and degradation. Initialize once at startup via InitMetrics().
//
// # Thread Safety
//
// All operations are thread-safe.
type APIMetrics struct {
	// RequestsTotal counts requests by endpoint and status.
	// Labels: endpoint (predictions, dtag_data, ...), status (success, error)
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures wall-clock request latency.
	// Labels: endpoint, status
	RequestDurationSeconds *prometheus.HistogramVec

	// ErrorsTotal counts failed requests by endpoint and error kind.
	// Labels: endpoint, error_kind (upstream_unavailable, malformed_payload, internal)
	ErrorsTotal *prometheus.CounterVec

	// FallbacksTotal counts environmental reads served from cache.
	// Labels: reason (live_error, empty_payload, cache_empty)
	FallbacksTotal *prometheus.CounterVec

	// InFlightRequests tracks currently executing requests.
	// Labels: endpoint
	InFlightRequests *prometheus.GaugeVec
}

// DefaultMetrics is the singleton instance of APIMetrics.
// Initialized by InitMetrics(); nil when metrics are disabled.
var DefaultMetrics *APIMetrics

// NewMetrics creates an APIMetrics set registered against the given
// registerer. Tests pass an isolated prometheus.NewRegistry() to avoid
// default-registry collisions.
func NewMetrics(reg prometheus.Registerer) *APIMetrics {
	factory := promauto.With(reg)

	return &APIMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: apiSubsystem,
				Name:      "requests_total",
				Help:      "Total number of analytics requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		RequestDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: apiSubsystem,
				Name:      "request_duration_seconds",
				Help:      "Wall-clock request latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"endpoint", "status"},
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: apiSubsystem,
				Name:      "errors_total",
				Help:      "Total failed requests by endpoint and error kind",
			},
			[]string{"endpoint", "error_kind"},
		),

		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: apiSubsystem,
				Name:      "environmental_fallbacks_total",
				Help:      "Environmental reads served from cache, by reason",
			},
			[]string{"reason"},
		),

		InFlightRequests: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: apiSubsystem,
				Name:      "in_flight_requests",
				Help:      "Number of requests currently executing",
			},
			[]string{"endpoint"},
		),
	}
}

// InitMetrics initializes the default metrics instance against the global
// Prometheus registry. Call once at application startup; calling twice
// panics on duplicate registration.
func InitMetrics() *APIMetrics {
	DefaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	return DefaultMetrics
}

// RecordRequest records one completed request with its latency.
// Safe to call on a nil receiver so callers need no metrics-enabled check.
func (m *APIMetrics) RecordRequest(endpoint string, success bool, seconds float64) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.RequestDurationSeconds.WithLabelValues(endpoint, status).Observe(seconds)
}

// RecordError records one failed request by error kind.
func (m *APIMetrics) RecordError(endpoint, errorKind string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(endpoint, errorKind).Inc()
}

// RecordFallback records one environmental read served from cache.
func (m *APIMetrics) RecordFallback(reason string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(reason).Inc()
}

// RequestStarted marks a request as in flight.
func (m *APIMetrics) RequestStarted(endpoint string) {
	if m == nil {
		return
	}
	m.InFlightRequests.WithLabelValues(endpoint).Inc()
}

// RequestEnded marks a request as no longer in flight.
func (m *APIMetrics) RequestEnded(endpoint string) {
	if m == nil {
		return
	}
	m.InFlightRequests.WithLabelValues(endpoint).Dec()
}
