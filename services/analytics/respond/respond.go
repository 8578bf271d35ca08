// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package respond wraps every analytics handler in the uniform response
// envelope.
//
// It is the single point where failures become wire responses: handlers
// return (payload, error) and this package guarantees exactly one envelope
// per request, with wall-clock latency measured from request entry to
// envelope emission. Raw upstream error detail stays in the server logs;
// the wire carries only a fixed message per error kind, so internal detail
// never leaks through the API boundary.
package respond

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SalishSeaAI/orcawatch/services/analytics/observability"
)

// Envelope is the uniform wrapper returned by every endpoint.
// Exactly one of Data/Message is populated per status.
type Envelope struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	// ResponseTime is milliseconds of wall-clock latency. Present on
	// success envelopes only; a pointer so a 0ms response still
	// serializes instead of being dropped by omitempty.
	ResponseTime *int64 `json:"responseTime,omitempty"`
	Data         any    `json:"data,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Sentinel errors forming the fixed error taxonomy. Handlers and the store
// adapter wrap their failures in one of these; anything unrecognized maps
// to the internal kind.
var (
	// ErrUpstreamUnavailable means a document store query failed.
	ErrUpstreamUnavailable = errors.New("upstream store unavailable")

	// ErrMalformedPayload means the store answered with a payload we
	// could not parse. Treated identically to ErrUpstreamUnavailable on
	// the wire.
	ErrMalformedPayload = errors.New("malformed upstream payload")

	// ErrInvalidRequest means the client sent unusable query parameters.
	// The only error kind answered with HTTP 400 instead of 500.
	ErrInvalidRequest = errors.New("invalid request parameters")
)

// Wire messages per error kind. Deliberately generic: the raw error is
// logged server-side only.
const (
	msgUpstreamUnavailable = "data store temporarily unavailable"
	msgInvalidRequest      = "invalid request parameters"
	msgInternal            = "internal error"
)

// errorKind maps an error to its metrics label, wire message, and HTTP
// status code.
func errorKind(err error) (kind, message string, code int) {
	switch {
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable", msgUpstreamUnavailable, http.StatusInternalServerError
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload", msgUpstreamUnavailable, http.StatusInternalServerError
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request", msgInvalidRequest, http.StatusBadRequest
	default:
		return "internal", msgInternal, http.StatusInternalServerError
	}
}

// HandlerBody produces an endpoint's payload or fails.
type HandlerBody func(c *gin.Context) (any, error)

// Handle wraps a handler body in envelope assembly.
//
// The returned gin.HandlerFunc starts a timer on entry, runs the body, and
// emits exactly one envelope: HTTP 200 with data on success, or the error
// kind's fixed message and status code (500, or 400 for invalid request
// parameters) on any failure. Request metrics are recorded against the
// given endpoint label.
func Handle(endpoint string, body HandlerBody) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics := observability.DefaultMetrics
		metrics.RequestStarted(endpoint)
		defer metrics.RequestEnded(endpoint)

		data, err := body(c)
		elapsed := time.Since(start)

		if err != nil {
			kind, message, code := errorKind(err)
			slog.Error("Request failed",
				"endpoint", endpoint,
				"error_kind", kind,
				"error", err,
				"duration_ms", elapsed.Milliseconds())
			metrics.RecordRequest(endpoint, false, elapsed.Seconds())
			metrics.RecordError(endpoint, kind)

			c.JSON(code, Envelope{
				Status:    "error",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Message:   message,
			})
			return
		}

		metrics.RecordRequest(endpoint, true, elapsed.Seconds())
		elapsedMs := elapsed.Milliseconds()
		c.JSON(http.StatusOK, Envelope{
			Status:       "success",
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			ResponseTime: &elapsedMs,
			Data:         data,
		})
	}
}
