// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// Tests for response envelope assembly.

package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, body HandlerBody) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	router := gin.New()
	router.GET("/probe", Handle("probe", body))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/probe", nil)
	router.ServeHTTP(w, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHandle_SuccessEnvelope(t *testing.T) {
	w, env := serve(t, func(c *gin.Context) (any, error) {
		return map[string]int{"count": 3}, nil
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, env.Timestamp)
	require.NotNil(t, env.ResponseTime, "success envelopes always carry responseTime")
	assert.GreaterOrEqual(t, *env.ResponseTime, int64(0))
	assert.NotNil(t, env.Data)
	assert.Empty(t, env.Message, "success envelopes carry data, never a message")
}

func TestHandle_ErrorEnvelope(t *testing.T) {
	w, env := serve(t, func(c *gin.Context) (any, error) {
		return nil, fmt.Errorf("query sightings: %w", ErrUpstreamUnavailable)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "data store temporarily unavailable", env.Message)
	assert.NotEmpty(t, env.Timestamp)
	assert.Nil(t, env.Data, "error envelopes carry a message, never data")
	assert.Nil(t, env.ResponseTime)
}

func TestHandle_MalformedPayloadSharesWireMessage(t *testing.T) {
	_, upstream := serve(t, func(c *gin.Context) (any, error) {
		return nil, ErrUpstreamUnavailable
	})
	_, malformed := serve(t, func(c *gin.Context) (any, error) {
		return nil, fmt.Errorf("decode forecast row: %w", ErrMalformedPayload)
	})

	assert.Equal(t, upstream.Message, malformed.Message,
		"malformed payloads are wire-identical to upstream unavailability")
}

func TestHandle_UnknownErrorDoesNotLeakDetail(t *testing.T) {
	secret := errors.New("pq: password authentication failed for user admin")
	_, env := serve(t, func(c *gin.Context) (any, error) {
		return nil, secret
	})

	assert.Equal(t, "internal error", env.Message)
	assert.NotContains(t, env.Message, "password")
}

func TestHandle_InvalidRequestIs400(t *testing.T) {
	w, env := serve(t, func(c *gin.Context) (any, error) {
		return nil, fmt.Errorf("parse start: %w", ErrInvalidRequest)
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "invalid request parameters", env.Message)
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind string
		code int
	}{
		{"upstream", ErrUpstreamUnavailable, "upstream_unavailable", http.StatusInternalServerError},
		{"wrapped upstream", fmt.Errorf("x: %w", ErrUpstreamUnavailable), "upstream_unavailable", http.StatusInternalServerError},
		{"malformed", ErrMalformedPayload, "malformed_payload", http.StatusInternalServerError},
		{"invalid request", ErrInvalidRequest, "invalid_request", http.StatusBadRequest},
		{"unknown", errors.New("boom"), "internal", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _, code := errorKind(tt.err)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.code, code)
		})
	}
}
