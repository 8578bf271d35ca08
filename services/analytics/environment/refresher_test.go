// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// Tests for the tidal cache refresher.

package environment

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresher_StartRunsWarmupFetch(t *testing.T) {
	cache := &FakeCache{empty: true}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, liveBody), nil
	}}

	r := NewRefresher(newTestGateway(t, client, cache), "@every 1h")
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	assert.Len(t, cache.stored, 1, "Start archives one reading immediately")
}

func TestRefresher_RejectsBadSchedule(t *testing.T) {
	cache := &FakeCache{empty: true}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, liveBody), nil
	}}

	r := NewRefresher(newTestGateway(t, client, cache), "every tuesday-ish")
	assert.Error(t, r.Start(context.Background()))
}

func TestRefresher_DefaultSchedule(t *testing.T) {
	r := NewRefresher(nil, "")
	assert.Equal(t, DefaultRefreshSchedule, r.schedule)
}
