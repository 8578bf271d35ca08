// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// Tests for the tidal source-fallback gateway.

package environment

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SalishSeaAI/orcawatch/services/analytics/datatypes"
)

// --- Mock HTTP Client ---

type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.DoFunc(req)
}

// --- Fake ReadingCache ---

type FakeCache struct {
	height    float64
	observed  time.Time
	empty     bool
	latestErr error
	storeErr  error

	stored []float64
}

func (f *FakeCache) Latest(ctx context.Context) (float64, time.Time, error) {
	if f.latestErr != nil {
		return 0, time.Time{}, f.latestErr
	}
	if f.empty {
		return 0, time.Time{}, ErrCacheEmpty
	}
	return f.height, f.observed, nil
}

func (f *FakeCache) Store(ctx context.Context, heightM float64, observedAt time.Time) error {
	f.stored = append(f.stored, heightM)
	return f.storeErr
}

// --- Fixtures ---

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

const liveBody = `{"data":[{"t":"2026-08-29 14:24","v":"2.134","f":"0,0,0,0"}]}`

func newTestGateway(t *testing.T, client HTTPClient, cache ReadingCache) *Gateway {
	t.Helper()
	g, err := NewGateway(GatewayConfig{
		Client: client,
		Cache:  cache,
	})
	require.NoError(t, err)
	return g
}

// --- Fetch Tests ---

func TestFetch_LiveSuccess(t *testing.T) {
	cache := &FakeCache{empty: true}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, liveBody), nil
	}}

	reading := newTestGateway(t, client, cache).Fetch(context.Background())

	assert.Equal(t, datatypes.SourceLive, reading.Source)
	assert.InDelta(t, 2.134, reading.TidalHeightM, 1e-9)
	assert.Equal(t, time.Date(2026, 8, 29, 14, 24, 0, 0, time.UTC), reading.Timestamp)
	require.Len(t, cache.stored, 1, "live readings are archived")
	assert.InDelta(t, 2.134, cache.stored[0], 1e-9)
}

func TestFetch_LiveSuccessSurvivesArchiveFailure(t *testing.T) {
	cache := &FakeCache{storeErr: errors.New("influx down")}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, liveBody), nil
	}}

	reading := newTestGateway(t, client, cache).Fetch(context.Background())

	assert.Equal(t, datatypes.SourceLive, reading.Source)
	assert.InDelta(t, 2.134, reading.TidalHeightM, 1e-9)
}

func TestFetch_NetworkErrorFallsBackToCache(t *testing.T) {
	cachedAt := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cache := &FakeCache{height: 1.87, observed: cachedAt}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}

	reading := newTestGateway(t, client, cache).Fetch(context.Background())

	assert.Equal(t, datatypes.SourceCache, reading.Source)
	assert.InDelta(t, 1.87, reading.TidalHeightM, 1e-9)
	assert.Equal(t, cachedAt, reading.Timestamp)
	assert.Empty(t, cache.stored, "fallback readings are never re-archived")
}

func TestFetch_Non2xxFallsBackToCache(t *testing.T) {
	cache := &FakeCache{height: 1.5, observed: time.Now().UTC()}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusServiceUnavailable, `upstream maintenance`), nil
	}}

	reading := newTestGateway(t, client, cache).Fetch(context.Background())

	assert.Equal(t, datatypes.SourceCache, reading.Source)
	assert.InDelta(t, 1.5, reading.TidalHeightM, 1e-9)
}

func TestFetch_MalformedJSONFallsBackToCache(t *testing.T) {
	cache := &FakeCache{height: 0.92, observed: time.Now().UTC()}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `<html>not json</html>`), nil
	}}

	reading := newTestGateway(t, client, cache).Fetch(context.Background())

	assert.Equal(t, datatypes.SourceCache, reading.Source)
	assert.InDelta(t, 0.92, reading.TidalHeightM, 1e-9)
}

func TestFetch_EmptyDataRowsIsNotLive(t *testing.T) {
	cache := &FakeCache{height: 2.4, observed: time.Now().UTC()}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":[]}`), nil
	}}

	reading := newTestGateway(t, client, cache).Fetch(context.Background())

	assert.Equal(t, datatypes.SourceCache, reading.Source)
	assert.InDelta(t, 2.4, reading.TidalHeightM, 1e-9)
}

func TestFetch_APIErrorObjectFallsBackToCache(t *testing.T) {
	cache := &FakeCache{height: 2.4, observed: time.Now().UTC()}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"error":{"message":"No data was found"}}`), nil
	}}

	reading := newTestGateway(t, client, cache).Fetch(context.Background())

	assert.Equal(t, datatypes.SourceCache, reading.Source)
}

func TestFetch_EmptyCacheServesDefault(t *testing.T) {
	cache := &FakeCache{empty: true}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}

	before := time.Now().UTC()
	reading := newTestGateway(t, client, cache).Fetch(context.Background())
	after := time.Now().UTC()

	assert.Equal(t, datatypes.SourceCache, reading.Source)
	assert.Zero(t, reading.TidalHeightM)
	assert.False(t, reading.Timestamp.Before(before))
	assert.False(t, reading.Timestamp.After(after))
}

func TestFetch_CacheErrorServesDefault(t *testing.T) {
	cache := &FakeCache{latestErr: errors.New("influx query timeout")}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}

	reading := newTestGateway(t, client, cache).Fetch(context.Background())

	assert.Equal(t, datatypes.SourceCache, reading.Source)
	assert.Zero(t, reading.TidalHeightM)
}

func TestFetch_UsesLastDataRow(t *testing.T) {
	body := `{"data":[
		{"t":"2026-08-29 14:12","v":"2.010"},
		{"t":"2026-08-29 14:18","v":"2.071"},
		{"t":"2026-08-29 14:24","v":"2.134"}
	]}`
	cache := &FakeCache{empty: true}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, body), nil
	}}

	reading := newTestGateway(t, client, cache).Fetch(context.Background())

	assert.Equal(t, datatypes.SourceLive, reading.Source)
	assert.InDelta(t, 2.134, reading.TidalHeightM, 1e-9)
}

func TestFetch_RequestCarriesStationAndProduct(t *testing.T) {
	var seenURL string
	cache := &FakeCache{empty: true}
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		seenURL = req.URL.String()
		return jsonResponse(http.StatusOK, liveBody), nil
	}}

	g, err := NewGateway(GatewayConfig{
		Client:    client,
		Cache:     cache,
		StationID: "9447130",
	})
	require.NoError(t, err)
	g.Fetch(context.Background())

	assert.Contains(t, seenURL, "station=9447130")
	assert.Contains(t, seenURL, "product=water_level")
	assert.Contains(t, seenURL, "units=metric")
}

// --- Ping Tests ---

func TestPing_HealthyOnLiveData(t *testing.T) {
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, liveBody), nil
	}}

	err := newTestGateway(t, client, &FakeCache{empty: true}).Ping(context.Background())
	assert.NoError(t, err)
}

func TestPing_HealthyOnEmptyPayload(t *testing.T) {
	// Reachability is what the probe measures; a station with a reporting
	// gap is still a reachable API.
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":[]}`), nil
	}}

	err := newTestGateway(t, client, &FakeCache{empty: true}).Ping(context.Background())
	assert.NoError(t, err)
}

func TestPing_UnhealthyOnNetworkError(t *testing.T) {
	client := &MockHTTPClient{DoFunc: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("no route to host")
	}}

	err := newTestGateway(t, client, &FakeCache{empty: true}).Ping(context.Background())
	assert.Error(t, err)
}

// --- Config Tests ---

func TestNewGateway_RequiresCache(t *testing.T) {
	_, err := NewGateway(GatewayConfig{})
	assert.Error(t, err)
}

func TestNewGateway_RejectsBadStation(t *testing.T) {
	_, err := NewGateway(GatewayConfig{
		Cache:     &FakeCache{empty: true},
		StationID: "9447130&station=x",
	})
	assert.Error(t, err)
}

func TestNewGateway_Defaults(t *testing.T) {
	g, err := NewGateway(GatewayConfig{Cache: &FakeCache{empty: true}})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, g.baseURL)
	assert.Equal(t, DefaultStationID, g.station)
	assert.Equal(t, 10*time.Second, g.timeout)
	assert.NotNil(t, g.client)
}
