// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// Tests for the InfluxDB tidal reading cache.

package environment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock InfluxDB WriteAPI ---

type MockWriteAPI struct {
	WritePointFunc func(ctx context.Context, point ...*write.Point) error
	WrittenPoints  []*write.Point
}

func (m *MockWriteAPI) WritePoint(ctx context.Context, point ...*write.Point) error {
	m.WrittenPoints = append(m.WrittenPoints, point...)
	if m.WritePointFunc != nil {
		return m.WritePointFunc(ctx, point...)
	}
	return nil
}

func (m *MockWriteAPI) WriteRecord(ctx context.Context, line ...string) error {
	return nil
}

func (m *MockWriteAPI) EnableBatching()                 {}
func (m *MockWriteAPI) Flush(ctx context.Context) error { return nil }

// --- Mock InfluxDB QueryAPI ---

type MockQueryAPI struct {
	QueryFunc func(ctx context.Context, query string) (*api.QueryTableResult, error)
	LastQuery string
}

func (m *MockQueryAPI) Query(ctx context.Context, q string) (*api.QueryTableResult, error) {
	m.LastQuery = q
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, q)
	}
	return nil, nil
}

func (m *MockQueryAPI) QueryRaw(ctx context.Context, query string, dialect *domain.Dialect) (string, error) {
	return "", nil
}

func (m *MockQueryAPI) QueryRawWithParams(ctx context.Context, query string, dialect *domain.Dialect, params interface{}) (string, error) {
	return "", nil
}

func (m *MockQueryAPI) QueryWithParams(ctx context.Context, query string, params interface{}) (*api.QueryTableResult, error) {
	return nil, nil
}

// --- Store Tests ---

func TestStore_WritesTaggedPoint(t *testing.T) {
	mockWrite := &MockWriteAPI{}
	cache := &InfluxCache{WriteAPI: mockWrite, Bucket: "orcawatch", Station: "9449880"}

	observedAt := time.Date(2026, 8, 29, 14, 24, 0, 0, time.UTC)
	err := cache.Store(context.Background(), 2.134, observedAt)
	require.NoError(t, err)

	require.Len(t, mockWrite.WrittenPoints, 1)
	p := mockWrite.WrittenPoints[0]
	assert.Equal(t, tidalMeasurement, p.Name())
	assert.Equal(t, observedAt, p.Time())

	tags := make(map[string]string)
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, "9449880", tags["station"])
}

func TestStore_PropagatesWriteError(t *testing.T) {
	mockWrite := &MockWriteAPI{
		WritePointFunc: func(ctx context.Context, point ...*write.Point) error {
			return errors.New("bucket not found")
		},
	}
	cache := &InfluxCache{WriteAPI: mockWrite, Bucket: "orcawatch", Station: "9449880"}

	err := cache.Store(context.Background(), 1.0, time.Now())
	assert.Error(t, err)
}

// --- Latest Tests ---

func TestLatest_QueryErrorPropagates(t *testing.T) {
	mockQuery := &MockQueryAPI{
		QueryFunc: func(ctx context.Context, query string) (*api.QueryTableResult, error) {
			return nil, errors.New("unauthorized")
		},
	}
	cache := &InfluxCache{QueryAPI: mockQuery, Bucket: "orcawatch", Station: "9449880"}

	_, _, err := cache.Latest(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheEmpty)
}

func TestLatest_NilResultIsCacheEmpty(t *testing.T) {
	// The client can return a nil result with a nil error on empty query
	// responses; the cache treats that as empty rather than panicking.
	mockQuery := &MockQueryAPI{}
	cache := &InfluxCache{QueryAPI: mockQuery, Bucket: "orcawatch", Station: "9449880"}

	_, _, err := cache.Latest(context.Background())
	assert.ErrorIs(t, err, ErrCacheEmpty)
}

func TestLatest_QueryScopesStationAndMeasurement(t *testing.T) {
	mockQuery := &MockQueryAPI{}
	cache := &InfluxCache{QueryAPI: mockQuery, Bucket: "orcawatch", Station: "9447130"}

	_, _, _ = cache.Latest(context.Background())

	assert.Contains(t, mockQuery.LastQuery, `from(bucket: "orcawatch")`)
	assert.Contains(t, mockQuery.LastQuery, tidalMeasurement)
	assert.Contains(t, mockQuery.LastQuery, `r.station == "9447130"`)
	assert.Contains(t, mockQuery.LastQuery, "last()")
}
