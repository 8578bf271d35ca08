// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package environment

import (
	"context"
	"errors"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// tidalMeasurement is the InfluxDB measurement name for archived readings.
const tidalMeasurement = "tidal_readings"

// ErrCacheEmpty is returned by Latest when no reading has ever been archived.
var ErrCacheEmpty = errors.New("no cached reading available")

// ReadingCache archives live tidal readings and serves the most recent one
// back when the live source is down.
type ReadingCache interface {
	// Latest returns the most recently archived reading, or ErrCacheEmpty.
	Latest(ctx context.Context) (float64, time.Time, error)

	// Store archives a live reading.
	Store(ctx context.Context, heightM float64, observedAt time.Time) error
}

// NullCache is the ReadingCache used when no InfluxDB is configured:
// always empty, archives nothing. The gateway then degrades straight to
// the default reading whenever the live source fails.
type NullCache struct{}

func (NullCache) Latest(ctx context.Context) (float64, time.Time, error) {
	return 0, time.Time{}, ErrCacheEmpty
}

func (NullCache) Store(ctx context.Context, heightM float64, observedAt time.Time) error {
	return nil
}

// InfluxCache is the InfluxDB-backed ReadingCache.
//
// The write and query APIs are injected so tests can mock them without a
// running InfluxDB instance.
type InfluxCache struct {
	WriteAPI api.WriteAPIBlocking
	QueryAPI api.QueryAPI
	Bucket   string
	Station  string
}

// Store writes one reading as a point tagged with the source station.
func (c *InfluxCache) Store(ctx context.Context, heightM float64, observedAt time.Time) error {
	p := influxdb2.NewPoint(
		tidalMeasurement,
		map[string]string{
			"station": c.Station,
		},
		map[string]interface{}{
			"height_m": heightM,
		},
		observedAt,
	)

	if err := c.WriteAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("failed to write tidal reading: %w", err)
	}
	return nil
}

// Latest queries the most recent archived reading for the station.
func (c *InfluxCache) Latest(ctx context.Context) (float64, time.Time, error) {
	query := fmt.Sprintf(`
        from(bucket: "%s")
          |> range(start: -30d)
          |> filter(fn: (r) => r._measurement == "%s")
          |> filter(fn: (r) => r.station == "%s")
          |> filter(fn: (r) => r._field == "height_m")
          |> last()
    `, c.Bucket, tidalMeasurement, c.Station)

	result, err := c.QueryAPI.Query(ctx, query)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to query tidal cache: %w", err)
	}

	// Guard against nil result (can happen with empty query results)
	if result == nil {
		return 0, time.Time{}, ErrCacheEmpty
	}

	if result.Next() {
		record := result.Record()
		if val, ok := record.Value().(float64); ok {
			return val, record.Time().UTC(), nil
		}
	}
	if result.Err() != nil {
		return 0, time.Time{}, fmt.Errorf("tidal cache result error: %w", result.Err())
	}

	return 0, time.Time{}, ErrCacheEmpty
}
