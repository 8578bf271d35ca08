// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package environment merges a live tidal observation from the NOAA CO-OPS
// water-level API with an InfluxDB-cached fallback.
//
// # Description
//
// The Gateway implements a strict source-preference chain:
//
//  1. Live fetch from NOAA for the configured station. The attempt fully
//     resolves before any fallback decision is made.
//  2. On live success the reading is archived to InfluxDB and tagged Live.
//  3. On any live failure (network error, non-2xx, malformed JSON, or a
//     well-formed response carrying zero data rows) the most recent cached
//     reading is served, tagged Cache.
//  4. With an empty cache a zero-height default is served, tagged Cache,
//     so callers always receive a well-formed reading.
//
// Fetch never returns an error: a degraded environmental reading must not
// fail the sighting-summary endpoints that embed it.
//
// # Thread Safety
//
// Gateway is safe for concurrent use; it holds no mutable state of its own.
package environment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/SalishSeaAI/orcawatch/pkg/validation"
	"github.com/SalishSeaAI/orcawatch/services/analytics/datatypes"
	"github.com/SalishSeaAI/orcawatch/services/analytics/observability"
)

// errEmptyPayload marks a syntactically valid NOAA response with no rows.
var errEmptyPayload = errors.New("NOAA response contained no data rows")

// GatewayConfig holds the tunable parts of the gateway.
type GatewayConfig struct {
	// BaseURL of the CO-OPS datagetter. Defaults to DefaultBaseURL.
	BaseURL string

	// StationID is the 7-digit NOAA station. Defaults to DefaultStationID.
	StationID string

	// Timeout bounds each live attempt including retries.
	// Defaults to 10 seconds.
	Timeout time.Duration

	// RetryMax is the number of retries per live attempt. Defaults to 2.
	RetryMax int

	// Client overrides the HTTP client; nil builds a retryable client from
	// Timeout and RetryMax. Tests inject mocks here.
	Client HTTPClient

	// Cache is the fallback store. Required.
	Cache ReadingCache
}

func applyGatewayDefaults(cfg *GatewayConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.StationID == "" {
		cfg.StationID = DefaultStationID
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryMax == 0 {
		cfg.RetryMax = 2
	}
}

// Gateway resolves the current tidal reading with cache fallback.
type Gateway struct {
	client  HTTPClient
	cache   ReadingCache
	baseURL string
	station string
	timeout time.Duration
}

// NewGateway builds a Gateway. When no client is injected, a
// retryablehttp standard client provides bounded retries with backoff.
func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	applyGatewayDefaults(&cfg)

	if cfg.Cache == nil {
		return nil, errors.New("environment: a ReadingCache is required")
	}
	if err := validation.ValidateStationID(cfg.StationID); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	client := cfg.Client
	if client == nil {
		retryClient := retryablehttp.NewClient()
		retryClient.Logger = log.New(io.Discard, "", 0)
		retryClient.RetryMax = cfg.RetryMax
		retryClient.HTTPClient.Timeout = cfg.Timeout

		client = retryClient.StandardClient()
	}

	return &Gateway{
		client:  client,
		cache:   cfg.Cache,
		baseURL: cfg.BaseURL,
		station: cfg.StationID,
		timeout: cfg.Timeout,
	}, nil
}

// Fetch resolves one environmental reading. It never returns an error;
// every failure mode degrades to a cached or default reading instead.
func (g *Gateway) Fetch(ctx context.Context) datatypes.EnvironmentalReading {
	liveCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	height, observedAt, err := g.fetchWaterLevel(liveCtx)
	if err == nil {
		if storeErr := g.cache.Store(ctx, height, observedAt); storeErr != nil {
			// Archival failure does not degrade the live reading.
			slog.Warn("Failed to archive tidal reading", "station", g.station, "error", storeErr)
		}
		return datatypes.EnvironmentalReading{
			TidalHeightM: height,
			Timestamp:    observedAt,
			Source:       datatypes.SourceLive,
		}
	}

	reason := "live_error"
	if errors.Is(err, errEmptyPayload) {
		reason = "empty_payload"
	}
	slog.Warn("Live tidal fetch failed, falling back to cache",
		"station", g.station, "reason", reason, "error", err)
	observability.DefaultMetrics.RecordFallback(reason)

	cachedHeight, cachedAt, cacheErr := g.cache.Latest(ctx)
	if cacheErr == nil {
		return datatypes.EnvironmentalReading{
			TidalHeightM: cachedHeight,
			Timestamp:    cachedAt,
			Source:       datatypes.SourceCache,
		}
	}

	if !errors.Is(cacheErr, ErrCacheEmpty) {
		slog.Error("Tidal cache lookup failed", "station", g.station, "error", cacheErr)
	}
	observability.DefaultMetrics.RecordFallback("cache_empty")

	return datatypes.EnvironmentalReading{
		TidalHeightM: 0,
		Timestamp:    time.Now().UTC(),
		Source:       datatypes.SourceCache,
	}
}

// Ping checks NOAA reachability without touching the cache. Used by the
// system health probe.
func (g *Gateway) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, _, err := g.fetchWaterLevel(pingCtx)
	if err != nil && !errors.Is(err, errEmptyPayload) {
		return err
	}
	return nil
}
