// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store provides the read surface over the Weaviate document store.
//
// # Description
//
// The analytics service never writes domain records; the upstream ingest
// pipeline owns them. This package exposes windowed reads for each record
// class plus a write probe against the reserved HealthProbe class for the
// system health check.
//
// Timestamps are stored as Unix-millisecond "number" properties so they can
// be range-filtered in GraphQL; the adapter converts them back to time.Time
// on the way out.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/SalishSeaAI/orcawatch/services/analytics/datatypes"
	"github.com/SalishSeaAI/orcawatch/services/analytics/respond"
)

// defaultQueryLimit bounds each windowed read. Sized well above realistic
// per-day record volume for the Salish Sea network.
const defaultQueryLimit = 10000

// probeKey is the fixed key written by every health probe document.
const probeKey = "system-health-probe"

// Store is the read surface the handlers depend on. Tests substitute fakes.
type Store interface {
	// Sightings returns sighting records within [start, end]. A non-empty
	// pod restricts results to that pod designation.
	Sightings(ctx context.Context, start, end time.Time, pod string) ([]datatypes.SightingRecord, error)

	// ZoneForecasts returns zone probability forecasts updated within [start, end].
	ZoneForecasts(ctx context.Context, start, end time.Time) ([]datatypes.ZoneForecast, error)

	// TagPings returns tag telemetry transmissions within [start, end].
	TagPings(ctx context.Context, start, end time.Time) ([]datatypes.TagPing, error)

	// BehaviorEvents returns behavior classifications within [start, end].
	BehaviorEvents(ctx context.Context, start, end time.Time) ([]datatypes.BehaviorEvent, error)

	// Ping verifies the store accepts writes by creating a probe document
	// under the reserved HealthProbe class.
	Ping(ctx context.Context) error
}

// WeaviateStore implements Store against a live Weaviate instance.
type WeaviateStore struct {
	client *weaviate.Client
	limit  int
}

// NewWeaviateStore wraps a Weaviate client in the Store interface.
func NewWeaviateStore(client *weaviate.Client) *WeaviateStore {
	return &WeaviateStore{
		client: client,
		limit:  defaultQueryLimit,
	}
}

// windowFilter builds the timestamp range filter shared by every read.
func windowFilter(field string, start, end time.Time) *filters.WhereBuilder {
	return filters.Where().
		WithOperator(filters.And).
		WithOperands([]*filters.WhereBuilder{
			filters.Where().
				WithPath([]string{field}).
				WithOperator(filters.GreaterThanEqual).
				WithValueNumber(float64(start.UnixMilli())),
			filters.Where().
				WithPath([]string{field}).
				WithOperator(filters.LessThanEqual).
				WithValueNumber(float64(end.UnixMilli())),
		})
}

// Sightings returns sighting records within the window, optionally
// restricted to one pod.
func (s *WeaviateStore) Sightings(ctx context.Context, start, end time.Time, pod string) ([]datatypes.SightingRecord, error) {
	where := windowFilter("timestamp", start, end)
	if pod != "" {
		where = filters.Where().
			WithOperator(filters.And).
			WithOperands([]*filters.WhereBuilder{
				where,
				filters.Where().
					WithPath([]string{"pod_id"}).
					WithOperator(filters.Equal).
					WithValueText(pod),
			})
	}

	result, err := s.client.GraphQL().Get().
		WithClassName("Sighting").
		WithWhere(where).
		WithLimit(s.limit).
		WithFields(
			graphql.Field{Name: "_additional { id }"},
			graphql.Field{Name: "timestamp"},
			graphql.Field{Name: "latitude"},
			graphql.Field{Name: "longitude"},
			graphql.Field{Name: "pod_id"},
			graphql.Field{Name: "behavior_primary"},
			graphql.Field{Name: "foraging_intensity"},
			graphql.Field{Name: "confidence"},
		).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query sightings: %w: %w", respond.ErrUpstreamUnavailable, err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.SightingQueryResponse](result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sighting response: %w: %w", respond.ErrMalformedPayload, err)
	}

	return sightingsFromResults(parsed.Get.Sighting), nil
}

// ZoneForecasts returns forecasts whose updated_at falls in the window.
func (s *WeaviateStore) ZoneForecasts(ctx context.Context, start, end time.Time) ([]datatypes.ZoneForecast, error) {
	result, err := s.client.GraphQL().Get().
		WithClassName("ZoneForecast").
		WithWhere(windowFilter("updated_at", start, end)).
		WithLimit(s.limit).
		WithFields(
			graphql.Field{Name: "zone_id"},
			graphql.Field{Name: "name"},
			graphql.Field{Name: "latitude"},
			graphql.Field{Name: "longitude"},
			graphql.Field{Name: "probability"},
			graphql.Field{Name: "updated_at"},
		).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query zone forecasts: %w: %w", respond.ErrUpstreamUnavailable, err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.ZoneForecastQueryResponse](result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zone forecast response: %w: %w", respond.ErrMalformedPayload, err)
	}

	return zoneForecastsFromResults(parsed.Get.ZoneForecast), nil
}

// TagPings returns telemetry transmissions within the window.
func (s *WeaviateStore) TagPings(ctx context.Context, start, end time.Time) ([]datatypes.TagPing, error) {
	result, err := s.client.GraphQL().Get().
		WithClassName("TagPing").
		WithWhere(windowFilter("timestamp", start, end)).
		WithLimit(s.limit).
		WithFields(
			graphql.Field{Name: "tag_id"},
			graphql.Field{Name: "timestamp"},
			graphql.Field{Name: "depth_meters"},
			graphql.Field{Name: "duration_seconds"},
		).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag pings: %w: %w", respond.ErrUpstreamUnavailable, err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.TagPingQueryResponse](result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tag ping response: %w: %w", respond.ErrMalformedPayload, err)
	}

	return tagPingsFromResults(parsed.Get.TagPing), nil
}

// BehaviorEvents returns behavior classifications within the window.
func (s *WeaviateStore) BehaviorEvents(ctx context.Context, start, end time.Time) ([]datatypes.BehaviorEvent, error) {
	result, err := s.client.GraphQL().Get().
		WithClassName("BehaviorEvent").
		WithWhere(windowFilter("timestamp", start, end)).
		WithLimit(s.limit).
		WithFields(
			graphql.Field{Name: "_additional { id }"},
			graphql.Field{Name: "timestamp"},
			graphql.Field{Name: "behavior"},
			graphql.Field{Name: "confidence"},
			graphql.Field{Name: "pod_id"},
		).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query behavior events: %w: %w", respond.ErrUpstreamUnavailable, err)
	}

	parsed, err := datatypes.ParseGraphQLResponse[datatypes.BehaviorEventQueryResponse](result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse behavior event response: %w: %w", respond.ErrMalformedPayload, err)
	}

	return behaviorEventsFromResults(parsed.Get.BehaviorEvent), nil
}

// Ping writes one probe document to the reserved HealthProbe class. A
// successful round trip proves the store is up and accepting writes.
func (s *WeaviateStore) Ping(ctx context.Context) error {
	props := map[string]interface{}{
		"probe_key":  probeKey,
		"checked_at": strfmt.DateTime(time.Now().UTC()),
	}

	result, err := s.client.Data().Creator().
		WithClassName(datatypes.HealthProbeClass).
		WithID(uuid.New().String()).
		WithProperties(props).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("health probe write failed: %w", err)
	}

	if result == nil || result.Object == nil {
		return fmt.Errorf("health probe write returned a nil result")
	}

	return nil
}

// =============================================================================
// Result Conversion
// =============================================================================

func sightingsFromResults(rows []datatypes.SightingResult) []datatypes.SightingRecord {
	records := make([]datatypes.SightingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, datatypes.SightingRecord{
			ID:                row.Additional.ID,
			Timestamp:         time.UnixMilli(row.Timestamp).UTC(),
			Latitude:          row.Latitude,
			Longitude:         row.Longitude,
			PodID:             row.PodID,
			BehaviorPrimary:   row.BehaviorPrimary,
			ForagingIntensity: row.ForagingIntensity,
			Confidence:        row.Confidence,
		})
	}
	return records
}

func zoneForecastsFromResults(rows []datatypes.ZoneForecastResult) []datatypes.ZoneForecast {
	forecasts := make([]datatypes.ZoneForecast, 0, len(rows))
	for _, row := range rows {
		forecasts = append(forecasts, datatypes.ZoneForecast{
			ZoneID:      row.ZoneID,
			Name:        row.Name,
			Latitude:    row.Latitude,
			Longitude:   row.Longitude,
			Probability: row.Probability,
			UpdatedAt:   time.UnixMilli(row.UpdatedAt).UTC(),
		})
	}
	return forecasts
}

func tagPingsFromResults(rows []datatypes.TagPingResult) []datatypes.TagPing {
	pings := make([]datatypes.TagPing, 0, len(rows))
	for _, row := range rows {
		pings = append(pings, datatypes.TagPing{
			TagID:           row.TagID,
			Timestamp:       time.UnixMilli(row.Timestamp).UTC(),
			DepthMeters:     row.DepthMeters,
			DurationSeconds: row.DurationSeconds,
		})
	}
	return pings
}

func behaviorEventsFromResults(rows []datatypes.BehaviorEventResult) []datatypes.BehaviorEvent {
	events := make([]datatypes.BehaviorEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, datatypes.BehaviorEvent{
			ID:         row.Additional.ID,
			Timestamp:  time.UnixMilli(row.Timestamp).UTC(),
			Behavior:   row.Behavior,
			Confidence: row.Confidence,
			PodID:      row.PodID,
		})
	}
	return events
}
