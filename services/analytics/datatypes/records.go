// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the record shapes read from the document store
// and the summary shapes returned by the analytics endpoints.
//
// Records are immutable facts owned by the store; this service only reads
// them. Summaries are derived per request and never cached here.
package datatypes

import "time"

// ReadingSource tags the provenance of an environmental reading.
//
// The tag is a first-class field: it must always be populated and must
// truthfully reflect where the value came from. Clients render it.
type ReadingSource string

const (
	// SourceLive marks a reading fetched fresh from the external source.
	SourceLive ReadingSource = "Live"

	// SourceCache marks a reading served from the store's cached copy,
	// including the sentinel default when the cache is empty.
	SourceCache ReadingSource = "Cache"
)

// SightingRecord is a single whale sighting fact.
//
// BehaviorPrimary and ForagingIntensity are populated by the upstream
// labeling pipeline and may be absent on older records.
type SightingRecord struct {
	ID                string    `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	PodID             string    `json:"podId,omitempty"`
	BehaviorPrimary   string    `json:"behaviorPrimary,omitempty"`
	ForagingIntensity float64   `json:"foragingIntensity,omitempty"`
	Confidence        float64   `json:"confidence,omitempty"`
}

// ZoneForecast is a model-produced probability estimate for one zone.
type ZoneForecast struct {
	ZoneID      string    `json:"zoneId"`
	Name        string    `json:"name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Probability float64   `json:"probability"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TagPing is one telemetry transmission from a suction-cup tag.
type TagPing struct {
	TagID           string    `json:"tagId"`
	Timestamp       time.Time `json:"timestamp"`
	DepthMeters     float64   `json:"depthMeters"`
	DurationSeconds float64   `json:"durationSeconds"`
}

// BehaviorEvent is a single labeled behavior classification.
type BehaviorEvent struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Behavior   string    `json:"behavior"`
	Confidence float64   `json:"confidence"`
	PodID      string    `json:"podId,omitempty"`
}

// EnvironmentalReading is a tidal height observation with provenance.
type EnvironmentalReading struct {
	TidalHeightM float64       `json:"tidalHeight"`
	Timestamp    time.Time     `json:"timestamp"`
	Source       ReadingSource `json:"source"`
}
