// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package aggregate derives per-domain summary statistics from store records.
//
// Every routine here is a pure function over its input slice: no shared
// state, no I/O, deterministic output (the telemetry synthesizer takes an
// explicit random source). The threshold cutoffs are part of the API
// contract, not tuning knobs - clients bucket zones and events by them.
//
// Averages over an empty record set return 0, never a divide-by-zero fault.
package aggregate

import (
	"fmt"
	"sort"

	"github.com/SalishSeaAI/orcawatch/services/analytics/datatypes"
)

// Contract cutoffs shared across domains.
const (
	// ActiveThreshold marks a zone or event as active.
	ActiveThreshold = 0.5

	// HighThreshold marks a zone as high-probability or an event as
	// high-intensity.
	HighThreshold = 0.7
)

// maxZonesReturned caps the zones echoed back in a prediction summary.
const maxZonesReturned = 10

// PredictionSummary is the derived statistics envelope for zone forecasts.
type PredictionSummary struct {
	TotalZones           int                      `json:"totalZones"`
	ActiveZones          int                      `json:"activeZones"`
	HighProbabilityZones int                      `json:"highProbabilityZones"`
	AvgProbability       float64                  `json:"avgProbability"`
	Zones                []datatypes.ZoneForecast `json:"zones"`
}

// SummarizePredictions derives zone probability statistics.
//
// Active means probability strictly above 0.5; high-probability strictly
// above 0.7. The returned zone list is capped to the first 10 forecasts in
// store order. An empty input yields a zero-valued summary with an empty,
// non-nil zone list.
func SummarizePredictions(zones []datatypes.ZoneForecast) PredictionSummary {
	summary := PredictionSummary{
		TotalZones: len(zones),
		Zones:      []datatypes.ZoneForecast{},
	}

	var sum float64
	for _, z := range zones {
		sum += z.Probability
		if z.Probability > ActiveThreshold {
			summary.ActiveZones++
		}
		if z.Probability > HighThreshold {
			summary.HighProbabilityZones++
		}
	}

	if len(zones) > 0 {
		summary.AvgProbability = sum / float64(len(zones))
	}

	if len(zones) > maxZonesReturned {
		summary.Zones = append(summary.Zones, zones[:maxZonesReturned]...)
	} else {
		summary.Zones = append(summary.Zones, zones...)
	}

	return summary
}

// topHours returns the k busiest hour-of-day buckets as zero-padded "HH:00"
// strings, sorted descending by count. Ties break toward the earlier hour so
// the output is deterministic.
func topHours(counts map[int]int, k int) []string {
	type bucket struct {
		hour  int
		count int
	}

	buckets := make([]bucket, 0, len(counts))
	for hour, count := range counts {
		buckets = append(buckets, bucket{hour: hour, count: count})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		return buckets[i].hour < buckets[j].hour
	})

	if len(buckets) > k {
		buckets = buckets[:k]
	}

	hours := make([]string, 0, len(buckets))
	for _, b := range buckets {
		hours = append(hours, fmt.Sprintf("%02d:00", b.hour))
	}
	return hours
}
