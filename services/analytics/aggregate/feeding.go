// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aggregate

import "github.com/SalishSeaAI/orcawatch/services/analytics/datatypes"

// peakHourCount is how many peak activity hours a feeding summary reports.
const peakHourCount = 2

// FeedingSummary is the derived statistics envelope for feeding activity.
type FeedingSummary struct {
	TotalSightings      int      `json:"totalSightings"`
	FeedingEvents       int      `json:"feedingEvents"`
	HighIntensityEvents int      `json:"highIntensityEvents"`
	AvgIntensity        float64  `json:"avgIntensity"`
	ActivePods          int      `json:"activePods"`
	PeakHours           []string `json:"peakHours"`
}

// SummarizeFeeding derives feeding activity statistics from sightings.
//
// A feeding event is a sighting with foraging intensity strictly above 0.5;
// high intensity is strictly above 0.7. ActivePods is the distinct pod-ID
// cardinality (unattributed sightings are skipped). PeakHours are the two
// busiest UTC hours of day across all sightings in the window, formatted
// "HH:00", descending by count with ties broken toward the earlier hour.
func SummarizeFeeding(sightings []datatypes.SightingRecord) FeedingSummary {
	summary := FeedingSummary{
		TotalSightings: len(sightings),
		PeakHours:      []string{},
	}

	pods := make(map[string]struct{})
	hourCounts := make(map[int]int)
	var intensitySum float64
	for _, s := range sightings {
		intensitySum += s.ForagingIntensity
		if s.PodID != "" {
			pods[s.PodID] = struct{}{}
		}
		hourCounts[s.Timestamp.UTC().Hour()]++
		if s.ForagingIntensity > ActiveThreshold {
			summary.FeedingEvents++
		}
		if s.ForagingIntensity > HighThreshold {
			summary.HighIntensityEvents++
		}
	}

	summary.ActivePods = len(pods)
	if len(sightings) > 0 {
		summary.AvgIntensity = intensitySum / float64(len(sightings))
	}
	summary.PeakHours = append(summary.PeakHours, topHours(hourCounts, peakHourCount)...)

	return summary
}
