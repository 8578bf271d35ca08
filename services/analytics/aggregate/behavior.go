// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package aggregate

import "github.com/SalishSeaAI/orcawatch/services/analytics/datatypes"

// BehaviorCategories is the fixed category set reported by the behavioral
// analysis endpoint. The classifier upstream emits exactly these labels;
// anything else is a pipeline bug and is ignored here.
var BehaviorCategories = []string{"foraging", "traveling", "socializing", "resting"}

// BehaviorSummary is the derived statistics envelope for behavior
// classification counts.
type BehaviorSummary struct {
	Behaviors            map[string]int `json:"behaviors"`
	TotalClassifications int            `json:"totalClassifications"`
	DominantBehavior     string         `json:"dominantBehavior,omitempty"`
	AvgConfidence        float64        `json:"avgConfidence"`
}

// SummarizeBehavior derives classification counts over the fixed category
// set.
//
// The Behaviors map always carries all four categories, zero-filled, so
// clients never branch on missing keys. TotalClassifications counts only
// recognized labels. DominantBehavior is the highest-count category, ties
// broken by the BehaviorCategories order; empty when no events matched.
func SummarizeBehavior(events []datatypes.BehaviorEvent) BehaviorSummary {
	summary := BehaviorSummary{
		Behaviors: make(map[string]int, len(BehaviorCategories)),
	}
	for _, category := range BehaviorCategories {
		summary.Behaviors[category] = 0
	}

	var confidenceSum float64
	for _, e := range events {
		if _, known := summary.Behaviors[e.Behavior]; !known {
			continue
		}
		summary.Behaviors[e.Behavior]++
		summary.TotalClassifications++
		confidenceSum += e.Confidence
	}

	if summary.TotalClassifications > 0 {
		summary.AvgConfidence = confidenceSum / float64(summary.TotalClassifications)
	}

	best := 0
	for _, category := range BehaviorCategories {
		if summary.Behaviors[category] > best {
			best = summary.Behaviors[category]
			summary.DominantBehavior = category
		}
	}

	return summary
}
