// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// Tests for zone prediction summaries.

package aggregate

import (
	"fmt"
	"testing"

	"github.com/SalishSeaAI/orcawatch/services/analytics/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizePredictions_Thresholds(t *testing.T) {
	zones := []datatypes.ZoneForecast{
		{ZoneID: "lime-kiln", Probability: 0.9},
		{ZoneID: "salmon-bank", Probability: 0.71},
		{ZoneID: "turn-point", Probability: 0.6},
		{ZoneID: "haro-strait", Probability: 0.5}, // exactly 0.5 is not active
		{ZoneID: "admiralty", Probability: 0.2},
	}

	got := SummarizePredictions(zones)

	assert.Equal(t, 5, got.TotalZones)
	assert.Equal(t, 3, got.ActiveZones, "active is probability > 0.5, exclusive")
	assert.Equal(t, 2, got.HighProbabilityZones, "high is probability > 0.7, exclusive")
	assert.InDelta(t, (0.9+0.71+0.6+0.5+0.2)/5, got.AvgProbability, 1e-9)
	assert.Len(t, got.Zones, 5)
}

func TestSummarizePredictions_Empty(t *testing.T) {
	got := SummarizePredictions(nil)

	assert.Equal(t, 0, got.TotalZones)
	assert.Equal(t, 0, got.ActiveZones)
	assert.Equal(t, 0.0, got.AvgProbability, "average of zero zones is the 0 sentinel")
	require.NotNil(t, got.Zones, "zones must serialize as [] rather than null")
	assert.Empty(t, got.Zones)
}

func TestSummarizePredictions_ZoneCap(t *testing.T) {
	zones := make([]datatypes.ZoneForecast, 25)
	for i := range zones {
		zones[i] = datatypes.ZoneForecast{ZoneID: fmt.Sprintf("zone-%02d", i), Probability: 0.4}
	}

	got := SummarizePredictions(zones)

	assert.Equal(t, 25, got.TotalZones)
	require.Len(t, got.Zones, 10, "returned zones are capped to the first 10")
	assert.Equal(t, "zone-00", got.Zones[0].ZoneID)
	assert.Equal(t, "zone-09", got.Zones[9].ZoneID)
}

func TestTopHours_Ordering(t *testing.T) {
	counts := map[int]int{3: 3, 5: 2, 9: 1}
	assert.Equal(t, []string{"03:00", "05:00"}, topHours(counts, 2))
}

func TestTopHours_TieBreaksTowardEarlierHour(t *testing.T) {
	counts := map[int]int{14: 2, 7: 2, 21: 2}
	assert.Equal(t, []string{"07:00", "14:00"}, topHours(counts, 2))
}

func TestTopHours_FewerBucketsThanK(t *testing.T) {
	counts := map[int]int{23: 1}
	assert.Equal(t, []string{"23:00"}, topHours(counts, 2))
}
