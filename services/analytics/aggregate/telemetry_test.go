// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// Tests for tag telemetry summaries.

package aggregate

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/SalishSeaAI/orcawatch/services/analytics/datatypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 0))
}

func TestSummarizeTelemetry_DistinctTags(t *testing.T) {
	base := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	pings := []datatypes.TagPing{
		{TagID: "DTAG-017", Timestamp: base, DepthMeters: 40},
		{TagID: "DTAG-017", Timestamp: base.Add(time.Hour), DepthMeters: 80},
		{TagID: "DTAG-022", Timestamp: base.Add(30 * time.Minute), DepthMeters: 120},
	}

	got := SummarizeTelemetry(pings, seededRand())

	assert.Equal(t, 2, got.ActiveTags, "distinct tag count is duplicate-insensitive")
	assert.Equal(t, 3, got.TotalTransmissions)
	assert.InDelta(t, 80.0, got.AvgDepthMeters, 1e-9)
	assert.Equal(t, base.Add(time.Hour).Format(time.RFC3339), got.LastTransmission)
}

func TestSummarizeTelemetry_OrderIndependent(t *testing.T) {
	base := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	pings := []datatypes.TagPing{
		{TagID: "A", Timestamp: base},
		{TagID: "B", Timestamp: base.Add(time.Minute)},
		{TagID: "A", Timestamp: base.Add(2 * time.Minute)},
	}
	reversed := []datatypes.TagPing{pings[2], pings[1], pings[0]}

	forward := SummarizeTelemetry(pings, seededRand())
	backward := SummarizeTelemetry(reversed, seededRand())

	assert.Equal(t, forward.ActiveTags, backward.ActiveTags)
	assert.Equal(t, forward.LastTransmission, backward.LastTransmission)
	assert.Equal(t, forward.BatteryLevels, backward.BatteryLevels)
}

func TestSummarizeTelemetry_Empty(t *testing.T) {
	got := SummarizeTelemetry(nil, seededRand())

	assert.Equal(t, 0, got.ActiveTags)
	assert.Equal(t, 0, got.TotalTransmissions)
	assert.Equal(t, 0.0, got.AvgDepthMeters, "average of zero pings is the 0 sentinel")
	assert.Empty(t, got.LastTransmission)
	require.NotNil(t, got.BatteryLevels)
	assert.Empty(t, got.BatteryLevels)
}

func TestSynthesizeBatteryLevels_SeededIsReproducible(t *testing.T) {
	tags := map[string]struct{}{"DTAG-017": {}, "DTAG-022": {}, "DTAG-031": {}}

	first := SynthesizeBatteryLevels(tags, seededRand())
	second := SynthesizeBatteryLevels(tags, seededRand())

	assert.Equal(t, first, second, "same seed must yield the same levels")
	for id, level := range first {
		assert.GreaterOrEqual(t, level, 20, "tag %s", id)
		assert.Less(t, level, 100, "tag %s", id)
	}
}
