// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"encoding/json"
	"fmt"

	"github.com/weaviate/weaviate/entities/models"
)

// =============================================================================
// Generic GraphQL Response Parser
// =============================================================================

// ParseGraphQLResponse parses a Weaviate GraphQL response into the target type.
//
// # Description
//
// This generic function encapsulates the marshal/unmarshal pattern required to
// convert Weaviate's dynamic response (map[string]models.JSONObject) into a
// strongly-typed Go struct. The target type T must have json tags matching
// the expected response shape.
//
// # Type Parameters
//
//   - T: The target struct type with json tags matching the response shape.
//
// # Inputs
//
//   - resp: The GraphQL response from Weaviate client's Do() method.
//
// # Outputs
//
//   - *T: Pointer to the parsed struct.
//   - error: Non-nil if response is nil, carries GraphQL errors, or parsing fails.
//
// # Example
//
//	resp, err := client.GraphQL().Get().WithClassName("Sighting").Do(ctx)
//	if err != nil { ... }
//
//	parsed, err := ParseGraphQLResponse[SightingQueryResponse](resp)
//	if err != nil { ... }
//
//	for _, s := range parsed.Get.Sighting {
//	    fmt.Println(s.PodID)
//	}
//
// # Limitations
//
//   - Requires the target type to exactly match the expected response structure.
//   - Type mismatches will result in zero values, not errors.
func ParseGraphQLResponse[T any](resp *models.GraphQLResponse) (*T, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil GraphQL response")
	}

	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("GraphQL error: %s", resp.Errors[0].Message)
	}

	respBytes, err := json.Marshal(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL response data: %w", err)
	}

	var result T
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into target type: %w", err)
	}

	return &result, nil
}

// =============================================================================
// Query Response Types
// =============================================================================

// Timestamps are stored as Unix milliseconds ("number" properties); the
// store adapter converts them to time.Time on the way out.

// SightingQueryResponse represents the response from querying the Sighting class.
type SightingQueryResponse struct {
	Get struct {
		Sighting []SightingResult `json:"Sighting"`
	} `json:"Get"`
}

// SightingResult is a single sighting row from a query.
type SightingResult struct {
	Timestamp         int64   `json:"timestamp"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	PodID             string  `json:"pod_id"`
	BehaviorPrimary   string  `json:"behavior_primary"`
	ForagingIntensity float64 `json:"foraging_intensity"`
	Confidence        float64 `json:"confidence"`
	Additional        struct {
		ID string `json:"id"`
	} `json:"_additional"`
}

// ZoneForecastQueryResponse represents the response from querying the ZoneForecast class.
type ZoneForecastQueryResponse struct {
	Get struct {
		ZoneForecast []ZoneForecastResult `json:"ZoneForecast"`
	} `json:"Get"`
}

// ZoneForecastResult is a single zone forecast row from a query.
type ZoneForecastResult struct {
	ZoneID      string  `json:"zone_id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Probability float64 `json:"probability"`
	UpdatedAt   int64   `json:"updated_at"`
}

// TagPingQueryResponse represents the response from querying the TagPing class.
type TagPingQueryResponse struct {
	Get struct {
		TagPing []TagPingResult `json:"TagPing"`
	} `json:"Get"`
}

// TagPingResult is a single telemetry row from a query.
type TagPingResult struct {
	TagID           string  `json:"tag_id"`
	Timestamp       int64   `json:"timestamp"`
	DepthMeters     float64 `json:"depth_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// BehaviorEventQueryResponse represents the response from querying the BehaviorEvent class.
type BehaviorEventQueryResponse struct {
	Get struct {
		BehaviorEvent []BehaviorEventResult `json:"BehaviorEvent"`
	} `json:"Get"`
}

// BehaviorEventResult is a single behavior classification row from a query.
type BehaviorEventResult struct {
	Timestamp  int64   `json:"timestamp"`
	Behavior   string  `json:"behavior"`
	Confidence float64 `json:"confidence"`
	PodID      string  `json:"pod_id"`
	Additional struct {
		ID string `json:"id"`
	} `json:"_additional"`
}
