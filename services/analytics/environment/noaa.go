// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package environment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// DefaultBaseURL is the NOAA CO-OPS data retrieval endpoint.
const DefaultBaseURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

// DefaultStationID is Friday Harbor, WA -- central to the Salish Sea
// sighting zones and continuously reporting.
const DefaultStationID = "9449880"

// HTTPClient interface allows injecting mock HTTP clients for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// --- NOAA CO-OPS Structs ---

type noaaWaterLevelResponse struct {
	Data []noaaDataRow `json:"data"`
	Err  *noaaError    `json:"error,omitempty"`
}

type noaaDataRow struct {
	Time  string `json:"t"` // "2026-08-29 14:24"
	Value string `json:"v"` // height in meters, as a string
	Flags string `json:"f,omitempty"`
}

type noaaError struct {
	Message string `json:"message"`
}

// noaaTimeLayout is the timestamp format in CO-OPS data rows (station
// local time when time_zone=lst_ldt, GMT when time_zone=gmt; we request gmt).
const noaaTimeLayout = "2006-01-02 15:04"

// fetchWaterLevel requests the latest water-level observation for the
// configured station. Any failure mode -- transport error, non-2xx,
// malformed JSON, an API-level error object, or an empty data array --
// returns an error so the caller falls back to the cache.
func (g *Gateway) fetchWaterLevel(ctx context.Context) (float64, time.Time, error) {
	url := fmt.Sprintf(
		"%s?product=water_level&application=orcawatch&station=%s&date=latest&datum=MLLW&units=metric&time_zone=gmt&format=json",
		g.baseURL, g.station,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to call NOAA API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, time.Time{}, fmt.Errorf("NOAA API returned status %s", resp.Status)
	}

	var payload noaaWaterLevelResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to decode NOAA JSON: %w", err)
	}

	if payload.Err != nil {
		return 0, time.Time{}, fmt.Errorf("NOAA API error: %s", payload.Err.Message)
	}

	// An empty data array is a well-formed response with nothing in it;
	// it is still not a live reading.
	if len(payload.Data) == 0 {
		return 0, time.Time{}, errEmptyPayload
	}

	row := payload.Data[len(payload.Data)-1]

	height, err := strconv.ParseFloat(row.Value, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to parse water level %q: %w", row.Value, err)
	}

	observedAt, err := time.Parse(noaaTimeLayout, row.Time)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to parse observation time %q: %w", row.Time, err)
	}

	return height, observedAt.UTC(), nil
}
