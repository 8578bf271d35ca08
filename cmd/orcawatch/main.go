// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command orcawatch starts the OrcaWatch analytics HTTP server.
//
// This is the main entry point for the containerized analytics service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - ORCAWATCH_PORT: HTTP server port (default: 12280)
//   - WEAVIATE_SERVICE_URL: Weaviate document store URL (required)
//   - INFLUXDB_URL: InfluxDB URL for the tidal cache (optional)
//   - INFLUXDB_TOKEN: InfluxDB auth token (required when INFLUXDB_URL is set)
//   - INFLUXDB_ORG: InfluxDB organization (default: salishsea)
//   - INFLUXDB_BUCKET: InfluxDB bucket (default: environmental-data)
//   - NOAA_STATION_ID: CO-OPS tide station (default: 9449880, Friday Harbor)
//   - TIDAL_REFRESH_SCHEDULE: cron spec for cache warming, "off" to disable
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: orcawatch-otel-collector:4317)
//
// # Usage
//
//	# Build
//	go build -o orcawatch ./cmd/orcawatch
//
//	# Run
//	./orcawatch
//
//	# Or via container
//	podman-compose up orcawatch
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/SalishSeaAI/orcawatch/services/analytics"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	cfg := analytics.Config{
		Port:            getEnvInt("ORCAWATCH_PORT", 12280),
		WeaviateURL:     os.Getenv("WEAVIATE_SERVICE_URL"),
		InfluxURL:       os.Getenv("INFLUXDB_URL"),
		InfluxToken:     os.Getenv("INFLUXDB_TOKEN"),
		InfluxOrg:       getEnvString("INFLUXDB_ORG", "salishsea"),
		InfluxBucket:    getEnvString("INFLUXDB_BUCKET", "environmental-data"),
		NOAAStationID:   os.Getenv("NOAA_STATION_ID"),
		RefreshSchedule: os.Getenv("TIDAL_REFRESH_SCHEDULE"),
		OTelEndpoint:    getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "orcawatch-otel-collector:4317"),
	}

	slog.Info("Starting OrcaWatch analytics",
		"port", cfg.Port,
		"weaviate_url", cfg.WeaviateURL,
		"influx_url", cfg.InfluxURL,
		"noaa_station", cfg.NOAAStationID,
	)

	svc, err := analytics.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create analytics service: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Analytics service error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
