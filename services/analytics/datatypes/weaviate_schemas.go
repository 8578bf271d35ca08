// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"context"
	"log"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
)

// HealthProbeClass is the class reserved for health-check write probes.
// Keeping probes in their own class guarantees they can never collide with
// domain data.
const HealthProbeClass = "HealthProbe"

func GetSightingSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       "Sighting",
		Description: "A single whale sighting with optional behavior labels.",
		Vectorizer:  "none",
		InvertedIndexConfig: &models.InvertedIndexConfig{
			IndexNullState:  true,
			IndexTimestamps: true,
		},
		Properties: []*models.Property{
			{
				Name:            "timestamp",
				DataType:        []string{"number"},
				Description:     "Unix milliseconds of the sighting.",
				IndexFilterable: indexFilterable,
			},
			{
				Name:        "latitude",
				DataType:    []string{"number"},
				Description: "Sighting latitude in decimal degrees.",
			},
			{
				Name:        "longitude",
				DataType:    []string{"number"},
				Description: "Sighting longitude in decimal degrees.",
			},
			{
				Name:            "pod_id",
				DataType:        []string{"text"},
				Description:     "Pod designation (e.g., 'J', 'K', 'L87').",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "behavior_primary",
				DataType:        []string{"text"},
				Description:     "Primary behavior label from the classification pipeline.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:        "foraging_intensity",
				DataType:    []string{"number"},
				Description: "Foraging intensity score in [0, 1].",
			},
			{
				Name:        "confidence",
				DataType:    []string{"number"},
				Description: "Label confidence in [0, 1].",
			},
		},
	}
}

func GetZoneForecastSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       "ZoneForecast",
		Description: "Model-produced sighting probability for a geographic zone.",
		Vectorizer:  "none",
		InvertedIndexConfig: &models.InvertedIndexConfig{
			IndexTimestamps: true,
		},
		Properties: []*models.Property{
			{
				Name:            "zone_id",
				DataType:        []string{"text"},
				Description:     "Stable zone identifier.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:         "name",
				DataType:     []string{"text"},
				Description:  "Human-readable zone name.",
				Tokenization: "word",
			},
			{
				Name:        "latitude",
				DataType:    []string{"number"},
				Description: "Zone centroid latitude.",
			},
			{
				Name:        "longitude",
				DataType:    []string{"number"},
				Description: "Zone centroid longitude.",
			},
			{
				Name:        "probability",
				DataType:    []string{"number"},
				Description: "Sighting probability in [0, 1].",
			},
			{
				Name:            "updated_at",
				DataType:        []string{"number"},
				Description:     "Unix milliseconds when the forecast was produced.",
				IndexFilterable: indexFilterable,
			},
		},
	}
}

func GetTagPingSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       "TagPing",
		Description: "A telemetry transmission from a suction-cup tag.",
		Vectorizer:  "none",
		InvertedIndexConfig: &models.InvertedIndexConfig{
			IndexTimestamps: true,
		},
		Properties: []*models.Property{
			{
				Name:            "tag_id",
				DataType:        []string{"text"},
				Description:     "Tag identifier (e.g., 'DTAG-017').",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "timestamp",
				DataType:        []string{"number"},
				Description:     "Unix milliseconds of the transmission.",
				IndexFilterable: indexFilterable,
			},
			{
				Name:        "depth_meters",
				DataType:    []string{"number"},
				Description: "Recorded depth in meters at transmission time.",
			},
			{
				Name:        "duration_seconds",
				DataType:    []string{"number"},
				Description: "Dive duration in seconds, if the tag reported one.",
			},
		},
	}
}

func GetBehaviorEventSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       "BehaviorEvent",
		Description: "A labeled behavior classification produced upstream.",
		Vectorizer:  "none",
		InvertedIndexConfig: &models.InvertedIndexConfig{
			IndexTimestamps: true,
		},
		Properties: []*models.Property{
			{
				Name:            "timestamp",
				DataType:        []string{"number"},
				Description:     "Unix milliseconds of the classified observation.",
				IndexFilterable: indexFilterable,
			},
			{
				Name:            "behavior",
				DataType:        []string{"text"},
				Description:     "Behavior label: foraging, traveling, socializing, or resting.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:        "confidence",
				DataType:    []string{"number"},
				Description: "Classifier confidence in [0, 1].",
			},
			{
				Name:            "pod_id",
				DataType:        []string{"text"},
				Description:     "Pod designation, if the observation was attributed.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
		},
	}
}

// GetHealthProbeSchema returns the schema for the HealthProbe class.
//
// # Description
//
// HealthProbe holds the timestamp documents written by the system-health
// write probe. The class is reserved for probes only; domain queries never
// touch it, so probe writes can never collide with domain data.
func GetHealthProbeSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       HealthProbeClass,
		Description: "Reserved class for health-check write probes.",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{
				Name:            "probe_key",
				DataType:        []string{"text"},
				Description:     "Reserved probe key; always 'system-health-probe'.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "checked_at",
				DataType:        []string{"date"},
				Description:     "RFC3339 timestamp of the probe write.",
				IndexFilterable: indexFilterable,
			},
		},
	}
}

func EnsureWeaviateSchema(client *weaviate.Client) {
	// A list of functions that return our schema definitions.
	schemaGetters := []func() *models.Class{
		GetSightingSchema,
		GetZoneForecastSchema,
		GetTagPingSchema,
		GetBehaviorEventSchema,
		GetHealthProbeSchema,
	}

	for _, getSchema := range schemaGetters {
		class := getSchema()
		slog.Info("Checking schema", "class", class.Class)

		// Check if the class already exists.
		_, err := client.Schema().ClassGetter().WithClassName(class.Class).Do(context.Background())
		if err != nil {
			// If it doesn't exist, the client returns an error. We can now create it.
			slog.Info("Schema not found, creating it...", "class", class.Class)
			err := client.Schema().ClassCreator().WithClass(class).Do(context.Background())
			if err != nil {
				// If we fail to create it, it's a fatal error.
				log.Fatalf("Failed to create schema for class %s: %v", class.Class, err)
			}
			slog.Info("Successfully created schema", "class", class.Class)
		} else {
			slog.Info("Schema already exists", "class", class.Class)
		}
	}
}
