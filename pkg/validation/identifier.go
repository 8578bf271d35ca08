// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided identifiers that end up
// inside GraphQL where-filters or external API URLs. Using these validators
// prevents filter injection and malformed upstream requests.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern matches pod, tag, and zone identifiers.
// Allows: letters, digits, hyphens and underscores after the first character.
// Max length: 32 characters. Covers pod designations ("J", "K", "L87"),
// tag IDs ("DTAG-017") and zone slugs ("lime-kiln").
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_\-]{0,31}$`)

// stationPattern matches NOAA CO-OPS station identifiers, which are
// seven-digit numeric codes (e.g. 9447130 for Seattle).
var stationPattern = regexp.MustCompile(`^[0-9]{7}$`)

// ValidateIdentifier validates a pod/tag/zone identifier before it is used
// in a store query filter.
//
// Returns an error if the identifier is empty, too long, or contains
// characters outside [A-Za-z0-9_-].
//
// Example:
//
//	if err := validation.ValidateIdentifier(pod); err != nil {
//	    return nil, fmt.Errorf("invalid pod: %w", err)
//	}
//	// Safe to use in a GraphQL where filter
func ValidateIdentifier(id string) error {
	if id == "" {
		return fmt.Errorf("identifier cannot be empty")
	}

	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("invalid identifier: %q (must be 1-32 alphanumeric chars, hyphens, or underscores)", id)
	}

	return nil
}

// SanitizeIdentifier normalizes and validates an identifier.
// Returns the uppercased identifier if valid, or an error if invalid.
//
// Pod designations are case-insensitive on the wire ("j" and "J" are the
// same pod); the store keeps them uppercase.
func SanitizeIdentifier(id string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(id))
	if err := ValidateIdentifier(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// ValidateStationID validates a NOAA tide station identifier before it is
// interpolated into the upstream request URL.
func ValidateStationID(station string) error {
	if station == "" {
		return fmt.Errorf("station id cannot be empty")
	}

	if !stationPattern.MatchString(station) {
		return fmt.Errorf("invalid station id: %q (must be a 7-digit NOAA station code)", station)
	}

	return nil
}
