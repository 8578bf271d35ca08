// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/SalishSeaAI/orcawatch/pkg/validation"
	"github.com/SalishSeaAI/orcawatch/services/analytics/aggregate"
	"github.com/SalishSeaAI/orcawatch/services/analytics/respond"
	"github.com/SalishSeaAI/orcawatch/services/analytics/store"
)

// FeedingZones serves GET /api/feeding-zones: the feeding activity summary
// over the requested window, optionally filtered to one pod designation.
func FeedingZones(st store.Store) gin.HandlerFunc {
	return respond.Handle("feeding_zones", func(c *gin.Context) (any, error) {
		start, end, err := requestWindow(c)
		if err != nil {
			return nil, err
		}

		pod := c.Query("pod")
		if pod != "" {
			pod, err = validation.SanitizeIdentifier(pod)
			if err != nil {
				return nil, fmt.Errorf("%w: bad pod filter: %v", respond.ErrInvalidRequest, err)
			}
		}

		sightings, err := st.Sightings(c.Request.Context(), start, end, pod)
		if err != nil {
			return nil, fmt.Errorf("feeding window %s..%s: %w", start, end, err)
		}

		return aggregate.SummarizeFeeding(sightings), nil
	})
}
