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

	"github.com/SalishSeaAI/orcawatch/services/analytics/aggregate"
	"github.com/SalishSeaAI/orcawatch/services/analytics/respond"
	"github.com/SalishSeaAI/orcawatch/services/analytics/store"
)

// Predictions serves GET /api/predictions: the zone probability summary
// over the requested window, with the zone list capped to the first 10.
func Predictions(st store.Store) gin.HandlerFunc {
	return respond.Handle("predictions", func(c *gin.Context) (any, error) {
		start, end, err := requestWindow(c)
		if err != nil {
			return nil, err
		}

		zones, err := st.ZoneForecasts(c.Request.Context(), start, end)
		if err != nil {
			return nil, fmt.Errorf("predictions window %s..%s: %w", start, end, err)
		}

		return aggregate.SummarizePredictions(zones), nil
	})
}
