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

// BehavioralAnalysis serves GET /api/behavioral-analysis: classification
// counts over the fixed category set for the requested window.
func BehavioralAnalysis(st store.Store) gin.HandlerFunc {
	return respond.Handle("behavioral_analysis", func(c *gin.Context) (any, error) {
		start, end, err := requestWindow(c)
		if err != nil {
			return nil, err
		}

		events, err := st.BehaviorEvents(c.Request.Context(), start, end)
		if err != nil {
			return nil, fmt.Errorf("behavior window %s..%s: %w", start, end, err)
		}

		return aggregate.SummarizeBehavior(events), nil
	})
}
