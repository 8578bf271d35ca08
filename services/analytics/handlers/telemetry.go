// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"fmt"
	"math/rand/v2"

	"github.com/gin-gonic/gin"

	"github.com/SalishSeaAI/orcawatch/services/analytics/aggregate"
	"github.com/SalishSeaAI/orcawatch/services/analytics/respond"
	"github.com/SalishSeaAI/orcawatch/services/analytics/store"
)

// DTagData serves GET /api/dtag-data: the tag telemetry summary over the
// requested window.
//
// Battery levels are synthetic until a real telemetry feed exists; newRand
// supplies the random source per request so tests can seed it. A nil
// newRand draws a fresh unseeded source each request.
func DTagData(st store.Store, newRand func() *rand.Rand) gin.HandlerFunc {
	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}

	return respond.Handle("dtag_data", func(c *gin.Context) (any, error) {
		start, end, err := requestWindow(c)
		if err != nil {
			return nil, err
		}

		pings, err := st.TagPings(c.Request.Context(), start, end)
		if err != nil {
			return nil, fmt.Errorf("dtag window %s..%s: %w", start, end, err)
		}

		return aggregate.SummarizeTelemetry(pings, newRand()), nil
	})
}
