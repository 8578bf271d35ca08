// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/SalishSeaAI/orcawatch/services/analytics/datatypes"
	"github.com/SalishSeaAI/orcawatch/services/analytics/respond"
)

// EnvironmentalSource resolves the current tidal reading. Satisfied by
// environment.Gateway; tests substitute fakes.
type EnvironmentalSource interface {
	Fetch(ctx context.Context) datatypes.EnvironmentalReading
}

// RealTimeData serves GET /api/real-time-data: the environmental reading
// with honest provenance. The gateway's fallback chain means this endpoint
// can only fail at the transport layer, never in the body.
func RealTimeData(source EnvironmentalSource) gin.HandlerFunc {
	return respond.Handle("real_time_data", func(c *gin.Context) (any, error) {
		return source.Fetch(c.Request.Context()), nil
	})
}
