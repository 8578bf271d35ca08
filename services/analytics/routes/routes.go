// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SalishSeaAI/orcawatch/services/analytics/handlers"
	"github.com/SalishSeaAI/orcawatch/services/analytics/store"
)

// SetupRoutes wires the analytics API onto the router.
func SetupRoutes(router *gin.Engine, st store.Store, source handlers.EnvironmentalSource,
	checks []handlers.HealthCheck) {

	// Liveness only; dependency health lives under /api/system-health.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "orcawatch-analytics"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/predictions", handlers.Predictions(st))
		api.GET("/dtag-data", handlers.DTagData(st, nil))
		api.GET("/real-time-data", handlers.RealTimeData(source))
		api.GET("/feeding-zones", handlers.FeedingZones(st))
		api.GET("/behavioral-analysis", handlers.BehavioralAnalysis(st))
		api.GET("/system-health", handlers.SystemHealth(checks))
	}
}
