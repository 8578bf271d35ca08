// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/SalishSeaAI/orcawatch/services/analytics/respond"
)

// healthCheckTimeout bounds each sub-check independently. A hung
// dependency reports as degraded instead of hanging the probe.
const healthCheckTimeout = 5 * time.Second

// HealthCheck is one named reachability probe.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// CheckStatus is one sub-check's outcome with its own latency.
type CheckStatus struct {
	Status    string `json:"status"` // "healthy" or "error"
	LatencyMs int64  `json:"latencyMs"`
	Detail    string `json:"detail,omitempty"`
}

// HealthReport is the composite health payload.
type HealthReport struct {
	Status string                 `json:"status"` // "healthy" or "degraded"
	Checks map[string]CheckStatus `json:"checks"`
}

// SystemHealth serves GET /api/system-health.
//
// Sub-checks run concurrently; the composite is healthy iff every
// sub-check is healthy. A degraded composite is still a success envelope:
// the endpoint reports health, it does not have it.
func SystemHealth(checks []HealthCheck) gin.HandlerFunc {
	return respond.Handle("system_health", func(c *gin.Context) (any, error) {
		report := HealthReport{
			Status: "healthy",
			Checks: make(map[string]CheckStatus, len(checks)),
		}

		var mu sync.Mutex
		g, ctx := errgroup.WithContext(c.Request.Context())

		for _, check := range checks {
			g.Go(func() error {
				checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
				defer cancel()

				start := time.Now()
				err := check.Ping(checkCtx)
				latency := time.Since(start).Milliseconds()

				status := CheckStatus{Status: "healthy", LatencyMs: latency}
				if err != nil {
					status.Status = "error"
					status.Detail = err.Error()
				}

				mu.Lock()
				report.Checks[check.Name] = status
				if err != nil {
					report.Status = "degraded"
				}
				mu.Unlock()
				return nil
			})
		}

		// Sub-check failures land in the report, never in the error; the
		// group only serves as a join point.
		_ = g.Wait()

		return report, nil
	})
}
