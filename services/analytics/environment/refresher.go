// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package environment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshSchedule keeps the cache no staler than six minutes, the
// CO-OPS water-level reporting interval.
const DefaultRefreshSchedule = "@every 6m"

// Refresher periodically drives Gateway.Fetch so the InfluxDB cache stays
// warm even when no client is asking for tidal data. A live fetch archives
// its reading as a side effect; a failed fetch is just logged by the
// gateway and retried on the next tick.
type Refresher struct {
	gateway  *Gateway
	schedule string
	cron     *cron.Cron
}

// NewRefresher builds a Refresher on the given gateway. An empty schedule
// uses DefaultRefreshSchedule.
func NewRefresher(gateway *Gateway, schedule string) *Refresher {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	return &Refresher{
		gateway:  gateway,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start schedules the refresh job and runs one immediate warm-up fetch.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.cron.AddFunc(r.schedule, func() {
		reading := r.gateway.Fetch(ctx)
		slog.Debug("Tidal cache refresh tick",
			"source", reading.Source, "height_m", reading.TidalHeightM)
	})
	if err != nil {
		return fmt.Errorf("error scheduling cache refresh: %w", err)
	}

	r.cron.Start()

	// Initial warm-up so the first API request after a cold start can
	// already fall back to something.
	r.gateway.Fetch(ctx)

	slog.Info("Tidal cache refresher started", "schedule", r.schedule)
	return nil
}

// Stop halts the schedule and waits for any in-flight tick.
func (r *Refresher) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	slog.Info("Tidal cache refresher stopped")
}
