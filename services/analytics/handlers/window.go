// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the analytics API endpoints.
//
// Each endpoint is a factory taking its dependencies and returning a
// gin.HandlerFunc; all of them delegate envelope assembly, latency
// measurement, and error mapping to the respond package. Clients usually
// resolve a time slice into concrete instants themselves and pass them as
// start/end query parameters, but the slice form is accepted too.
package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SalishSeaAI/orcawatch/pkg/timewindow"
	"github.com/SalishSeaAI/orcawatch/services/analytics/respond"
)

// defaultWindowWidth is the window used when a client sends no bounds.
const defaultWindowWidth = 24 * time.Hour

// requestWindow resolves the window query parameters into concrete
// instants.
//
// Two forms are accepted. Explicit bounds: start/end as RFC3339 instants
// forming a non-empty range. Slice form: scale/width/offset, resolved
// server-side for clients that don't want to do calendar arithmetic.
// Explicit bounds win when both are present; with neither, the window is
// the 24 hours ending now.
func requestWindow(c *gin.Context) (start, end time.Time, err error) {
	now := time.Now().UTC()

	if c.Query("start") == "" && c.Query("end") == "" && c.Query("scale") != "" {
		return sliceWindow(c, now)
	}

	end = now
	if raw := c.Query("end"); raw != "" {
		end, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end instant %q", respond.ErrInvalidRequest, raw)
		}
	}

	start = end.Add(-defaultWindowWidth)
	if raw := c.Query("start"); raw != "" {
		start, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start instant %q", respond.ErrInvalidRequest, raw)
		}
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s is not before end %s",
			respond.ErrInvalidRequest, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return start.UTC(), end.UTC(), nil
}

// sliceWindow resolves the scale/width/offset query parameters through the
// timewindow package. Width defaults to 1, offset to 0.
func sliceWindow(c *gin.Context, now time.Time) (time.Time, time.Time, error) {
	scale, err := timewindow.ParseScale(c.Query("scale"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", respond.ErrInvalidRequest, err)
	}

	slice := timewindow.TimeSlice{Scale: scale, Width: 1}
	if raw := c.Query("width"); raw != "" {
		slice.Width, err = strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: bad width %q", respond.ErrInvalidRequest, raw)
		}
	}
	if raw := c.Query("offset"); raw != "" {
		slice.Offset, err = strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: bad offset %q", respond.ErrInvalidRequest, raw)
		}
	}

	window, err := slice.Resolve(now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", respond.ErrInvalidRequest, err)
	}
	return window.Start, window.End, nil
}
