// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package timewindow resolves user-selected time slices into concrete
// [start, end) instant windows.
//
// A TimeSlice is (scale, width, offset): the window is `width` units of
// `scale` wide, and its end is shifted `offset` units back from "now".
// An offset of zero always means "window ending at now" - the UI relies on
// this to label the rightmost scrubber position as current.
//
// Month and year arithmetic is calendar-aware with day-of-month clamping:
// shifting 2024-03-31 back one month lands on 2024-02-29, never on a
// normalized date in March. Weeks are exactly seven days; hours and days
// are literal durations.
//
// The package is pure and has no dependencies beyond the standard library.
// All functions are deterministic given the injected `now`.
package timewindow

import (
	"errors"
	"fmt"
	"time"
)

// Scale is a calendar granularity for window arithmetic.
type Scale string

// The five supported scales.
const (
	Hours  Scale = "hours"
	Days   Scale = "days"
	Weeks  Scale = "weeks"
	Months Scale = "months"
	Years  Scale = "years"
)

// Precondition errors returned by Resolve.
var (
	ErrZeroWidth      = errors.New("window width must be at least 1")
	ErrNegativeOffset = errors.New("window offset must not be negative")
	ErrUnknownScale   = errors.New("unknown window scale")
)

// ParseScale converts a string into a Scale.
//
// Returns ErrUnknownScale for anything outside the five supported
// granularities. Matching is exact; callers normalize case upstream.
func ParseScale(s string) (Scale, error) {
	switch Scale(s) {
	case Hours, Days, Weeks, Months, Years:
		return Scale(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScale, s)
	}
}

// TimeSlice is a user-selected relative window.
//
// Width is the window size in scale units and must be at least 1.
// Offset is how many scale units the window's end sits back from now;
// zero means the window ends at now. Neither field has an upper bound
// here - the UI caps both at 15, but the resolver accepts any
// non-negative integer.
type TimeSlice struct {
	Scale  Scale `json:"scale"`
	Width  int   `json:"width"`
	Offset int   `json:"offset"`
}

// Window is a concrete [Start, End) instant range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate checks the TimeSlice preconditions without resolving it.
func (ts TimeSlice) Validate() error {
	if _, err := ParseScale(string(ts.Scale)); err != nil {
		return err
	}
	if ts.Width < 1 {
		return ErrZeroWidth
	}
	if ts.Offset < 0 {
		return ErrNegativeOffset
	}
	return nil
}

// Resolve converts the slice into a concrete window relative to now.
//
// The end instant is now shifted back Offset units; the start instant is
// the end shifted back another Width units. A zero-width window is a
// precondition violation, not an empty range.
//
// Example:
//
//	w, err := TimeSlice{Scale: timewindow.Months, Width: 1, Offset: 0}.Resolve(time.Now())
//	// w.End == now, w.Start == one calendar month earlier (day clamped)
func (ts TimeSlice) Resolve(now time.Time) (Window, error) {
	if err := ts.Validate(); err != nil {
		return Window{}, err
	}

	end := shift(now, ts.Scale, -ts.Offset)
	start := shift(end, ts.Scale, -ts.Width)

	return Window{Start: start, End: end}, nil
}

// shift moves t by n units of the given scale. Negative n moves backward.
func shift(t time.Time, scale Scale, n int) time.Time {
	switch scale {
	case Hours:
		return t.Add(time.Duration(n) * time.Hour)
	case Days:
		return t.AddDate(0, 0, n)
	case Weeks:
		return t.AddDate(0, 0, 7*n)
	case Months:
		return addMonthsClamped(t, n)
	case Years:
		return addMonthsClamped(t, 12*n)
	default:
		// Validate rejects unknown scales before we get here.
		return t
	}
}

// addMonthsClamped shifts t by n calendar months, clamping the day of
// month to the last valid day of the target month. time.AddDate is not
// usable here: it normalizes Mar 31 - 1 month into Mar 3.
func addMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()

	total := year*12 + int(month) - 1 + n
	targetYear := total / 12
	targetMonth := time.Month(total%12 + 1)
	if total%12 < 0 {
		// Go integer division truncates toward zero; fix up for
		// shifts that cross below January of year zero.
		targetYear--
		targetMonth += 12
	}

	if last := daysInMonth(targetYear, targetMonth); day > last {
		day = last
	}

	hour, min, sec := t.Clock()
	return time.Date(targetYear, targetMonth, day, hour, min, sec, t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
