// Copyright (C) 2026 Salish Sea AI (contact@salishsea.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package timewindow

import "time"

// Display layouts per scale. Precision follows the scale: hour detail for
// hourly windows, month+year for monthly, year only for yearly.
var scaleLayouts = map[Scale]string{
	Hours:  "Jan 2, 3 PM",
	Days:   "Jan 2, 2006",
	Weeks:  "Jan 2, 2006",
	Months: "Jan 2006",
	Years:  "2006",
}

// FormatInstant renders a single instant using the scale's display layout.
func FormatInstant(t time.Time, scale Scale) string {
	layout, ok := scaleLayouts[scale]
	if !ok {
		layout = time.RFC3339
	}
	return t.Format(layout)
}

// Label renders the window as human-readable range text, e.g.
// "Jan 2006 - Mar 2006" for a monthly window.
func (w Window) Label(scale Scale) string {
	return FormatInstant(w.Start, scale) + " - " + FormatInstant(w.End, scale)
}
