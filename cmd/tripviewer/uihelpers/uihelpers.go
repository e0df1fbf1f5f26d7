package uihelpers

import (
	"fmt"

	"github.com/m-dhieu/NYC-Train-Mobility-App/src/api"
)

// Trip table columns, in display order.
const (
	ColPickup = iota
	ColDropoff
	ColDuration
	ColDistance
	ColFare
	ColumnCount
)

// ComputeChartDimensions turns the available window width into render
// dimensions for a chart image. Width never drops below the chart canvases'
// 900px minimum; height tracks width at a 1:3 ratio, clamped so three
// stacked charts stay scrollable rather than towering.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 900 {
		w = 900
	}
	h := w / 3
	if h < 320 {
		h = 320
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// ComputeTableColumnWidths returns the 5 column widths for the trips table
// given a window width. Order: Pickup, Dropoff, Duration, Distance, Fare.
// Below the compact breakpoint the numeric columns shrink; below the ultra
// breakpoint distance is dropped (width 0) to keep locations readable.
func ComputeTableColumnWidths(winW float32) [ColumnCount]int {
	const compactBreakpoint = 900
	const ultraCompactBreakpoint = 520
	if winW < ultraCompactBreakpoint {
		return [ColumnCount]int{130, 130, 80, 0, 70}
	}
	if winW < compactBreakpoint {
		return [ColumnCount]int{160, 160, 90, 80, 80}
	}
	return [ColumnCount]int{240, 240, 110, 100, 90}
}

// ColumnTitle returns the header text for a trips table column.
func ColumnTitle(col int) string {
	switch col {
	case ColPickup:
		return "Pickup"
	case ColDropoff:
		return "Dropoff"
	case ColDuration:
		return "Duration"
	case ColDistance:
		return "Distance (km)"
	case ColFare:
		return "Fare"
	}
	return ""
}

// SortKeyForColumn maps a tapped header column to the listing endpoint's sort
// key. Returns "" for out-of-range columns so callers can skip the read.
func SortKeyForColumn(col int) string {
	switch col {
	case ColPickup:
		return "pickup"
	case ColDropoff:
		return "dropoff"
	case ColDuration:
		return "duration"
	case ColDistance:
		return "distance"
	case ColFare:
		return "fare"
	}
	return ""
}

// TripCellText formats one trip field for display.
func TripCellText(t api.Trip, col int) string {
	switch col {
	case ColPickup:
		return t.PickupLocation
	case ColDropoff:
		return t.DropoffLocation
	case ColDuration:
		return FormatDuration(float64(t.DurationSec))
	case ColDistance:
		return fmt.Sprintf("%.2f", t.DistanceKm)
	case ColFare:
		return fmt.Sprintf("$%.2f", t.Fare)
	}
	return ""
}

// FormatDuration renders trip duration seconds as "Xm YYs", or plain seconds
// under a minute.
func FormatDuration(sec float64) string {
	s := int(sec + 0.5)
	if s < 0 {
		s = 0
	}
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm %02ds", s/60, s%60)
}

// FormatBusiestHour renders an hour-of-day as a compact clock label.
func FormatBusiestHour(h int) string {
	if h < 0 || h > 23 {
		return "-"
	}
	return fmt.Sprintf("%02d:00", h)
}
