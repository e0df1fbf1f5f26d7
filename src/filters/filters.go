// Package filters builds the canonical query string for the trip analytics
// endpoints from the dashboard's five optional filter widgets.
package filters

import (
	"net/url"
	"strconv"
	"strings"
)

// Criteria holds the five optional constraints a user can set before
// requesting data. A nil pointer or empty string means "no constraint";
// zero is a real value, never a default.
type Criteria struct {
	Date        string   // YYYY-MM-DD, free text from the date entry
	Hour        *int     // 0-23
	DistanceMax *float64 // km
	Zone        string   // free text
	FareMax     *float64
}

// Empty reports whether no field is set.
func (c Criteria) Empty() bool {
	return c.Date == "" && c.Hour == nil && c.DistanceMax == nil && c.Zone == "" && c.FareMax == nil
}

// Encode emits only the set fields, in fixed order: date, hour, distance,
// zone, fare. Free-text values are percent-encoded; numeric values are not.
// Returns "" when nothing is set. The fixed order is why this does not go
// through url.Values.Encode, which sorts keys alphabetically.
func (c Criteria) Encode() string {
	parts := make([]string, 0, 5)
	if c.Date != "" {
		parts = append(parts, "date="+url.QueryEscape(c.Date))
	}
	if c.Hour != nil {
		parts = append(parts, "hour="+strconv.Itoa(*c.Hour))
	}
	if c.DistanceMax != nil {
		parts = append(parts, "distance="+formatNumber(*c.DistanceMax))
	}
	if c.Zone != "" {
		parts = append(parts, "zone="+url.QueryEscape(c.Zone))
	}
	if c.FareMax != nil {
		parts = append(parts, "fare="+formatNumber(*c.FareMax))
	}
	return strings.Join(parts, "&")
}

// formatNumber renders a float without trailing zero noise so that a slider
// value of 5 encodes as "5" and 5.5 as "5.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
