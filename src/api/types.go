package api

// Token is the credential returned by both auth endpoints.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Summary aggregates the trips matching the current filters.
type Summary struct {
	TotalTrips     int     `json:"total_trips"`
	AvgDurationSec float64 `json:"avg_duration_sec"`
	BusiestHour    int     `json:"busiest_hour"`
}

// Trip is one listing row, rendered verbatim by the table.
type Trip struct {
	PickupLocation  string  `json:"pickup_location"`
	DropoffLocation string  `json:"dropoff_location"`
	DurationSec     int     `json:"duration_sec"`
	DistanceKm      float64 `json:"distance_km"`
	Fare            float64 `json:"fare"`
}

// TimeDistribution holds trip counts per pickup hour. Hours and Counts are
// parallel, index-aligned arrays.
type TimeDistribution struct {
	Hours  []int `json:"hours"`
	Counts []int `json:"counts"`
}

// DurationHistogram holds trip counts per fixed duration bin. Bins and
// Counts are parallel, index-aligned arrays.
type DurationHistogram struct {
	Bins   []string `json:"bins"`
	Counts []int    `json:"counts"`
}

// HeatmapPoint is one pickup location (longitude, latitude).
type HeatmapPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PickupHeatmap is a sample of pickup locations for scatter plotting.
type PickupHeatmap struct {
	Locations []HeatmapPoint `json:"locations"`
}

// Whoami identifies the authenticated user.
type Whoami struct {
	Username string `json:"username"`
}
