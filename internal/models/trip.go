package models

import "time"

// Trip is one bike trip as parsed from the HSL open-data CSV export
type Trip struct {
	DepartureTime      time.Time
	ReturnTime         time.Time
	DepartureStationID string
	ReturnStationID    string
	DistanceMeters     float64
	DurationSeconds    float64
}

// EnrichedTrip is a trip with the derived date/time components used by
// time-of-day aggregation queries
type EnrichedTrip struct {
	Trip

	DepartureDate    string // YYYY-MM-DD
	DepartureHour    int
	DepartureWeekday int // Monday=0 .. Sunday=6

	ReturnDate    string
	ReturnHour    int
	ReturnWeekday int
}

// HourlyProfile is a station's trip activity bucketed by hour of day
type HourlyProfile struct {
	Departures [24]int `json:"departures"`
	Arrivals   [24]int `json:"arrivals"`
}
