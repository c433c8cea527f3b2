package etl

import (
	"math"

	"github.com/avainio/bikeviz-backend-go/internal/models"
	"github.com/avainio/bikeviz-backend-go/internal/spatial"
)

// Validator applies plausibility rules to parsed trips before aggregation
type Validator struct {
	// MaxSpeedKmh is the maximum realistic average speed for a bike trip
	MaxSpeedKmh float64
	// MinDurationSec rejects accidental dock re-racks
	MinDurationSec float64
	// DurationToleranceSec is the allowed disagreement between the
	// reported duration and the departure/return timestamp difference
	DurationToleranceSec float64
	// DistanceSlackMeters is the allowed shortfall of the covered distance
	// against the straight-line distance between the two stations. A path
	// can never be shorter than the geodesic; the slack absorbs GPS noise.
	DistanceSlackMeters float64

	coords map[string]models.Station
}

// NewValidator returns a validator with the defaults used for HSL data
func NewValidator() *Validator {
	return &Validator{
		MaxSpeedKmh:          50.0,
		MinDurationSec:       1,
		DurationToleranceSec: 120,
		DistanceSlackMeters:  200,
	}
}

// SetStations supplies station coordinates for the straight-line distance
// check. Without coordinates that rule is skipped.
func (v *Validator) SetStations(stations []models.Station) {
	v.coords = make(map[string]models.Station, len(stations))
	for i := range stations {
		v.coords[stations[i].ID] = stations[i]
	}
}

// Valid reports whether a trip passes all plausibility rules
func (v *Validator) Valid(trip *models.Trip) bool {
	if trip.DepartureStationID == "" || trip.ReturnStationID == "" {
		return false
	}
	if !trip.ReturnTime.After(trip.DepartureTime) {
		return false
	}
	if trip.DurationSeconds < v.MinDurationSec {
		return false
	}
	if trip.DistanceMeters < 0 {
		return false
	}

	elapsed := trip.ReturnTime.Sub(trip.DepartureTime).Seconds()
	if math.Abs(elapsed-trip.DurationSeconds) > v.DurationToleranceSec {
		return false
	}

	if trip.DurationSeconds > 0 {
		speedKmh := (trip.DistanceMeters / trip.DurationSeconds) * 3.6
		if speedKmh > v.MaxSpeedKmh {
			return false
		}
	}

	if dep, ok := v.coords[trip.DepartureStationID]; ok {
		if ret, ok := v.coords[trip.ReturnStationID]; ok {
			straight := spatial.HaversineDistance(dep.Lat, dep.Lon, ret.Lat, ret.Lon)
			if straight > trip.DistanceMeters+v.DistanceSlackMeters {
				return false
			}
		}
	}

	return true
}

// Filter returns the trips that pass validation and the rejected count
func (v *Validator) Filter(trips []models.Trip) ([]models.Trip, int) {
	valid := make([]models.Trip, 0, len(trips))
	rejected := 0
	for i := range trips {
		if v.Valid(&trips[i]) {
			valid = append(valid, trips[i])
		} else {
			rejected++
		}
	}
	return valid, rejected
}
