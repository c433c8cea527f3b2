package models

import (
	"fmt"
	"strings"
)

// Metric identifies a per-station trip metric
type Metric string

const (
	MetricTripCount   Metric = "tripCount"
	MetricDurationAvg Metric = "durationAvg"
	MetricDistanceAvg Metric = "distanceAvg"
)

// Direction identifies which side of a trip a metric is computed over.
// DirectionDiff selects the precomputed relative difference
// (departures-arrivals balance) in range [-1, 1].
type Direction string

const (
	DirectionDepartures Direction = "departures"
	DirectionArrivals   Direction = "arrivals"
	DirectionDiff       Direction = "diff"
)

// Valid reports whether the metric is one of the known values
func (m Metric) Valid() bool {
	switch m {
	case MetricTripCount, MetricDurationAvg, MetricDistanceAvg:
		return true
	}
	return false
}

// Valid reports whether the direction is one of the known values
func (d Direction) Valid() bool {
	switch d {
	case DirectionDepartures, DirectionArrivals, DirectionDiff:
		return true
	}
	return false
}

// MetricKey is a (metric, direction) pair used to index station values
type MetricKey struct {
	Metric    Metric
	Direction Direction
}

// String returns the key in "metric.direction" form, as stored in the
// database and exposed as a GeoJSON property name
func (k MetricKey) String() string {
	return fmt.Sprintf("%s.%s", k.Metric, k.Direction)
}

// ParseMetricKey parses a "metric.direction" property name
func ParseMetricKey(s string) (MetricKey, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return MetricKey{}, fmt.Errorf("malformed metric key %q", s)
	}

	key := MetricKey{Metric: Metric(parts[0]), Direction: Direction(parts[1])}
	if !key.Metric.Valid() || !key.Direction.Valid() {
		return MetricKey{}, fmt.Errorf("unknown metric key %q", s)
	}
	return key, nil
}

// Station represents a city-bike station with its geographic position and
// the metric values computed by the ingest pipeline. Stations are treated
// as immutable once handed to the visualization engine.
type Station struct {
	ID      string                `json:"stationId"`
	Name    string                `json:"name"`
	Lat     float64               `json:"lat"`
	Lon     float64               `json:"lon"`
	Metrics map[MetricKey]float64 `json:"-"`
}

// Value looks up the value for a metric/direction pair.
// The second return is false when the station has no value for the key.
func (s *Station) Value(m Metric, d Direction) (float64, bool) {
	if s.Metrics == nil {
		return 0, false
	}
	v, ok := s.Metrics[MetricKey{Metric: m, Direction: d}]
	return v, ok
}

// Properties returns the station's attributes as a flat property map,
// suitable for attaching to a GeoJSON feature or a tessellation cell.
func (s *Station) Properties() map[string]interface{} {
	props := map[string]interface{}{
		"stationId": s.ID,
		"name":      s.Name,
	}
	for k, v := range s.Metrics {
		props[k.String()] = v
	}
	return props
}
