package etl

import (
	"github.com/avainio/bikeviz-backend-go/internal/models"
)

// Enrich derives the date/time components used by time-of-day queries
func Enrich(trip models.Trip) models.EnrichedTrip {
	depWeekday := (int(trip.DepartureTime.Weekday()) + 6) % 7 // Monday=0
	retWeekday := (int(trip.ReturnTime.Weekday()) + 6) % 7

	return models.EnrichedTrip{
		Trip:             trip,
		DepartureDate:    trip.DepartureTime.Format("2006-01-02"),
		DepartureHour:    trip.DepartureTime.Hour(),
		DepartureWeekday: depWeekday,
		ReturnDate:       trip.ReturnTime.Format("2006-01-02"),
		ReturnHour:       trip.ReturnTime.Hour(),
		ReturnWeekday:    retWeekday,
	}
}

// stationAccumulator folds trips touching one station
type stationAccumulator struct {
	depCount    float64
	depDuration float64
	depDistance float64
	arrCount    float64
	arrDuration float64
	arrDistance float64
}

// Aggregate folds trips into the per-station metric map consumed by the
// visualization engine: trip counts, average duration/distance per
// direction, and the relative departure/arrival difference in [-1, 1]
// for each metric.
func Aggregate(trips []models.Trip) map[string]map[models.MetricKey]float64 {
	acc := make(map[string]*stationAccumulator)

	get := func(id string) *stationAccumulator {
		a, ok := acc[id]
		if !ok {
			a = &stationAccumulator{}
			acc[id] = a
		}
		return a
	}

	for i := range trips {
		t := &trips[i]

		dep := get(t.DepartureStationID)
		dep.depCount++
		dep.depDuration += t.DurationSeconds
		dep.depDistance += t.DistanceMeters

		arr := get(t.ReturnStationID)
		arr.arrCount++
		arr.arrDuration += t.DurationSeconds
		arr.arrDistance += t.DistanceMeters
	}

	metrics := make(map[string]map[models.MetricKey]float64, len(acc))
	for id, a := range acc {
		depDurAvg := safeDiv(a.depDuration, a.depCount)
		arrDurAvg := safeDiv(a.arrDuration, a.arrCount)
		depDistAvg := safeDiv(a.depDistance, a.depCount)
		arrDistAvg := safeDiv(a.arrDistance, a.arrCount)

		metrics[id] = map[models.MetricKey]float64{
			{Metric: models.MetricTripCount, Direction: models.DirectionDepartures}: a.depCount,
			{Metric: models.MetricTripCount, Direction: models.DirectionArrivals}:   a.arrCount,
			{Metric: models.MetricTripCount, Direction: models.DirectionDiff}:       relativeDiff(a.depCount, a.arrCount),

			{Metric: models.MetricDurationAvg, Direction: models.DirectionDepartures}: depDurAvg,
			{Metric: models.MetricDurationAvg, Direction: models.DirectionArrivals}:   arrDurAvg,
			{Metric: models.MetricDurationAvg, Direction: models.DirectionDiff}:       relativeDiff(depDurAvg, arrDurAvg),

			{Metric: models.MetricDistanceAvg, Direction: models.DirectionDepartures}: depDistAvg,
			{Metric: models.MetricDistanceAvg, Direction: models.DirectionArrivals}:   arrDistAvg,
			{Metric: models.MetricDistanceAvg, Direction: models.DirectionDiff}:       relativeDiff(depDistAvg, arrDistAvg),
		}
	}

	return metrics
}

// relativeDiff computes (a-b)/(a+b), the signed balance in [-1, 1].
// Both zero means perfectly balanced, not undefined.
func relativeDiff(a, b float64) float64 {
	sum := a + b
	if sum == 0 {
		return 0
	}
	return (a - b) / sum
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
