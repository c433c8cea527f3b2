package viz

import (
	"fmt"

	"github.com/avainio/bikeviz-backend-go/internal/models"
)

// ExtractSeries pulls one numeric series out of a station collection for a
// metric/direction selection. A station without a value for the key
// contributes 0: absence is data, not an error.
//
// Panics on an unrecognized metric or direction; that indicates a caller
// bug, not a data condition.
func ExtractSeries(stations []models.Station, m models.Metric, d models.Direction) []float64 {
	if !m.Valid() {
		panic(fmt.Sprintf("viz: unknown metric %q", m))
	}
	if !d.Valid() {
		panic(fmt.Sprintf("viz: unknown direction %q", d))
	}

	series := make([]float64, len(stations))
	for i := range stations {
		v, _ := stations[i].Value(m, d)
		series[i] = v
	}
	return series
}

// ExtractClusterSeries derives the per-cluster average series for a
// metric/direction selection. Once averaged, cluster values feed the scale
// builder like any other series.
func ExtractClusterSeries(clusters []models.ClusterAggregate, m models.Metric, d models.Direction) []float64 {
	if !m.Valid() {
		panic(fmt.Sprintf("viz: unknown metric %q", m))
	}
	if !d.Valid() {
		panic(fmt.Sprintf("viz: unknown direction %q", d))
	}

	key := models.MetricKey{Metric: m, Direction: d}
	series := make([]float64, len(clusters))
	for i := range clusters {
		series[i] = clusters[i].Average(key)
	}
	return series
}
