package models

// ClusterAggregate represents a group of nearby stations collapsed into a
// single marker at low zoom. It carries metric sums and a point count;
// averages are derived before the values ever reach the scale builder.
type ClusterAggregate struct {
	Sums       map[MetricKey]float64 `json:"sums"`
	PointCount int                   `json:"pointCount"`
}

// Average returns the per-station average for a metric key.
// A cluster with no points yields 0.
func (c *ClusterAggregate) Average(k MetricKey) float64 {
	if c.PointCount == 0 {
		return 0
	}
	return c.Sums[k] / float64(c.PointCount)
}

// Averages derives the full average map for the cluster
func (c *ClusterAggregate) Averages() map[MetricKey]float64 {
	avgs := make(map[MetricKey]float64, len(c.Sums))
	for k := range c.Sums {
		avgs[k] = c.Average(k)
	}
	return avgs
}
