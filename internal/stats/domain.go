package stats

import (
	"math"
	"sort"
)

// Domain is a min/max value range for a scale. OK is false when the series
// was empty and no domain exists; callers must branch on it before doing
// any scale math ("no domain" is data, not an error).
type Domain struct {
	Min float64
	Max float64
	OK  bool
}

// Width returns Max-Min, 0 for a missing domain
func (d Domain) Width() float64 {
	if !d.OK {
		return 0
	}
	return d.Max - d.Min
}

// TrimmedRange computes the min/max of values after discarding trimPct
// percent from each tail. An empty input yields a Domain with OK=false.
func TrimmedRange(values []float64, trimPct float64) Domain {
	if len(values) == 0 {
		return Domain{}
	}

	trimmed := TrimTails(values, trimPct)
	if len(trimmed) == 0 {
		// Trimming a tiny series can discard everything; fall back to the
		// untrimmed extremes rather than reporting no domain.
		return Domain{Min: Min(values), Max: Max(values), OK: true}
	}

	// Trim returns a sorted slice
	return Domain{Min: trimmed[0], Max: trimmed[len(trimmed)-1], OK: true}
}

// SymmetricDomain computes the zero-centered domain [-M, M] for diverging
// scales, where M = max(|p_lower|, |p_upper|) over the signed series.
// Nearest-rank percentiles, so the extremes of a short series survive.
func SymmetricDomain(values []float64, lowerPct, upperPct float64) Domain {
	if len(values) == 0 {
		return Domain{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	ps := []float64{
		nearestRank(sorted, clampPct(lowerPct)),
		nearestRank(sorted, clampPct(upperPct)),
	}
	m := ps[0]
	if m < 0 {
		m = -m
	}
	hi := ps[1]
	if hi < 0 {
		hi = -hi
	}
	if hi > m {
		m = hi
	}

	return Domain{Min: -m, Max: m, OK: true}
}

// nearestRank returns the p-th percentile (0-100) by the nearest-rank
// method over sorted input
func nearestRank(sorted []float64, p float64) float64 {
	if p == 0 {
		return sorted[0]
	}
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
