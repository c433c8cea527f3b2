package stats

import "sort"

// Percentile calculates the p-th percentile (0-100)
// Uses linear interpolation between closest ranks
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	return Quantile(values, p/100.0)
}

// Percentiles calculates multiple percentiles at once, sorting only once
func Percentiles(values []float64, ps []float64) []float64 {
	results := make([]float64, len(ps))
	if len(values) == 0 {
		return results
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	for i, p := range ps {
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		results[i] = quantileSorted(sorted, p/100.0)
	}

	return results
}

// Trim removes values outside the [lower, upper] percentile range from
// both tails. The result is sorted. Used to keep extreme outliers from
// dominating color contrast.
func Trim(values []float64, lower, upper float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	lowerVal := quantileSorted(sorted, clampPct(lower)/100.0)
	upperVal := quantileSorted(sorted, clampPct(upper)/100.0)

	result := make([]float64, 0, len(sorted))
	for _, v := range sorted {
		if v >= lowerVal && v <= upperVal {
			result = append(result, v)
		}
	}

	return result
}

// TrimTails trims pct percent off each tail
func TrimTails(values []float64, pct float64) []float64 {
	return Trim(values, pct, 100-pct)
}

func clampPct(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
