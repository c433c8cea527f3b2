package stats

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// maxJenksInput caps the series length fed into the Fisher-Jenks
// optimization, which is O(k*n^2). Longer series are reduced to a
// stratified sample of the sorted data first.
const maxJenksInput = 1000

// jenksCacheSize bounds the natural-breaks memoization cache. Interactive
// re-renders with unchanged data hit the cache instead of re-running the
// optimization.
const jenksCacheSize = 128

var jenksCache, _ = lru.New[uint64, []float64](jenksCacheSize)

// ResetJenksCache clears the natural-breaks memoization cache
func ResetJenksCache() {
	jenksCache.Purge()
}

// QuantileBreaks computes n-1 breakpoints so that each of the n bins
// contains approximately equal counts of the input series. Breakpoints
// may repeat when the series has fewer distinct values than bins; callers
// deduplicate before building a step table.
func QuantileBreaks(values []float64, n int) []float64 {
	if len(values) == 0 || n < 2 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	breaks := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		q := float64(i) / float64(n)
		breaks = append(breaks, quantileSorted(sorted, q))
	}

	return breaks
}

// JenksBreaks computes n-1 natural-break boundaries that minimize
// within-class variance (Fisher-Jenks optimization). Results are memoized
// by a fingerprint of (series content, class count); large series are
// stratified-sampled before optimization.
func JenksBreaks(values []float64, n int) []float64 {
	if len(values) == 0 || n < 2 {
		return nil
	}

	key := Fingerprint(values, uint64(n))
	if cached, ok := jenksCache.Get(key); ok {
		return cached
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) > maxJenksInput {
		sorted = stratifiedSample(sorted, maxJenksInput)
	}

	if n > len(sorted) {
		n = len(sorted)
	}

	breaks := fisherJenks(sorted, n)
	jenksCache.Add(key, breaks)
	return breaks
}

// stratifiedSample picks size evenly spaced elements from sorted data,
// always keeping the first and last element so the sample spans the full
// value range.
func stratifiedSample(sorted []float64, size int) []float64 {
	if len(sorted) <= size {
		return sorted
	}

	sample := make([]float64, size)
	step := float64(len(sorted)-1) / float64(size-1)
	for i := 0; i < size; i++ {
		sample[i] = sorted[int(float64(i)*step)]
	}
	sample[size-1] = sorted[len(sorted)-1]

	return sample
}

// fisherJenks runs the standard Jenks dynamic program over sorted data and
// returns the k-1 interior class boundaries.
func fisherJenks(sorted []float64, k int) []float64 {
	n := len(sorted)
	if k < 2 || n < 2 {
		return nil
	}

	// lowerLimits[i][j]: index of the lowest element of class j when the
	// first i elements are split into j classes.
	// varCombinations[i][j]: the corresponding within-class variance sum.
	lowerLimits := make([][]int, n+1)
	varCombinations := make([][]float64, n+1)
	for i := 0; i <= n; i++ {
		lowerLimits[i] = make([]int, k+1)
		varCombinations[i] = make([]float64, k+1)
	}

	const inf = 1e308
	for i := 1; i <= n; i++ {
		for j := 2; j <= k; j++ {
			varCombinations[i][j] = inf
		}
	}
	for j := 1; j <= k; j++ {
		lowerLimits[1][j] = 1
	}

	for l := 2; l <= n; l++ {
		var sum, sumSquares, w float64
		var variance float64

		for m := 1; m <= l; m++ {
			lowerIdx := l - m + 1
			val := sorted[lowerIdx-1]

			w++
			sum += val
			sumSquares += val * val
			variance = sumSquares - (sum*sum)/w

			if lowerIdx == 1 {
				continue
			}
			for j := 2; j <= k; j++ {
				if varCombinations[l][j] >= variance+varCombinations[lowerIdx-1][j-1] {
					lowerLimits[l][j] = lowerIdx
					varCombinations[l][j] = variance + varCombinations[lowerIdx-1][j-1]
				}
			}
		}

		lowerLimits[l][1] = 1
		varCombinations[l][1] = variance
	}

	// Walk the matrix backwards to recover the interior boundaries.
	breaks := make([]float64, k-1)
	idx := n
	for j := k; j >= 2; j-- {
		boundary := lowerLimits[idx][j] - 1
		breaks[j-2] = sorted[boundary-1]
		idx = boundary
	}

	return breaks
}

// DedupSorted removes repeated values from an ascending slice. Collapsed
// breakpoints (fewer distinct values than requested bins) reduce to a
// shorter, strictly increasing sequence.
func DedupSorted(values []float64) []float64 {
	if len(values) < 2 {
		return values
	}

	result := values[:1]
	for _, v := range values[1:] {
		if v != result[len(result)-1] {
			result = append(result, v)
		}
	}
	return result
}
