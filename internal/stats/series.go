package stats

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Finite returns a copy of values with NaN and ±Inf removed.
// Every series must pass through here before any domain or breakpoint
// calculation; scale algorithms assume finite input.
func Finite(values []float64) []float64 {
	result := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		result = append(result, v)
	}
	return result
}

// Fingerprint hashes the content of a series together with an extra
// discriminator (class count, stop count). Equal series content yields an
// equal fingerprint, so it can serve as a memoization key across renders
// of unchanged data.
func Fingerprint(values []float64, extra uint64) uint64 {
	h := xxhash.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], extra)
	_, _ = h.Write(buf[:])

	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}
