package viz

import "github.com/avainio/bikeviz-backend-go/internal/stats"

// Percentiles bounding the symmetric diverging domain
const (
	divergingLowerPct = 5.0
	divergingUpperPct = 95.0
)

// divergingScale maps a signed series across the symmetric domain [-M, M]
// where M = max(|p5|, |p95|). Value 0 always lands on the neutral midpoint
// color regardless of how asymmetric the data is.
type divergingScale struct {
	opts ScaleOptions
}

func (s divergingScale) Build(series []float64) Expression {
	// Constant series collapse to the neutral color, not a ramp.
	if stats.Min(series) == stats.Max(series) {
		return StaticColor{Color: BalancedColor}
	}

	dom := stats.SymmetricDomain(series, divergingLowerPct, divergingUpperPct)
	if !dom.OK {
		return StaticColor{Color: FallbackColor}
	}
	if dom.Max == 0 {
		// Every station is balanced; that is a meaningful state, shown
		// with a neutral distinct from the sequential midpoint.
		return StaticColor{Color: BalancedColor}
	}

	// An odd stop count puts one stop at exactly 0, pinning the neutral
	// midpoint of the ramp to the balanced value.
	stops := s.opts.Stops
	if stops%2 == 0 {
		stops++
	}

	colors := Diverging.Sample(stops)
	exprStops := make([]Stop, len(colors))
	for i, c := range colors {
		t := float64(i) / float64(len(colors)-1)
		exprStops[i] = Stop{Value: dom.Min + t*dom.Width(), Color: c}
	}
	exprStops[len(exprStops)/2].Value = 0

	return Interpolate{Stops: exprStops}
}
