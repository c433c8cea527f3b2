package viz

import "github.com/avainio/bikeviz-backend-go/internal/stats"

// linearScale maps values proportionally across a percentile-trimmed
// min/max domain. Values beyond the trimmed extremes clamp to the end
// colors instead of extrapolating.
type linearScale struct {
	opts ScaleOptions
}

func (s linearScale) Build(series []float64) Expression {
	dom := stats.TrimmedRange(series, s.opts.TrimPct)
	if !dom.OK {
		return StaticColor{Color: FallbackColor}
	}
	if dom.Width() == 0 {
		return StaticColor{Color: Sequential.Midpoint()}
	}

	return interpolateOverDomain(dom, s.opts.Stops)
}
