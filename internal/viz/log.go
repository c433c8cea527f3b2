package viz

import (
	"math"

	"github.com/avainio/bikeviz-backend-go/internal/stats"
)

// logScale maps ln(value) proportionally across a trimmed domain whose
// minimum is floored to 1, for count-like metrics with long right tails.
type logScale struct {
	opts ScaleOptions
}

func (s logScale) Build(series []float64) Expression {
	dom := stats.TrimmedRange(series, s.opts.TrimPct)
	if !dom.OK {
		return StaticColor{Color: FallbackColor}
	}

	if dom.Min < 1 {
		dom.Min = 1
	}
	if dom.Max <= dom.Min {
		return StaticColor{Color: Sequential.Midpoint()}
	}

	// Evenly spaced stops in ln space: the renderer interpolates linearly
	// between table rows, so dense rows near the minimum approximate the
	// logarithmic law.
	logMin := math.Log(dom.Min)
	logMax := math.Log(dom.Max)

	colors := Sequential.Sample(s.opts.Stops)
	exprStops := make([]Stop, len(colors))
	for i, c := range colors {
		t := float64(i) / float64(len(colors)-1)
		exprStops[i] = Stop{Value: math.Exp(logMin + t*(logMax-logMin)), Color: c}
	}

	// Guard against rounding producing a non-increasing final stop
	exprStops[len(exprStops)-1].Value = dom.Max

	return Interpolate{Stops: exprStops}
}
