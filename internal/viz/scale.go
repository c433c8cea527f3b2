package viz

import (
	"fmt"

	"github.com/avainio/bikeviz-backend-go/internal/stats"
)

// ScaleType enumerates the five value-to-color strategies
type ScaleType string

const (
	ScaleLinear        ScaleType = "linear"
	ScaleLog           ScaleType = "log"
	ScaleQuantile      ScaleType = "quantile"
	ScaleDiverging     ScaleType = "diverging"
	ScaleNaturalBreaks ScaleType = "naturalBreaks"
)

// Valid reports whether the scale type is one of the known values
func (t ScaleType) Valid() bool {
	switch t {
	case ScaleLinear, ScaleLog, ScaleQuantile, ScaleDiverging, ScaleNaturalBreaks:
		return true
	}
	return false
}

// DefaultStops is the palette sample count used when the caller does not
// ask for a specific resolution
const DefaultStops = 7

// ScaleOptions configures a scale build
type ScaleOptions struct {
	// Stops is the number of palette samples (bins+1 for step scales)
	Stops int
	// TrimPct is the percentile trim applied to each tail before domain
	// bounds are computed; see Mode.TrimPct
	TrimPct float64
}

func (o ScaleOptions) withDefaults() ScaleOptions {
	if o.Stops < 2 {
		o.Stops = DefaultStops
	}
	return o
}

// Scale builds a color mapping expression from a finite, non-empty series.
// Each strategy owns its domain construction and its zero-width-domain
// handling; the shared empty/non-finite policy lives in BuildScale.
type Scale interface {
	Build(series []float64) Expression
}

// NewScale returns the strategy for a scale type.
// Panics on an unrecognized type (caller contract error).
func NewScale(t ScaleType, opts ScaleOptions) Scale {
	opts = opts.withDefaults()
	switch t {
	case ScaleLinear:
		return linearScale{opts: opts}
	case ScaleLog:
		return logScale{opts: opts}
	case ScaleQuantile:
		return quantileScale{opts: opts}
	case ScaleDiverging:
		return divergingScale{opts: opts}
	case ScaleNaturalBreaks:
		return naturalBreaksScale{opts: opts}
	}
	panic(fmt.Sprintf("viz: unknown scale type %q", t))
}

// BuildScale filters non-finite values out of the series and dispatches to
// the strategy for the scale type. An empty series (before or after
// filtering) yields the static fallback color; no scale algorithm ever
// sees a zero-length series.
func BuildScale(t ScaleType, series []float64, opts ScaleOptions) Expression {
	scale := NewScale(t, opts)

	finite := stats.Finite(series)
	if len(finite) == 0 {
		return StaticColor{Color: FallbackColor}
	}

	return scale.Build(finite)
}

// interpolateOverDomain spreads the sequential palette across [min, max]
// as a piecewise-linear table
func interpolateOverDomain(dom stats.Domain, stops int) Expression {
	colors := Sequential.Sample(stops)
	exprStops := make([]Stop, len(colors))
	for i, c := range colors {
		t := float64(i) / float64(len(colors)-1)
		exprStops[i] = Stop{Value: dom.Min + t*dom.Width(), Color: c}
	}
	return Interpolate{Stops: exprStops}
}

// stepOverBreaks builds a step table from class breakpoints. Collapsed
// (non-increasing) breakpoints are deduplicated first; if nothing remains
// the distribution is effectively constant and the midpoint color wins.
func stepOverBreaks(breaks []float64) Expression {
	breaks = stats.DedupSorted(breaks)
	if len(breaks) == 0 {
		return StaticColor{Color: Sequential.Midpoint()}
	}

	colors := Sequential.Sample(len(breaks) + 1)
	exprStops := make([]Stop, len(breaks))
	for i, b := range breaks {
		exprStops[i] = Stop{Value: b, Color: colors[i+1]}
	}
	return Step{Base: colors[0], Stops: exprStops}
}
