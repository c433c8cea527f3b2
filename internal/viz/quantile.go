package viz

import "github.com/avainio/bikeviz-backend-go/internal/stats"

// quantileScale assigns one discrete palette color per equal-count bin of
// the trimmed series. No interpolation between bins.
type quantileScale struct {
	opts ScaleOptions
}

func (s quantileScale) Build(series []float64) Expression {
	if stats.Min(series) == stats.Max(series) {
		return StaticColor{Color: Sequential.Midpoint()}
	}

	trimmed := stats.TrimTails(series, s.opts.TrimPct)
	if len(trimmed) == 0 {
		trimmed = series
	}

	breaks := stats.QuantileBreaks(trimmed, s.opts.Stops)
	return stepOverBreaks(breaks)
}
