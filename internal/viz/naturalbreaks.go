package viz

import "github.com/avainio/bikeviz-backend-go/internal/stats"

// naturalBreaksScale assigns one discrete palette color per Jenks class.
// Breakpoints come from within-class variance minimization over the full
// (untrimmed) series; the step table has the same shape as the quantile
// scale's.
type naturalBreaksScale struct {
	opts ScaleOptions
}

func (s naturalBreaksScale) Build(series []float64) Expression {
	if stats.Min(series) == stats.Max(series) {
		return StaticColor{Color: Sequential.Midpoint()}
	}

	breaks := stats.JenksBreaks(series, s.opts.Stops)
	return stepOverBreaks(breaks)
}
