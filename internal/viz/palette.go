package viz

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// FallbackColor is the neutral gray returned for empty input; the map
// renders muted markers instead of crashing or going blank.
const FallbackColor = "#bdbdbd"

// BalancedColor is the neutral returned by the diverging scale when its
// domain collapses. Zero-centered balance is a meaningful state, so it is
// visually distinct from the interpolated sequential midpoint.
const BalancedColor = "#f7f7f7"

// Ramp is a perceptually-uniform color ramp defined by anchor colors and
// interpolated in Lab space.
type Ramp struct {
	anchors []colorful.Color
}

// NewRamp builds a ramp from hex anchor colors.
// Panics on malformed hex; ramps are compile-time constants.
func NewRamp(hexes ...string) Ramp {
	if len(hexes) < 2 {
		panic("viz: ramp needs at least two anchor colors")
	}

	anchors := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(fmt.Sprintf("viz: invalid ramp anchor %q: %v", h, err))
		}
		anchors[i] = c
	}

	return Ramp{anchors: anchors}
}

// Sequential is the ramp used by linear, log, quantile and natural-breaks
// scales (viridis anchors).
var Sequential = NewRamp(
	"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
)

// Diverging is the zero-centered ramp (blue-white-red) used for
// departure/arrival balance.
var Diverging = NewRamp("#2166ac", "#f7f7f7", "#b2182b")

// At samples the ramp at position t in [0,1] using piecewise Lab blending
func (r Ramp) At(t float64) colorful.Color {
	if t <= 0 {
		return r.anchors[0]
	}
	if t >= 1 {
		return r.anchors[len(r.anchors)-1]
	}

	scaled := t * float64(len(r.anchors)-1)
	idx := int(scaled)
	frac := scaled - float64(idx)

	return r.anchors[idx].BlendLab(r.anchors[idx+1], frac).Clamped()
}

// Sample returns n evenly spaced colors along the ramp as hex strings
func (r Ramp) Sample(n int) []string {
	if n < 2 {
		return []string{r.Midpoint()}
	}

	colors := make([]string, n)
	for i := 0; i < n; i++ {
		colors[i] = r.At(float64(i) / float64(n-1)).Hex()
	}
	return colors
}

// Midpoint returns the ramp color at position 0.5, used whenever a value
// domain has zero width.
func (r Ramp) Midpoint() string {
	return r.At(0.5).Hex()
}
