package viz

import (
	"encoding/json"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Expression is a declarative, renderer-evaluated color mapping rule.
// The engine never colors a pixel itself; the map renderer evaluates the
// expression against each feature's metric value at paint time.
type Expression interface {
	Kind() string
}

// Stop pairs a value (or threshold) with a color
type Stop struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// StaticColor maps every value to one color
type StaticColor struct {
	Color string `json:"color"`
}

// Kind implements Expression
func (StaticColor) Kind() string { return "static" }

// MarshalJSON tags the expression with its type for the renderer
func (e StaticColor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Color string `json:"color"`
	}{e.Kind(), e.Color})
}

// Interpolate is a piecewise-linear interpolation table. Stops are in
// strictly ascending value order; values outside the table clamp to the
// first/last color.
type Interpolate struct {
	Stops []Stop `json:"stops"`
}

// Kind implements Expression
func (Interpolate) Kind() string { return "interpolate" }

// MarshalJSON tags the expression with its type for the renderer
func (e Interpolate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Stops []Stop `json:"stops"`
	}{e.Kind(), e.Stops})
}

// Step is a step table: Base colors values below the first threshold,
// each threshold switches to the paired color.
type Step struct {
	Base  string `json:"base"`
	Stops []Stop `json:"stops"`
}

// Kind implements Expression
func (Step) Kind() string { return "step" }

// MarshalJSON tags the expression with its type for the renderer
func (e Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Base  string `json:"base"`
		Stops []Stop `json:"stops"`
	}{e.Kind(), e.Base, e.Stops})
}

// Evaluate resolves an expression for a single value, mirroring what the
// map renderer does per feature. Used for legend swatches, server-side
// region coloring, and tests.
func Evaluate(expr Expression, v float64) string {
	switch e := expr.(type) {
	case StaticColor:
		return e.Color

	case Step:
		color := e.Base
		for _, s := range e.Stops {
			if v >= s.Value {
				color = s.Color
			} else {
				break
			}
		}
		return color

	case Interpolate:
		if len(e.Stops) == 0 {
			return FallbackColor
		}
		if v <= e.Stops[0].Value {
			return e.Stops[0].Color
		}
		last := e.Stops[len(e.Stops)-1]
		if v >= last.Value {
			return last.Color
		}
		for i := 1; i < len(e.Stops); i++ {
			lo, hi := e.Stops[i-1], e.Stops[i]
			if v > hi.Value {
				continue
			}
			t := 0.0
			if hi.Value > lo.Value {
				t = (v - lo.Value) / (hi.Value - lo.Value)
			}
			c1, err1 := colorful.Hex(lo.Color)
			c2, err2 := colorful.Hex(hi.Color)
			if err1 != nil || err2 != nil {
				return lo.Color
			}
			return c1.BlendLab(c2, t).Clamped().Hex()
		}
		return last.Color
	}

	return FallbackColor
}
