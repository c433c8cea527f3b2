package viz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpressionJSONCarriesTypeTag(t *testing.T) {
	tests := []struct {
		expr Expression
		want string
	}{
		{StaticColor{Color: "#bdbdbd"}, `{"type":"static","color":"#bdbdbd"}`},
		{Interpolate{Stops: []Stop{{Value: 0, Color: "#440154"}, {Value: 10, Color: "#fde725"}}},
			`{"type":"interpolate","stops":[{"value":0,"color":"#440154"},{"value":10,"color":"#fde725"}]}`},
		{Step{Base: "#440154", Stops: []Stop{{Value: 5, Color: "#fde725"}}},
			`{"type":"step","base":"#440154","stops":[{"value":5,"color":"#fde725"}]}`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.expr)
		require.NoError(t, err)
		assert.JSONEq(t, tt.want, string(data))
	}
}

func TestEvaluateStatic(t *testing.T) {
	expr := StaticColor{Color: "#123456"}
	assert.Equal(t, "#123456", Evaluate(expr, -1e9))
	assert.Equal(t, "#123456", Evaluate(expr, 42))
}

func TestEvaluateStep(t *testing.T) {
	expr := Step{
		Base: "#000000",
		Stops: []Stop{
			{Value: 10, Color: "#111111"},
			{Value: 20, Color: "#222222"},
		},
	}

	assert.Equal(t, "#000000", Evaluate(expr, 5))
	assert.Equal(t, "#111111", Evaluate(expr, 10))
	assert.Equal(t, "#111111", Evaluate(expr, 19.9))
	assert.Equal(t, "#222222", Evaluate(expr, 20))
	assert.Equal(t, "#222222", Evaluate(expr, 1e9))
}

func TestEvaluateInterpolateClampsOutsideDomain(t *testing.T) {
	expr := Interpolate{Stops: []Stop{
		{Value: 0, Color: "#000000"},
		{Value: 100, Color: "#ffffff"},
	}}

	assert.Equal(t, "#000000", Evaluate(expr, -50))
	assert.Equal(t, "#ffffff", Evaluate(expr, 250))
}

func TestEvaluateInterpolateAtStops(t *testing.T) {
	expr := Interpolate{Stops: []Stop{
		{Value: 0, Color: "#ff0000"},
		{Value: 10, Color: "#00ff00"},
		{Value: 20, Color: "#0000ff"},
	}}

	assert.Equal(t, "#ff0000", Evaluate(expr, 0))
	assert.Equal(t, "#00ff00", Evaluate(expr, 10))
	assert.Equal(t, "#0000ff", Evaluate(expr, 20))
}

func TestSequentialRamp(t *testing.T) {
	assert.Equal(t, "#440154", Sequential.At(0).Hex())
	assert.Equal(t, "#fde725", Sequential.At(1).Hex())

	colors := Sequential.Sample(5)
	require.Len(t, colors, 5)
	assert.Equal(t, "#440154", colors[0])
	assert.Equal(t, "#fde725", colors[4])
}

func TestDivergingRampMidpointIsBalanced(t *testing.T) {
	assert.Equal(t, BalancedColor, Diverging.At(0.5).Hex())
}
