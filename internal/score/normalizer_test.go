package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitMinMax_Transform(t *testing.T) {
	s := FitMinMax([][3]float64{
		{100, 2, 1},
		{300, 10, 12},
		{200, 6, 6},
	})

	lo, hi := s.Bounds()
	assert.Equal(t, [3]float64{100, 2, 1}, lo)
	assert.Equal(t, [3]float64{300, 10, 12}, hi)

	assert.Equal(t, [3]float64{0, 0, 0}, s.Transform([3]float64{100, 2, 1}))
	assert.Equal(t, [3]float64{1, 1, 1}, s.Transform([3]float64{300, 10, 12}))
	assert.InDelta(t, 0.5, s.Transform([3]float64{200, 6, 6})[0], 1e-12)
}

func TestMinMaxScaler_NoClamping(t *testing.T) {
	s := FitMinMax([][3]float64{{100, 1, 1}, {200, 2, 2}})

	out := s.Transform([3]float64{400, 0, 2})
	assert.InDelta(t, 3.0, out[0], 1e-12, "values above max extrapolate linearly")
	assert.InDelta(t, -1.0, out[1], 1e-12, "values below min extrapolate linearly")
}

func TestMinMaxScaler_ZeroVarianceMapsToZero(t *testing.T) {
	s := FitMinMax([][3]float64{{100, 5, 6}, {200, 5, 6}})

	out := s.Transform([3]float64{150, 5, 9})
	assert.InDelta(t, 0.5, out[0], 1e-12)
	assert.Equal(t, 0.0, out[1])
	assert.Equal(t, 0.0, out[2], "degenerate feature maps to 0 even for unseen values")
}

func TestMinMaxScaler_Empty(t *testing.T) {
	s := FitMinMax(nil)
	assert.Equal(t, [3]float64{}, s.Transform([3]float64{1, 2, 3}))
}

func TestMinMaxScaler_TransformAll(t *testing.T) {
	rows := [][3]float64{{0, 0, 1}, {10, 4, 3}}
	s := FitMinMax(rows)

	assert.Equal(t, [][3]float64{{0, 0, 0}, {1, 1, 1}}, s.TransformAll(rows))
}
