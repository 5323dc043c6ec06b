package linsys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matflow/linsys"
)

func TestOrderRanges(t *testing.T) {
	a, err := linsys.FromRows([][]float64{
		{1, 100},     // 2 decades in the coefficients
		{1, 10},      // RHS stretches this row to 7 decades
		{0, 0},       // all-zero row
		{-0.01, 100}, // sign is ignored, 4 decades
	}, 2)
	require.NoError(t, err)

	ranges := linsys.OrderRanges(a, []float64{0, 1e7, 0, 0})
	require.Len(t, ranges, 4)
	assert.InDelta(t, 2, ranges[0], 1e-12)
	assert.InDelta(t, 7, ranges[1], 1e-12)
	assert.Zero(t, ranges[2])
	assert.InDelta(t, 4, ranges[3], 1e-12)

	assert.InDelta(t, 3, linsys.VectorOrderRange([]float64{2, 2000}), 1e-12)
	assert.Zero(t, linsys.VectorOrderRange(nil))
}

func TestRowScales(t *testing.T) {
	a, err := linsys.FromRows([][]float64{
		{200, 30},
		{0.04, 0.001},
		{0, 0},
	}, 2)
	require.NoError(t, err)

	scales := linsys.RowScales(a, []float64{0, 0, 0})
	require.Len(t, scales, 3)
	assert.InDelta(t, 0.01, scales[0], 1e-15)
	assert.InDelta(t, 100, scales[1], 1e-12)
	assert.Zero(t, scales[2])

	// RHS participates in the row maximum.
	scales = linsys.RowScales(a, []float64{5000, 0, 0})
	assert.InDelta(t, 0.001, scales[0], 1e-15)

	assert.InDelta(t, 0.01, linsys.VectorScale([]float64{200, 30}), 1e-15)
	assert.Zero(t, linsys.VectorScale([]float64{0, 0}))
}

func TestScaleRows(t *testing.T) {
	a, err := linsys.FromRows([][]float64{{200, 30}}, 2)
	require.NoError(t, err)
	b := []float64{400}

	sa, sb := linsys.ScaleRows(a, b, []float64{0.01})
	assert.InDelta(t, 2, sa.Row(0)[0], 1e-12)
	assert.InDelta(t, 0.3, sa.Row(0)[1], 1e-12)
	assert.InDelta(t, 4, sb[0], 1e-12)

	// Originals stay untouched.
	assert.Equal(t, []float64{200, 30}, a.Row(0))
	assert.Equal(t, []float64{400}, b)
}

func TestScaleVectorAndUnscale(t *testing.T) {
	scaled := linsys.ScaleVector([]float64{200, 30}, 0.01)
	assert.InDelta(t, 2, scaled[0], 1e-12)
	assert.InDelta(t, 0.3, scaled[1], 1e-12)

	// Unscale maps zero-scale entries to zero instead of dividing.
	out := linsys.Unscale([]float64{4, 7, 9}, []float64{0.01, 0, 100})
	assert.InDelta(t, 400, out[0], 1e-9)
	assert.Zero(t, out[1])
	assert.InDelta(t, 0.09, out[2], 1e-12)
}
