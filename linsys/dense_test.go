package linsys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matflow/linsys"
)

func TestDense_NewAndIndex(t *testing.T) {
	m, err := linsys.NewDense(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())

	require.NoError(t, m.Set(1, 2, 5))
	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = m.At(2, 0)
	require.ErrorIs(t, err, linsys.ErrOutOfRange)
	err = m.Set(0, 3, 1)
	require.ErrorIs(t, err, linsys.ErrOutOfRange)

	_, err = linsys.NewDense(-1, 2)
	require.ErrorIs(t, err, linsys.ErrBadShape)
}

func TestDense_ZeroDimensions(t *testing.T) {
	// Empty constraint blocks are legal matrices.
	m, err := linsys.NewDense(0, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Rows())

	out, err := m.MulVec([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDense_FromRows(t *testing.T) {
	m, err := linsys.FromRows([][]float64{{1, 2}, {3, 4}}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, m.Row(1))

	_, err = linsys.FromRows([][]float64{{1, 2}, {3}}, 2)
	require.ErrorIs(t, err, linsys.ErrDimensionMismatch)
}

func TestDense_Clone(t *testing.T) {
	m, err := linsys.FromRows([][]float64{{1, 2}}, 2)
	require.NoError(t, err)

	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 9))

	orig, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, orig)
}

func TestDense_MulVec(t *testing.T) {
	m, err := linsys.FromRows([][]float64{{1, 2}, {3, 4}}, 2)
	require.NoError(t, err)

	out, err := m.MulVec([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 7}, out)

	_, err = m.MulVec([]float64{1})
	require.ErrorIs(t, err, linsys.ErrDimensionMismatch)
}

func TestDense_RowView(t *testing.T) {
	m, err := linsys.FromRows([][]float64{{1, 2}}, 2)
	require.NoError(t, err)

	assert.Nil(t, m.Row(1))
	assert.Nil(t, m.Row(-1))
	assert.Equal(t, []float64{1, 2}, m.Row(0))
}
