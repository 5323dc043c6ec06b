package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matflow/model"
)

func TestConstraint_Forms(t *testing.T) {
	ps, a, b, _ := threeProcesses(t)

	eq := model.NewEq("exact", a, 10)
	assert.Equal(t, model.Eq, eq.Kind())
	assert.Equal(t, 10.0, eq.Bound())
	assert.Equal(t, "a == 10", eq.String())

	le := model.NewLe("cap", b, 5)
	assert.Equal(t, model.Le, le.Kind())
	assert.Equal(t, "b <= 5", le.String())

	// Ge is stored as Le over the negated expression and bound.
	ge := model.NewGe("floor", a, 3)
	assert.Equal(t, model.Le, ge.Kind())
	assert.Equal(t, -3.0, ge.Bound())
	assert.Equal(t, []float64{-1, 0, 0}, ge.Expr().Coefficients(ps.Len()))
}

func TestFixedRuns(t *testing.T) {
	ps, a, _, _ := threeProcesses(t)

	c := model.FixedRuns(a, 7)
	assert.Equal(t, model.Eq, c.Kind())
	assert.Equal(t, 7.0, c.Bound())
	assert.Equal(t, []float64{1, 0, 0}, c.Expr().Coefficients(ps.Len()))
}

func TestRunRatio(t *testing.T) {
	ps, a, b, _ := threeProcesses(t)

	c, err := model.RunRatio(a, b, 2)
	require.NoError(t, err)
	assert.Equal(t, model.Eq, c.Kind())
	assert.Equal(t, 0.0, c.Bound())
	assert.Equal(t, []float64{1, -2, 0}, c.Expr().Coefficients(ps.Len()))

	_, x, _, _ := threeProcesses(t)
	_, err = model.RunRatio(a, x, 2)
	require.ErrorIs(t, err, model.ErrRegistryMismatch)
}

func TestFixedResource(t *testing.T) {
	rs := model.NewResources()
	hay := rs.Create("hay", "bales")
	cow := rs.Create("cow", "")

	ps := model.NewProcesses()
	dairy, err := ps.Create("dairy_farm", model.Fixed(cow, 1), model.Fixed(hay, -2))
	require.NoError(t, err)

	// Consuming 2 hay per run, 10 hay pins the process at 5 runs.
	c, err := model.FixedResource(hay, dairy, 10)
	require.NoError(t, err)
	assert.Equal(t, model.Eq, c.Kind())
	assert.Equal(t, 5.0, c.Bound())

	_, err = model.FixedResource(cow, dairy, 3)
	require.NoError(t, err)

	milk := rs.Create("milk", "")
	_, err = model.FixedResource(milk, dairy, 1)
	require.ErrorIs(t, err, model.ErrResourceNotUsed)
}
