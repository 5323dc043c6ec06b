package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matflow/model"
)

func TestResources_CreateAndLookup(t *testing.T) {
	rs := model.NewResources()
	hay := rs.Create("hay", "bales")
	cow := rs.Create("cow", "")

	require.Equal(t, 2, rs.Len())
	assert.Equal(t, "hay", hay.Name())
	assert.Equal(t, "bales", hay.Unit())
	assert.Equal(t, 0, hay.Index())

	// Empty unit falls back to the default.
	assert.Equal(t, model.DefaultUnit, cow.Unit())

	got, err := rs.ByName("cow")
	require.NoError(t, err)
	assert.Equal(t, cow.Index(), got.Index())

	byIdx, err := rs.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "cow", byIdx.Name())
}

func TestResources_LookupErrors(t *testing.T) {
	rs := model.NewResources()
	rs.Create("hay", "")
	rs.Create("hay", "")

	_, err := rs.ByName("straw")
	require.ErrorIs(t, err, model.ErrUnknownName)

	_, err = rs.ByName("hay")
	require.ErrorIs(t, err, model.ErrAmbiguousName)

	_, err = rs.Get(2)
	require.ErrorIs(t, err, model.ErrIndexRange)

	_, err = rs.Get(-1)
	require.ErrorIs(t, err, model.ErrIndexRange)
}

// Two registries must never share storage: entries created in one are
// invisible to the other.
func TestResources_IndependentRegistries(t *testing.T) {
	a := model.NewResources()
	b := model.NewResources()

	a.Create("hay", "")
	require.Equal(t, 1, a.Len())
	require.Equal(t, 0, b.Len())

	b.Create("cow", "")
	b.Create("milk", "")
	require.Equal(t, 1, a.Len())
	require.Equal(t, 2, b.Len())

	_, err := b.ByName("hay")
	require.ErrorIs(t, err, model.ErrUnknownName)
}

func TestResources_All(t *testing.T) {
	rs := model.NewResources()
	rs.Create("hay", "")
	rs.Create("cow", "")

	all := rs.All()
	require.Len(t, all, 2)
	assert.Equal(t, "hay", all[0].Name())
	assert.Equal(t, "cow", all[1].Name())
}
