package measure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matflow/measure"
	"github.com/katalvlaran/matflow/model"
	"github.com/katalvlaran/matflow/solve"
)

// farmingMeasure solves the canonical hay/cow chain with mcdonalds pinned
// at 10 runs.
func farmingMeasure(t *testing.T) (*model.Resources, *model.Processes, []model.Process, *measure.Measure) {
	t.Helper()
	rs := model.NewResources()
	hay := rs.Create("hay", "bales")
	cow := rs.Create("cow", "")

	ps := model.NewProcesses()
	arable, err := ps.Create("arable_farm", model.Fixed(hay, 1))
	require.NoError(t, err)
	dairy, err := ps.Create("dairy_farm", model.Fixed(cow, 1), model.Fixed(hay, -2))
	require.NoError(t, err)
	mcd, err := ps.Create("mcdonalds", model.Fixed(cow, -1))
	require.NoError(t, err)

	m, err := measure.New(rs, ps, []model.Constraint{
		model.NewEq("burger_consumption", mcd, 10),
	}, solve.DefaultOptions())
	require.NoError(t, err)

	return rs, ps, []model.Process{arable, dairy, mcd}, m
}

func TestMeasure_FarmingRuns(t *testing.T) {
	_, _, _, m := farmingMeasure(t)

	runs := m.Runs()
	require.Len(t, runs, 3)
	assert.InDelta(t, 20, runs[0], 1e-6)
	assert.InDelta(t, 10, runs[1], 1e-6)
	assert.InDelta(t, 10, runs[2], 1e-6)

	// No Ranged quantities: the bounds collapse onto the exact solve.
	assert.Equal(t, runs, m.RunsLower())
	assert.Equal(t, runs, m.RunsUpper())
}

func TestMeasure_FarmingResourceMatrix(t *testing.T) {
	rs, _, _, m := farmingMeasure(t)

	res := m.ResourceMatrix()
	require.Equal(t, rs.Len(), res.Rows())
	want := [][]float64{
		{20, -20, 0},
		{0, 10, -10},
	}
	for r := range want {
		for p, exp := range want[r] {
			got, err := res.At(r, p)
			require.NoError(t, err)
			assert.InDelta(t, exp, got, 1e-6, "entry (%d,%d)", r, p)
		}
	}

	// Exact mass balance: every resource row sums to zero.
	for r := 0; r < res.Rows(); r++ {
		sum := 0.0
		for _, v := range res.Row(r) {
			sum += v
		}
		assert.InDelta(t, 0, sum, 1e-6)
	}
}

func TestMeasure_FarmingFlow(t *testing.T) {
	_, _, procs, m := farmingMeasure(t)
	arable, dairy, mcd := procs[0], procs[1], procs[2]

	flow := m.FlowMatrix()
	v, err := flow.At(0, arable.Index(), dairy.Index())
	require.NoError(t, err)
	assert.InDelta(t, 20, v, 1e-6)

	v, err = flow.At(1, dairy.Index(), mcd.Index())
	require.NoError(t, err)
	assert.InDelta(t, 10, v, 1e-6)

	// Antisymmetry across both process axes of every resource slice.
	for r := 0; r < flow.Resources(); r++ {
		for i := 0; i < flow.Processes(); i++ {
			for j := 0; j < flow.Processes(); j++ {
				fwd, err := flow.At(r, i, j)
				require.NoError(t, err)
				rev, err := flow.At(r, j, i)
				require.NoError(t, err)
				assert.InDelta(t, -rev, fwd, 1e-9)
			}
		}
	}
}

func TestMeasure_IncidentFlow(t *testing.T) {
	rs, _, procs, m := farmingMeasure(t)
	arable, dairy, mcd := procs[0], procs[1], procs[2]
	hay, err := rs.Get(0)
	require.NoError(t, err)
	cow, err := rs.Get(1)
	require.NoError(t, err)

	from, err := m.FlowFrom(hay, arable)
	require.NoError(t, err)
	assert.InDelta(t, 20, from, 1e-6)

	to, err := m.FlowTo(cow, mcd)
	require.NoError(t, err)
	assert.InDelta(t, 10, to, 1e-6)

	// dairy receives hay and emits cows, nothing else.
	to, err = m.FlowTo(hay, dairy)
	require.NoError(t, err)
	assert.InDelta(t, 20, to, 1e-6)
	from, err = m.FlowFrom(cow, dairy)
	require.NoError(t, err)
	assert.InDelta(t, 10, from, 1e-6)
}

func TestMeasure_Idempotence(t *testing.T) {
	_, _, _, m := farmingMeasure(t)

	assert.Equal(t, m.Runs(), m.Runs())
	assert.Equal(t, m.ResourceMatrix(), m.ResourceMatrix())

	// The flow cube is memoized: repeated calls return the same instance.
	assert.Same(t, m.FlowMatrix(), m.FlowMatrix())

	first, err := m.CumulativeResourceMatrix()
	require.NoError(t, err)
	second, err := m.CumulativeResourceMatrix()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMeasure_FarmingCumulative(t *testing.T) {
	_, _, _, m := farmingMeasure(t)

	cum, err := m.CumulativeResourceMatrix()
	require.NoError(t, err)

	// Sustaining any link of the chain requires the whole upstream chain:
	// 20 hay and 10 cows behind every process.
	want := [][]float64{
		{20, 20, 20},
		{10, 10, 10},
	}
	for r := range want {
		for p, exp := range want[r] {
			got, err := cum.At(r, p)
			require.NoError(t, err)
			assert.InDelta(t, exp, got, 1e-6, "entry (%d,%d)", r, p)
		}
	}
}

// pizzaMeasure builds the six-process packaging chain: two cardboard
// producers feed two pizza-box makers, boxes are burned for energy, the
// grid consumes it. Normal and recycled box production are tied 1:1 and
// the grid is pinned at 8 runs.
func pizzaMeasure(t *testing.T) *measure.Measure {
	t.Helper()
	rs := model.NewResources()
	cardboard := rs.Create("cardboard", "m2")
	recycled := rs.Create("recycled_cardboard", "m2")
	pizzaBox := rs.Create("pizza_box", "")
	energy := rs.Create("energy", "kWh")

	ps := model.NewProcesses()
	_, err := ps.Create("cardboard_producer", model.Fixed(cardboard, 1))
	require.NoError(t, err)
	_, err = ps.Create("recycled_cardboard_producer", model.Fixed(recycled, 1))
	require.NoError(t, err)
	normal, err := ps.Create("pizza_box_producer",
		model.Fixed(cardboard, -2), model.Fixed(recycled, -0.5), model.Fixed(pizzaBox, 1))
	require.NoError(t, err)
	recycledBox, err := ps.Create("recycled_pizza_box_producer",
		model.Fixed(cardboard, -1), model.Fixed(recycled, -3), model.Fixed(pizzaBox, 1))
	require.NoError(t, err)
	_, err = ps.Create("power_plant", model.Fixed(pizzaBox, -1), model.Fixed(energy, 4))
	require.NoError(t, err)
	grid, err := ps.Create("energy_grid", model.Fixed(energy, -2))
	require.NoError(t, err)

	ratio, err := model.Sub(normal, recycledBox)
	require.NoError(t, err)
	m, err := measure.New(rs, ps, []model.Constraint{
		model.NewEq("recycled_pizza_box_ratio", ratio, 0),
		model.NewEq("energy_grid_usage", grid, 8),
	}, solve.DefaultOptions())
	require.NoError(t, err)

	return m
}

func TestMeasure_PizzaRuns(t *testing.T) {
	m := pizzaMeasure(t)

	want := []float64{6, 7, 2, 2, 4, 8}
	runs := m.Runs()
	require.Len(t, runs, len(want))
	for i, exp := range want {
		assert.InDelta(t, exp, runs[i], 1e-6, "process %d", i)
	}
}

func TestMeasure_PizzaFlowConservation(t *testing.T) {
	m := pizzaMeasure(t)
	flow := m.FlowMatrix()
	res := m.ResourceMatrix()

	// Per resource, total positive flow equals total production.
	for r := 0; r < flow.Resources(); r++ {
		produced := 0.0
		for _, v := range res.Row(r) {
			if v > 0 {
				produced += v
			}
		}
		moved := 0.0
		for i := 0; i < flow.Processes(); i++ {
			for j := 0; j < flow.Processes(); j++ {
				v, err := flow.At(r, i, j)
				require.NoError(t, err)
				if v > 0 {
					moved += v
				}
			}
		}
		assert.InDelta(t, produced, moved, 1e-6, "resource %d", r)
	}
}

func TestMeasure_BoundedFarming(t *testing.T) {
	rs := model.NewResources()
	hay := rs.Create("hay", "bales")
	cow := rs.Create("cow", "")

	ps := model.NewProcesses()
	_, err := ps.Create("arable_farm", model.Ranged(hay, 1, 0.4, 2))
	require.NoError(t, err)
	_, err = ps.Create("dairy_farm", model.Fixed(cow, 1), model.Fixed(hay, -2))
	require.NoError(t, err)
	mcd, err := ps.Create("mcdonalds", model.Fixed(cow, -1))
	require.NoError(t, err)

	m, err := measure.New(rs, ps, []model.Constraint{
		model.NewEq("burger_consumption", mcd, 10),
	}, solve.DefaultOptions())
	require.NoError(t, err)

	runs, lower, upper := m.Runs(), m.RunsLower(), m.RunsUpper()
	assert.InDelta(t, 20, runs[0], 1e-6)

	// At 2 hay per run arable covers demand in 10 runs, at 0.4 it needs 50.
	assert.InDelta(t, 10, lower[0], 1e-6)
	assert.InDelta(t, 50, upper[0], 1e-6)

	// The rest of the chain is pinned regardless of the envelope.
	for _, i := range []int{1, 2} {
		assert.InDelta(t, 10, lower[i], 1e-6)
		assert.InDelta(t, 10, upper[i], 1e-6)
	}

	// Sandwich: lower ≤ exact ≤ upper elementwise.
	for i := range runs {
		assert.LessOrEqual(t, lower[i], runs[i]+1e-9)
		assert.LessOrEqual(t, runs[i], upper[i]+1e-9)
	}

	resLo, resHi, resExact := m.ResourceMatrixLower(), m.ResourceMatrixUpper(), m.ResourceMatrix()
	for r := 0; r < resExact.Rows(); r++ {
		for p := 0; p < resExact.Cols(); p++ {
			lo, hi, ex := resLo.Row(r)[p], resHi.Row(r)[p], resExact.Row(r)[p]
			assert.LessOrEqual(t, lo, ex+1e-9)
			assert.LessOrEqual(t, ex, hi+1e-9)
		}
	}
}

func TestMeasure_AllocationPolicy(t *testing.T) {
	rs := model.NewResources()
	hay := rs.Create("hay", "bales")
	cow := rs.Create("cow", "")

	ps := model.NewProcesses()
	arable, err := ps.Create("arable_farm", model.Fixed(hay, 1))
	require.NoError(t, err)
	meadow, err := ps.Create("meadow", model.Fixed(hay, 1))
	require.NoError(t, err)
	dairy, err := ps.Create("dairy_farm", model.Fixed(cow, 1), model.Fixed(hay, -2))
	require.NoError(t, err)
	mcd, err := ps.Create("mcdonalds", model.Fixed(cow, -1))
	require.NoError(t, err)

	m, err := measure.New(rs, ps, []model.Constraint{
		model.NewEq("burger_consumption", mcd, 10),
		model.FixedRuns(meadow, 10),
	}, solve.DefaultOptions())
	require.NoError(t, err)

	// Proportional split: both producers grow 10 hay, so dairy's demand of
	// 20 is served half and half.
	flow := m.FlowMatrix()
	v, err := flow.At(hay.Index(), arable.Index(), dairy.Index())
	require.NoError(t, err)
	assert.InDelta(t, 10, v, 1e-6)
	v, err = flow.At(hay.Index(), meadow.Index(), dairy.Index())
	require.NoError(t, err)
	assert.InDelta(t, 10, v, 1e-6)

	// Explicit policy: route all of dairy's hay demand to arable_farm.
	elem, err := model.NewPolicyElement(hay, dairy, map[model.Process]float64{arable: 1})
	require.NoError(t, err)
	policy, err := model.NewPolicy(elem)
	require.NoError(t, err)

	alloc, err := m.FlowMatrixAllocated(policy)
	require.NoError(t, err)
	v, err = alloc.At(hay.Index(), arable.Index(), dairy.Index())
	require.NoError(t, err)
	assert.InDelta(t, 20, v, 1e-6)
	v, err = alloc.At(hay.Index(), meadow.Index(), dairy.Index())
	require.NoError(t, err)
	assert.Zero(t, v)

	// Multi-producer hay also exercises the ratio locking of the
	// cumulative re-solves.
	cum, err := m.CumulativeResourceMatrix()
	require.NoError(t, err)
	for p := 0; p < ps.Len(); p++ {
		got, err := cum.At(hay.Index(), p)
		require.NoError(t, err)
		assert.InDelta(t, 20, got, 1e-6, "process %d", p)
	}
}

func TestMeasure_AllocatedPolicyMismatch(t *testing.T) {
	// A policy built against a richer model cannot be applied to a smaller
	// one.
	rs := model.NewResources()
	rs.Create("hay", "")
	rs.Create("cow", "")
	milk := rs.Create("milk", "")

	ps := model.NewProcesses()
	producer, err := ps.Create("p0", model.Fixed(milk, 1))
	require.NoError(t, err)
	_, err = ps.Create("p1", model.Fixed(milk, 1))
	require.NoError(t, err)
	consumer, err := ps.Create("p2", model.Fixed(milk, -1))
	require.NoError(t, err)

	elem, err := model.NewPolicyElement(milk, consumer, map[model.Process]float64{producer: 1})
	require.NoError(t, err)
	policy, err := model.NewPolicy(elem)
	require.NoError(t, err)

	_, _, _, m := farmingMeasure(t)
	_, err = m.FlowMatrixAllocated(policy)
	require.ErrorIs(t, err, model.ErrRegistryMismatch)
}
