// SPDX-License-Identifier: MIT

package measure

import (
	"fmt"

	"github.com/katalvlaran/matflow/linsys"
	"github.com/katalvlaran/matflow/model"
	"github.com/katalvlaran/matflow/solve"
)

// Measure is the solved model with its derived accounting views. Construct
// with New; the zero value is not usable. A Measure is safe for concurrent
// use once constructed.
type Measure struct {
	rs *model.Resources
	ps *model.Processes

	exact *solution

	// extremal holds the 2N interval-envelope solves (min p, min −p per
	// process), nil when the registry declares no Ranged quantities.
	extremal []*solution
}

// New solves the model and returns its Measure.
// Stage 1 (Exact): one solve against the exact mass-balance formulation.
// Stage 2 (Extremal): when the registry declares Ranged quantities, two
// interval-envelope solves per process (objectives p and −p) to anchor the
// Lower/Upper accessors.
// Options.Objective, MaxIterations, AllowInconsistentScales and Oracle apply
// to the exact solve; Options.Bounded is ignored — the measure layer picks
// the formulation per solve itself. Any solve failure fails construction
// with the solve diagnostic.
func New(
	rs *model.Resources,
	ps *model.Processes,
	cons []model.Constraint,
	opts solve.Options,
) (*Measure, error) {
	exactOpts := opts
	exactOpts.Bounded = false
	runs, err := solve.Run(rs, ps, cons, exactOpts)
	if err != nil {
		return nil, err
	}
	m := &Measure{rs: rs, ps: ps, exact: newSolution(rs, ps, runs, opts)}
	if !ps.HasBounds() {
		return m, nil
	}

	extOpts := opts
	extOpts.Bounded = true
	for _, p := range ps.All() {
		for _, objective := range []*model.Expr{model.Scale(p, 1), model.Neg(p)} {
			extOpts.Objective = objective
			extRuns, err := solve.Run(rs, ps, cons, extOpts)
			if err != nil {
				return nil, err
			}
			m.extremal = append(m.extremal, newSolution(rs, ps, extRuns, opts))
		}
	}

	return m, nil
}

// solutions returns every underlying solve, the exact one first.
func (m *Measure) solutions() []*solution {
	return append([]*solution{m.exact}, m.extremal...)
}

// Runs returns the exact run vector, one non-negative run-count per process.
func (m *Measure) Runs() []float64 {
	return append([]float64(nil), m.exact.runs...)
}

// RunsLower returns the elementwise minimum run vector over the exact and
// extremal solves; without Ranged quantities it equals Runs.
func (m *Measure) RunsLower() []float64 {
	if m.extremal == nil {
		return m.Runs()
	}

	return foldRuns(m.solutions(), pickMin)
}

// RunsUpper is the elementwise maximum counterpart of RunsLower.
func (m *Measure) RunsUpper() []float64 {
	if m.extremal == nil {
		return m.Runs()
	}

	return foldRuns(m.solutions(), pickMax)
}

// ResourceMatrix returns the resource × process matrix of net amounts:
// entry (r, p) is runs[p] · production[p][r].
func (m *Measure) ResourceMatrix() *linsys.Dense {
	return m.exact.resourceMatrix().Clone()
}

// ResourceMatrixLower returns the elementwise minimum resource matrix over
// the exact and extremal solves.
func (m *Measure) ResourceMatrixLower() *linsys.Dense {
	if m.extremal == nil {
		return m.ResourceMatrix()
	}

	return foldDense(resourceMatrices(m.solutions()), pickMin)
}

// ResourceMatrixUpper is the elementwise maximum counterpart.
func (m *Measure) ResourceMatrixUpper() *linsys.Dense {
	if m.extremal == nil {
		return m.ResourceMatrix()
	}

	return foldDense(resourceMatrices(m.solutions()), pickMax)
}

// FlowMatrix returns the resource × process × process flow cube of the exact
// solve. Entry (r, from, to) > 0 means resource r moves from one process to
// the other; the cube is antisymmetric in its process axes.
func (m *Measure) FlowMatrix() *Cube {
	return m.exact.flowMatrix()
}

// FlowMatrixLower returns the elementwise minimum flow cube over the exact
// and extremal solves.
func (m *Measure) FlowMatrixLower() *Cube {
	if m.extremal == nil {
		return m.FlowMatrix()
	}

	return minCube(flowCubes(m.solutions()))
}

// FlowMatrixUpper is the elementwise maximum counterpart.
func (m *Measure) FlowMatrixUpper() *Cube {
	if m.extremal == nil {
		return m.FlowMatrix()
	}

	return maxCube(flowCubes(m.solutions()))
}

// FlowMatrixAllocated decomposes flows with explicit Policy shares taking
// precedence over the proportional split for the (resource, consumer) pairs
// the policy covers. A policy element referencing an index outside this
// model yields ErrRegistryMismatch.
func (m *Measure) FlowMatrixAllocated(policy *model.Policy) (*Cube, error) {
	if policy == nil {
		return m.FlowMatrix(), nil
	}
	nRes, nProc := m.rs.Len(), m.ps.Len()
	for _, e := range policy.Elements() {
		if e.Resource().Index() >= nRes || e.Consumer().Index() >= nProc {
			return nil, fmt.Errorf("policy element %q via %q: %w",
				e.Resource().Name(), e.Consumer().Name(), model.ErrRegistryMismatch)
		}
	}

	return decompose(m.exact.resourceMatrix(), policy), nil
}

// FlowFrom sums the positive outgoing flow of resource r leaving process p.
func (m *Measure) FlowFrom(r model.Resource, p model.Process) (float64, error) {
	return m.incidentFlow(r, p, true)
}

// FlowTo sums the positive incoming flow of resource r entering process p.
func (m *Measure) FlowTo(r model.Resource, p model.Process) (float64, error) {
	return m.incidentFlow(r, p, false)
}

func (m *Measure) incidentFlow(r model.Resource, p model.Process, outgoing bool) (float64, error) {
	cube := m.FlowMatrix()
	sum := 0.0
	for other := 0; other < cube.Processes(); other++ {
		from, to := p.Index(), other
		if !outgoing {
			from, to = other, p.Index()
		}
		v, err := cube.At(r.Index(), from, to)
		if err != nil {
			return 0, err
		}
		if v > 0 {
			sum += v
		}
	}

	return sum, nil
}

// CumulativeResourceMatrix returns the resource × process matrix of total
// upstream requirements of the exact solve. It triggers one re-solve per
// process on first access; a re-solve failure surfaces as the underlying
// solve diagnostic and is memoized.
func (m *Measure) CumulativeResourceMatrix() (*linsys.Dense, error) {
	cum, err := m.exact.cumulativeMatrix()
	if err != nil {
		return nil, err
	}

	return cum.Clone(), nil
}

// CumulativeResourceMatrixLower returns the elementwise minimum cumulative
// matrix over the exact and extremal solves.
func (m *Measure) CumulativeResourceMatrixLower() (*linsys.Dense, error) {
	if m.extremal == nil {
		return m.CumulativeResourceMatrix()
	}
	mats, err := cumulativeMatrices(m.solutions())
	if err != nil {
		return nil, err
	}

	return foldDense(mats, pickMin), nil
}

// CumulativeResourceMatrixUpper is the elementwise maximum counterpart.
func (m *Measure) CumulativeResourceMatrixUpper() (*linsys.Dense, error) {
	if m.extremal == nil {
		return m.CumulativeResourceMatrix()
	}
	mats, err := cumulativeMatrices(m.solutions())
	if err != nil {
		return nil, err
	}

	return foldDense(mats, pickMax), nil
}

func resourceMatrices(sols []*solution) []*linsys.Dense {
	out := make([]*linsys.Dense, len(sols))
	for i, s := range sols {
		out[i] = s.resourceMatrix()
	}

	return out
}

func flowCubes(sols []*solution) []*Cube {
	out := make([]*Cube, len(sols))
	for i, s := range sols {
		out[i] = s.flowMatrix()
	}

	return out
}

func cumulativeMatrices(sols []*solution) ([]*linsys.Dense, error) {
	out := make([]*linsys.Dense, len(sols))
	for i, s := range sols {
		cum, err := s.cumulativeMatrix()
		if err != nil {
			return nil, err
		}
		out[i] = cum
	}

	return out, nil
}

func foldRuns(sols []*solution, pick func(a, b float64) float64) []float64 {
	out := append([]float64(nil), sols[0].runs...)
	for _, s := range sols[1:] {
		for i, v := range s.runs {
			out[i] = pick(out[i], v)
		}
	}

	return out
}

func foldDense(mats []*linsys.Dense, pick func(a, b float64) float64) *linsys.Dense {
	rows := make([][]float64, mats[0].Rows())
	for i := range rows {
		row := append([]float64(nil), mats[0].Row(i)...)
		for _, mat := range mats[1:] {
			for j, v := range mat.Row(i) {
				row[j] = pick(row[j], v)
			}
		}
		rows[i] = row
	}
	out, _ := linsys.FromRows(rows, mats[0].Cols())

	return out
}

func pickMin(a, b float64) float64 {
	if b < a {
		return b
	}

	return a
}

func pickMax(a, b float64) float64 {
	if b > a {
		return b
	}

	return a
}
