// SPDX-License-Identifier: MIT

package measure

import (
	"sync"

	"github.com/katalvlaran/matflow/linsys"
	"github.com/katalvlaran/matflow/model"
	"github.com/katalvlaran/matflow/oracle"
	"github.com/katalvlaran/matflow/solve"
)

// solution holds one solved run vector and lazily derives its matrices.
// Each derivation runs exactly once; concurrent first access is safe.
type solution struct {
	rs   *model.Resources
	ps   *model.Processes
	runs []float64

	allowInconsistent bool
	orc               oracle.Oracle

	resOnce sync.Once
	resMat  *linsys.Dense

	flowOnce sync.Once
	flowMat  *Cube

	cumOnce sync.Once
	cumMat  *linsys.Dense
	cumErr  error
}

func newSolution(rs *model.Resources, ps *model.Processes, runs []float64, opts solve.Options) *solution {
	return &solution{
		rs:                rs,
		ps:                ps,
		runs:              runs,
		allowInconsistent: opts.AllowInconsistentScales,
		orc:               opts.Oracle,
	}
}

// resourceMatrix is R[r][p] = runs[p] · production[p][r].
func (s *solution) resourceMatrix() *linsys.Dense {
	s.resOnce.Do(func() {
		nRes, nProc := s.rs.Len(), s.ps.Len()
		prod := s.ps.ProductionVectors(nRes)
		rows := make([][]float64, nRes)
		for r := 0; r < nRes; r++ {
			row := make([]float64, nProc)
			for p := 0; p < nProc; p++ {
				row[p] = s.runs[p] * prod[p][r]
			}
			rows[r] = row
		}
		s.resMat, _ = linsys.FromRows(rows, nProc)
	})

	return s.resMat
}

// flowMatrix decomposes the resource matrix into pairwise flows: every
// consumer's demand is split across producers in proportion to their share
// of the total production of that resource.
func (s *solution) flowMatrix() *Cube {
	s.flowOnce.Do(func() {
		s.flowMat = decompose(s.resourceMatrix(), nil)
	})

	return s.flowMat
}

// decompose builds the antisymmetric flow cube from a resource matrix. When
// policy is non-nil its shares override the proportional split for the
// (resource, consumer) pairs they cover.
func decompose(resMat *linsys.Dense, policy *model.Policy) *Cube {
	nRes, nProc := resMat.Rows(), resMat.Cols()
	cube := newCube(nRes, nProc)
	for r := 0; r < nRes; r++ {
		row := resMat.Row(r)
		total := 0.0
		for _, v := range row {
			if v > 0 {
				total += v
			}
		}
		for i, consumed := range row {
			if consumed >= 0 {
				continue
			}
			if policy != nil {
				if shares, ok := policy.Shares(r, i); ok {
					for j, share := range shares {
						cube.add(r, j, i, -consumed*share)
					}
					continue
				}
			}
			if total == 0 {
				continue
			}
			for j, produced := range row {
				if produced <= 0 {
					continue
				}
				cube.add(r, j, i, -consumed*produced/total)
			}
		}
	}

	return cube
}

// cumulativeMatrix is C[r][p] = total r required upstream to sustain p at
// its solved level. One re-solve per process: the solved production ratios
// of every multi-producer resource are locked in as equality constraints,
// the inspected process is pinned to its solved run-count, and total runs
// are minimized; the resulting cascade run vectors weight the production
// matrix. User constraints do not participate in the re-solves.
func (s *solution) cumulativeMatrix() (*linsys.Dense, error) {
	s.cumOnce.Do(func() {
		s.cumMat, s.cumErr = s.computeCumulative()
	})

	return s.cumMat, s.cumErr
}

func (s *solution) computeCumulative() (*linsys.Dense, error) {
	nRes, nProc := s.rs.Len(), s.ps.Len()
	prodOnly := productionOnly(s.ps, nRes)

	ratioCons, err := s.ratioConstraints(prodOnly)
	if err != nil {
		return nil, err
	}

	opts := solve.Options{
		Objective:               model.Sum(s.ps),
		AllowInconsistentScales: s.allowInconsistent,
		Oracle:                  s.orc,
	}
	cascade := make([][]float64, nProc)
	for p, proc := range s.ps.All() {
		cons := append([]model.Constraint{model.FixedRuns(proc, s.runs[p])}, ratioCons...)
		subRuns, err := solve.Run(s.rs, s.ps, cons, opts)
		if err != nil {
			return nil, err
		}
		cascade[p] = subRuns
	}

	rows := make([][]float64, nRes)
	for r := 0; r < nRes; r++ {
		row := make([]float64, nProc)
		for p := 0; p < nProc; p++ {
			sum := 0.0
			for q := 0; q < nProc; q++ {
				sum += cascade[p][q] * prodOnly[r][q]
			}
			row[p] = sum
		}
		rows[r] = row
	}

	return linsys.FromRows(rows, nProc)
}

// ratioConstraints locks the solved run ratio between the first producer of
// each multi-producer resource and every other producer of it.
func (s *solution) ratioConstraints(prodOnly [][]float64) ([]model.Constraint, error) {
	var cons []model.Constraint
	for r := 0; r < len(prodOnly); r++ {
		anchor := -1
		for p, v := range prodOnly[r] {
			if v <= 0 {
				continue
			}
			if anchor < 0 {
				anchor = p
				continue
			}
			pa, _ := s.ps.Get(anchor)
			pp, _ := s.ps.Get(p)
			c, err := model.RunRatio(pa, pp, s.runs[p]/s.runs[anchor])
			if err != nil {
				return nil, err
			}
			cons = append(cons, c)
		}
	}

	return cons, nil
}

// productionOnly is the per-run production matrix (resource × process) with
// consumption entries zeroed.
func productionOnly(ps *model.Processes, nRes int) [][]float64 {
	prod := ps.ProductionVectors(nRes)
	rows := make([][]float64, nRes)
	for r := 0; r < nRes; r++ {
		row := make([]float64, len(prod))
		for p := range prod {
			if v := prod[p][r]; v > 0 {
				row[p] = v
			}
		}
		rows[r] = row
	}

	return rows
}
