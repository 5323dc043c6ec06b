// SPDX-License-Identifier: MIT

package oracle

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/katalvlaran/matflow/linsys"
)

// DefaultTol is the optimality tolerance passed to lp.Simplex.
const DefaultTol = 1e-10

// zeroEps is the magnitude below which a coefficient counts as structurally
// zero during row/column compaction.
const zeroEps = 1e-12

// Simplex is the default Oracle, backed by gonum's dense simplex method.
// The zero value is usable; Tol of 0 falls back to DefaultTol.
type Simplex struct {
	Tol float64
}

// NewSimplex returns a Simplex oracle with default tolerance.
func NewSimplex() *Simplex { return &Simplex{Tol: DefaultTol} }

func (s *Simplex) tol() float64 {
	if s.Tol > 0 {
		return s.Tol
	}

	return DefaultTol
}

// Solve implements Oracle. See the package doc for the compaction and
// elastic-infeasibility strategy.
func (s *Simplex) Solve(p Problem) (Result, error) {
	n := len(p.Objective)
	if p.AEq.Cols() != n || p.ALe.Cols() != n ||
		len(p.BEq) != p.AEq.Rows() || len(p.BLe) != p.ALe.Rows() {
		return Result{}, fmt.Errorf("oracle: problem shapes disagree: %w", linsys.ErrDimensionMismatch)
	}

	keepEq, keepLe, trivially := compactRows(p)
	if trivially {
		return infeasibleAtZero(p), nil
	}

	keepCol, unboundedCol := compactCols(p, keepEq, keepLe)
	if unboundedCol {
		return Result{Status: StatusUnbounded, X: infVector(n)}, nil
	}
	if len(keepCol) == 0 {
		// Every variable pinned to zero; the verdict is immediate.
		if feasibleAtZero(p, s.tol()) {
			return Result{Status: StatusOptimal, X: make([]float64, n)}, nil
		}

		return infeasibleAtZero(p), nil
	}

	if len(keepEq) > len(keepCol) {
		// More equality rows than variables: lp.Simplex rejects the system
		// outright. The elastic formulation stays well posed and settles the
		// verdict either way.
		return s.elastic(p, keepEq, keepLe, keepCol)
	}

	c, a, b := standardForm(p, keepEq, keepLe, keepCol)
	_, x, err := lp.Simplex(c, a, b, s.tol(), nil)
	switch {
	case err == nil:
		return Result{Status: StatusOptimal, X: scatter(x, keepCol, n)}, nil
	case errors.Is(err, lp.ErrInfeasible):
		return s.elastic(p, keepEq, keepLe, keepCol)
	case errors.Is(err, lp.ErrUnbounded):
		return Result{Status: StatusUnbounded, X: infVector(n)}, nil
	default:
		return Result{Status: StatusNumerical, Detail: err.Error()}, nil
	}
}

// compactRows drops structurally zero rows. A zero equality row with
// non-zero RHS, or a zero inequality row with negative RHS, is infeasible
// regardless of x (trivially=true).
func compactRows(p Problem) (keepEq, keepLe []int, trivially bool) {
	for i := 0; i < p.AEq.Rows(); i++ {
		if zeroRow(p.AEq.Row(i)) {
			if math.Abs(p.BEq[i]) > zeroEps {
				return nil, nil, true
			}
			continue
		}
		keepEq = append(keepEq, i)
	}
	for i := 0; i < p.ALe.Rows(); i++ {
		if zeroRow(p.ALe.Row(i)) {
			if p.BLe[i] < -zeroEps {
				return nil, nil, true
			}
			continue
		}
		keepLe = append(keepLe, i)
	}

	return keepEq, keepLe, false
}

// compactCols drops variables that appear in no kept row. Such a variable is
// pinned to 0 — unless its objective weight is negative, in which case the
// program is unbounded (the variable can grow freely).
func compactCols(p Problem, keepEq, keepLe []int) (keepCol []int, unbounded bool) {
	for j := 0; j < len(p.Objective); j++ {
		used := false
		for _, i := range keepEq {
			if math.Abs(p.AEq.Row(i)[j]) > zeroEps {
				used = true
				break
			}
		}
		if !used {
			for _, i := range keepLe {
				if math.Abs(p.ALe.Row(i)[j]) > zeroEps {
					used = true
					break
				}
			}
		}
		if !used {
			if p.Objective[j] < -zeroEps {
				return nil, true
			}
			continue
		}
		keepCol = append(keepCol, j)
	}

	return keepCol, false
}

// standardForm assembles min c·[x;s] s.t. [AEq 0; ALe I]·[x;s] = [bEq;bLe]
// over the kept rows and columns, one slack variable per inequality row.
func standardForm(p Problem, keepEq, keepLe, keepCol []int) ([]float64, *mat.Dense, []float64) {
	nc := len(keepCol)
	rows := len(keepEq) + len(keepLe)
	cols := nc + len(keepLe)

	c := make([]float64, cols)
	for jc, j := range keepCol {
		c[jc] = p.Objective[j]
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	for r, i := range keepEq {
		row := p.AEq.Row(i)
		for jc, j := range keepCol {
			a.Set(r, jc, row[j])
		}
		b[r] = p.BEq[i]
	}
	for k, i := range keepLe {
		r := len(keepEq) + k
		row := p.ALe.Row(i)
		for jc, j := range keepCol {
			a.Set(r, jc, row[j])
		}
		a.Set(r, nc+k, 1)
		b[r] = p.BLe[i]
	}

	return c, a, b
}

// residualEps separates a satisfied row from a violated one when the elastic
// minimizer is classified.
const residualEps = 1e-9

// elastic solves the violation-relaxed program
//
//	AEq·x + e⁺ − e⁻ = bEq,  ALe·x + s − f = bLe,  x,s,e⁺,e⁻,f ≥ 0
//	minimize Σw·e⁺ + Σw·e⁻ + Σw·f
//
// with w taken from EqWeights/LeWeights (1 when unset). The minimizer is the
// least-violating point; residuals and slacks are evaluated against the full
// original system so dropped rows stay aligned. Zero violation classifies as
// Optimal — the path over-determined systems take, where the equalities pin
// the solution and the objective plays no part — anything else as Infeasible.
func (s *Simplex) elastic(p Problem, keepEq, keepLe, keepCol []int) (Result, error) {
	n := len(p.Objective)
	nc := len(keepCol)
	nEq, nLe := len(keepEq), len(keepLe)
	rows := nEq + nLe
	cols := nc + nLe + 2*nEq + nLe // x, s, e⁺, e⁻, f

	c := make([]float64, cols)

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	for r, i := range keepEq {
		row := p.AEq.Row(i)
		for jc, j := range keepCol {
			a.Set(r, jc, row[j])
		}
		a.Set(r, nc+nLe+r, 1)      // e⁺
		a.Set(r, nc+nLe+nEq+r, -1) // e⁻
		w := rowWeight(p.EqWeights, i)
		c[nc+nLe+r] = w
		c[nc+nLe+nEq+r] = w
		b[r] = p.BEq[i]
	}
	for k, i := range keepLe {
		r := nEq + k
		row := p.ALe.Row(i)
		for jc, j := range keepCol {
			a.Set(r, jc, row[j])
		}
		a.Set(r, nc+k, 1)            // slack
		a.Set(r, nc+nLe+2*nEq+k, -1) // f (violation surplus)
		c[nc+nLe+2*nEq+k] = rowWeight(p.LeWeights, i)
		b[r] = p.BLe[i]
	}

	_, xAux, err := lp.Simplex(c, a, b, s.tol(), nil)
	if err != nil {
		return Result{Status: StatusNumerical,
			Detail: fmt.Sprintf("elastic re-solve failed: %v", err)}, nil
	}

	x := scatter(xAux[:nc], keepCol, n)
	eqRes, _ := p.AEq.MulVec(x)
	leRes, _ := p.ALe.MulVec(x)
	for i := range eqRes {
		eqRes[i] = p.BEq[i] - eqRes[i]
	}
	for i := range leRes {
		leRes[i] = p.BLe[i] - leRes[i]
	}
	if residualsWithin(eqRes, leRes) {
		return Result{Status: StatusOptimal, X: x}, nil
	}

	return Result{Status: StatusInfeasible, X: x, EqResidual: eqRes, IneqSlack: leRes}, nil
}

func residualsWithin(eqRes, leRes []float64) bool {
	for _, v := range eqRes {
		if math.Abs(v) > residualEps {
			return false
		}
	}
	for _, v := range leRes {
		if v < -residualEps {
			return false
		}
	}

	return true
}

// infeasibleAtZero reports residuals and slacks evaluated at x = 0, the
// verdict for trivially infeasible systems.
func infeasibleAtZero(p Problem) Result {
	return Result{
		Status:     StatusInfeasible,
		X:          make([]float64, len(p.Objective)),
		EqResidual: append([]float64(nil), p.BEq...),
		IneqSlack:  append([]float64(nil), p.BLe...),
	}
}

func feasibleAtZero(p Problem, tol float64) bool {
	for _, v := range p.BEq {
		if math.Abs(v) > tol {
			return false
		}
	}
	for _, v := range p.BLe {
		if v < -tol {
			return false
		}
	}

	return true
}

func zeroRow(row []float64) bool {
	for _, v := range row {
		if math.Abs(v) > zeroEps {
			return false
		}
	}

	return true
}

func scatter(compact []float64, keepCol []int, n int) []float64 {
	out := make([]float64, n)
	for jc, j := range keepCol {
		out[j] = compact[jc]
	}

	return out
}

func rowWeight(weights []float64, i int) float64 {
	if weights == nil {
		return 1
	}

	return weights[i]
}

func infVector(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Inf(1)
	}

	return out
}
