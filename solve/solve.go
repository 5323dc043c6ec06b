// SPDX-License-Identifier: MIT

package solve

import (
	"fmt"

	"github.com/katalvlaran/matflow/linsys"
	"github.com/katalvlaran/matflow/model"
	"github.com/katalvlaran/matflow/oracle"
)

// Options configures one solve.
//   - Objective: minimization target; nil means "minimize total runs".
//   - MaxIterations: oracle iteration cap; 0 means no cap.
//   - AllowInconsistentScales: skip the order-of-magnitude guard.
//   - Bounded: use the interval formulation (lb·x ≤ 0 ≤ ub·x instead of
//     exact mass balance); only meaningful for registries with ranges.
//   - Oracle: the LP backend; nil means the default gonum simplex.
type Options struct {
	Objective               *model.Expr
	MaxIterations           int
	AllowInconsistentScales bool
	Bounded                 bool
	Oracle                  oracle.Oracle
}

// DefaultOptions returns production-safe defaults: total-runs objective,
// no iteration cap, strict scale guard, exact formulation, gonum simplex.
func DefaultOptions() Options { return Options{} }

// Run solves the model and returns the non-negative run-count per process.
// Stage 1 (Assemble): build the dense system (model errors surface here).
// Stage 2 (Guard): reject rows spreading more than linsys.OrderLimit
// decades unless opted out.
// Stage 3 (Scale): rescale every row by its own power of ten.
// Stage 4 (Solve): invoke the oracle and classify its verdict; residuals
// are unscaled back into original units before diagnostics see them.
func Run(
	rs *model.Resources,
	ps *model.Processes,
	cons []model.Constraint,
	opts Options,
) ([]float64, error) {
	sys, err := linsys.Build(rs, ps, cons, opts.Objective, opts.Bounded)
	if err != nil {
		return nil, err
	}

	objRange := linsys.VectorOrderRange(sys.Objective)
	eqRanges := linsys.OrderRanges(sys.AEq, sys.BEq)
	leRanges := linsys.OrderRanges(sys.ALe, sys.BLe)
	if !opts.AllowInconsistentScales {
		if objRange > linsys.OrderLimit || anyAbove(eqRanges, linsys.OrderLimit) ||
			anyAbove(leRanges, linsys.OrderLimit) {
			return nil, newInconsistentScale(sys, rs, ps, objRange, eqRanges, leRanges)
		}
	}

	objScale := linsys.VectorScale(sys.Objective)
	eqScales := linsys.RowScales(sys.AEq, sys.BEq)
	leScales := linsys.RowScales(sys.ALe, sys.BLe)
	aEq, bEq := linsys.ScaleRows(sys.AEq, sys.BEq, eqScales)
	aLe, bLe := linsys.ScaleRows(sys.ALe, sys.BLe, leScales)

	orc := opts.Oracle
	if orc == nil {
		orc = oracle.NewSimplex()
	}
	res, err := orc.Solve(oracle.Problem{
		Objective:     linsys.ScaleVector(sys.Objective, objScale),
		AEq:           aEq,
		BEq:           bEq,
		ALe:           aLe,
		BLe:           bLe,
		MaxIterations: opts.MaxIterations,
		EqWeights:     violationWeights(sys.AEq.Rows(), sys.MassRows),
		LeWeights:     violationWeights(sys.ALe.Rows(), sys.BoundRows),
	})
	if err != nil {
		return nil, fmt.Errorf("solve: oracle: %w", err)
	}

	switch res.Status {
	case oracle.StatusOptimal:
		return res.X, nil
	case oracle.StatusIterationLimit:
		return nil, &IterationLimitError{Iterations: res.Iterations}
	case oracle.StatusInfeasible:
		eqRes := linsys.Unscale(res.EqResidual, eqScales)
		leSlack := linsys.Unscale(res.IneqSlack, leScales)

		return nil, newOverconstrained(sys, rs, ps, eqRes, leSlack)
	case oracle.StatusUnbounded:
		return nil, newUnbounded(ps, res.X)
	default:
		return nil, &NumericalError{Detail: res.Detail}
	}
}

// constraintHoldWeight makes user constraint rows far costlier to violate
// than mass-balance and envelope rows when an infeasible system's
// least-violating point is located, so the imbalance is reported on the
// resource that cannot be balanced rather than on the pin that caused it.
const constraintHoldWeight = 1e6

// violationWeights assigns weight 1 to the leading model rows and
// constraintHoldWeight to the trailing user constraint rows.
func violationWeights(rows, modelRows int) []float64 {
	out := make([]float64, rows)
	for i := range out {
		if i < modelRows {
			out[i] = 1
		} else {
			out[i] = constraintHoldWeight
		}
	}

	return out
}

func anyAbove(vals []float64, limit float64) bool {
	for _, v := range vals {
		if v > limit {
			return true
		}
	}

	return false
}
