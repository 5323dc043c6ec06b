// SPDX-License-Identifier: MIT

package oracle

import "github.com/katalvlaran/matflow/linsys"

// Status classifies the outcome of one oracle invocation.
type Status int

const (
	// StatusOptimal: X minimizes the objective subject to all constraints.
	StatusOptimal Status = iota
	// StatusIterationLimit: the cap was hit before termination; Iterations
	// records how many were used. Recoverable by retrying with a larger cap.
	StatusIterationLimit
	// StatusInfeasible: no non-negative x satisfies the system; EqResidual
	// and IneqSlack describe the least-violating point found.
	StatusInfeasible
	// StatusUnbounded: the objective decreases without limit.
	StatusUnbounded
	// StatusNumerical: the backend failed for numerical reasons; Detail
	// carries its message.
	StatusNumerical
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusIterationLimit:
		return "iteration limit reached"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusNumerical:
		return "numerical difficulties"
	default:
		return "unknown"
	}
}

// Problem is one linear program: minimize Objective·x subject to
// AEq·x = BEq, ALe·x ≤ BLe, x ≥ 0. MaxIterations of 0 means no cap.
type Problem struct {
	Objective []float64

	AEq *linsys.Dense
	BEq []float64

	ALe *linsys.Dense
	BLe []float64

	MaxIterations int

	// EqWeights and LeWeights are optional per-row violation penalties
	// consulted when locating the least-violating point of an infeasible
	// system. Rows with a higher weight hold while cheaper rows give way.
	// nil means uniform weight 1; weights never affect feasible solves.
	EqWeights []float64
	LeWeights []float64
}

// Result carries the oracle's verdict. Only the fields meaningful for the
// Status are populated; see the Status constants.
type Result struct {
	Status     Status
	X          []float64
	Iterations int

	// EqResidual = BEq − AEq·x̂ and IneqSlack = BLe − ALe·x̂ at the least
	// violating point, populated on StatusInfeasible.
	EqResidual []float64
	IneqSlack  []float64

	// Detail carries the backend message on StatusNumerical.
	Detail string
}

// Oracle is the external LP solving primitive. Implementations must be
// stateless with respect to Solve: every call is independent.
type Oracle interface {
	// Solve classifies the program into exactly one Result.Status. The
	// error return is reserved for malformed input (shape mismatches),
	// never for solver verdicts.
	Solve(p Problem) (Result, error)
}
