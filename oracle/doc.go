// SPDX-License-Identifier: MIT

// Package oracle defines the linear-program solving primitive the matflow
// engine treats as a black box, and ships a default implementation backed by
// gonum's simplex (gonum.org/v1/gonum/optimize/convex/lp).
//
// # Contract
//
// An Oracle consumes a Problem — objective vector, equality system,
// inequality system, optional iteration cap — and reports exactly one of:
//
//	Optimal        — X holds the minimizing solution
//	IterationLimit — Iterations records how many were used
//	Infeasible     — EqResidual and IneqSlack locate the violation
//	Unbounded      — X holds the final (runaway) iterate when available
//	Numerical      — the backend failed for numerical reasons (Detail)
//
// Variables are implicitly non-negative: run-counts below zero are never
// considered, matching the engine's model semantics.
//
// On Infeasible the residual convention follows the classical one:
// EqResidual = b_eq − A_eq·x̂ and IneqSlack = b_le − A_le·x̂ at the least
// violating point x̂, so a negative slack marks a violated inequality.
// Callers that scaled rows before solving must divide these vectors by the
// same row scales before presenting them.
//
// # The simplex backend
//
// Simplex assembles the standard form [A_eq 0; A_le I]·[x;s] = [b_eq;b_le],
// x,s ≥ 0 and delegates to lp.Simplex. Because gonum rejects all-zero rows
// and columns, the adapter compacts them first: a zero equality row with
// non-zero RHS (or a zero inequality row with negative RHS) is immediately
// infeasible, and a zero column pins its variable to 0 — or proves the
// problem unbounded when that variable's objective weight is negative.
//
// gonum's simplex reports infeasibility without a final iterate, and rejects
// systems with more equality rows than variables outright. Both cases route
// through one elastic re-solve: minimize the total artificial violation over
// A_eq·x + e⁺ − e⁻ = b_eq, A_le·x + s − f = b_le, everything non-negative,
// weighting each row's violation by EqWeights/LeWeights. The minimizer is
// the least-violating point: zero violation means the equalities pin a
// feasible solution, reported Optimal; anything else is Infeasible with the
// residuals and slacks the diagnostics layer needs.
//
// lp.Simplex exposes no iteration cap and runs to termination, so this
// backend never reports IterationLimit itself; the status exists for oracles
// that do track iterations, and flows through the engine untouched.
package oracle
