// SPDX-License-Identifier: MIT

// Package linsys turns a matflow model into the dense linear system the LP
// oracle consumes, and provides the numerical-consistency tooling that keeps
// that system well-posed.
//
// # System assembly
//
// Build produces a System with an equality block, an inequality block and an
// objective vector, always over one variable per process:
//
//	exact mode:
//	  A_eq = [ production matrix (one mass-balance row per resource, RHS 0) ]
//	         [ user equality-constraint rows                               ]
//	  A_le = [ user inequality-constraint rows ]
//
//	bounded (interval) mode:
//	  A_eq = [ user equality-constraint rows ]
//	  A_le = [  lowerBound rows:  lb·x ≤ 0   ]
//	         [ -upperBound rows: -ub·x ≤ 0   ]
//	         [ user inequality-constraint rows ]
//
// The mass-balance rows are implicit — no caller ever states them — and in
// bounded mode they relax into the per-resource envelope lb·x ≤ 0 ≤ ub·x.
// A nil objective defaults to the uniform unit-weight "minimize total runs".
//
// # Consistency & scaling
//
// LP oracles work to absolute tolerances, so a row mixing coefficients of
// wildly different magnitude makes those tolerances meaningless. OrderRanges
// measures, per row, the base-10 spread across non-zero coefficients and the
// right-hand side; rows spreading more than OrderLimit decades should be
// rejected before the oracle ever runs (the solve package owns that guard).
// RowScales computes the per-row power-of-ten rescale
//
//	scale = 10^(-floor(log10 max|row|))
//
// applied identically to a coefficient row and its RHS, bringing every row
// entering the oracle to a comparable magnitude. Scaling never touches the
// variable space, so solutions need no unscaling — only residuals and slacks
// reported by the oracle must be divided back by the same row scales.
package linsys
