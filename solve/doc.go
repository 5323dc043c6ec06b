// SPDX-License-Identifier: MIT

// Package solve orchestrates one linear-program solve of a matflow model:
// assemble the dense system, guard its numerical consistency, scale it,
// invoke the LP oracle and classify the outcome.
//
// # Pipeline
//
//	linsys.Build → order-of-magnitude guard → row scaling → oracle → verdict
//
// The guard measures the base-10 spread of every row (mass-balance rows,
// user constraint rows and the objective, right-hand sides included) and
// aborts with *InconsistentScaleError when any spread exceeds
// linsys.OrderLimit — unless the caller opted out with
// AllowInconsistentScales. Surviving systems have each row rescaled by its
// own power of ten so the oracle sees comparable magnitudes; the returned
// solution needs no unscaling (scaling never touches the variable space),
// while infeasibility residuals are divided back into original units before
// they reach a diagnostic.
//
// # Diagnostics
//
// Every failure is a terminal, structured error value; payload construction
// from raw solver vectors lives in pure build functions, separate from the
// error types themselves. Match with errors.As:
//
//	*OverconstrainedError   — per-resource and per-constraint violations,
//	                          each with the producers/consumers that could
//	                          repair it and a recommendation line
//	*UnboundedError         — final solution values, runaway ones tagged
//	                          "(probably unbounded)"
//	*IterationLimitError    — the only meaningfully recoverable failure:
//	                          retry with a larger MaxIterations
//	*NumericalError         — backend numerical failure, message attached
//	*InconsistentScaleError — every offending row with its decade range and
//	                          contributing process coefficients
//
// Nothing is retried automatically and nothing is swallowed: a solve either
// returns a run vector or exactly one of the errors above.
package solve
