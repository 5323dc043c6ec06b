// SPDX-License-Identifier: MIT

// Package model holds the declarative half of matflow: ordered registries of
// resources and processes, the expression algebra used to state constraints
// and objectives, and the constraint types the solver consumes.
//
// # Registries
//
// Resources and Processes are append-only, ordered collections. Creating an
// entry assigns it the next integer index, and the returned handle (Resource,
// Process) stays valid for the life of the registry. Lookup is by index
// (Get) or by unique name (ByName — zero or ambiguous matches are errors).
// All storage lives inside the registry value itself: two registries never
// share state, and nothing in this package is package-level mutable.
//
// A Process carries a signed per-run production vector over resources
// (positive = produced, negative = consumed). Vectors are stored at the
// length of the resource registry at creation time and zero-padded to the
// current resource count whenever a matrix is requested; the stored entries
// are never mutated. Declaring any Ranged quantity switches the registry
// into interval mode (HasBounds), which the measure package uses to decide
// whether extremal bound solves are required.
//
// # Expression algebra
//
// Expr is an immutable accumulator mapping process index → multiplier.
// Build expressions with Add, Sub, Scale, Neg and Sum; every expression is
// rooted in exactly one Processes registry, and combining expressions from
// different registries returns ErrRegistryMismatch. Rendering follows the
// usual linear form: "2*a + b - 3*c".
//
// # Constraints
//
// NewEq and NewLe state "expr == bound" and "expr <= bound". NewGe is sugar:
// a GreaterOrEqual constraint is stored as LessOrEqual over the negated
// expression and negated bound. FixedRuns, RunRatio and FixedResource cover
// the common cases; FixedResource fails when the named process neither
// produces nor consumes the resource.
//
// # Allocation policies
//
// Policy optionally overrides the solver's proportional flow allocation for
// chosen (resource, consumer) pairs with explicit producer shares. All
// policy validation happens at construction: shares must sum to one, a
// process may not supply itself, and the consumer must actually consume the
// resource. Invalid policies never reach the derivation engine.
package model
