// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math"
)

// Kind distinguishes the two constraint forms the solver accepts.
type Kind uint8

const (
	// Eq states expr == bound.
	Eq Kind = iota
	// Le states expr <= bound. GreaterOrEqual is expressed as Le over the
	// negated expression and bound (see NewGe).
	Le
)

// Constraint is a linear condition over process run-counts: a weighted
// process expression compared against a scalar bound.
type Constraint struct {
	name  string
	kind  Kind
	expr  *Expr
	bound float64
}

// NewEq states "t == bound".
func NewEq(name string, t Term, bound float64) Constraint {
	return Constraint{name: name, kind: Eq, expr: t.term(), bound: bound}
}

// NewLe states "t <= bound".
func NewLe(name string, t Term, bound float64) Constraint {
	return Constraint{name: name, kind: Le, expr: t.term(), bound: bound}
}

// NewGe states "t >= bound", stored as "-t <= -bound".
func NewGe(name string, t Term, bound float64) Constraint {
	return Constraint{name: name, kind: Le, expr: Neg(t), bound: -bound}
}

// Name returns the constraint name used in diagnostics.
func (c Constraint) Name() string { return c.name }

// Kind returns Eq or Le.
func (c Constraint) Kind() Kind { return c.kind }

// Bound returns the scalar right-hand side.
func (c Constraint) Bound() float64 { return c.bound }

// Expr returns the left-hand side expression.
func (c Constraint) Expr() *Expr { return c.expr }

// String renders the stored form, e.g. "dairy_farm - 2*mcdonalds == 0".
func (c Constraint) String() string {
	op := "=="
	if c.kind == Le {
		op = "<="
	}

	return fmt.Sprintf("%s %s %g", c.expr, op, c.bound)
}

// FixedRuns pins a process to an exact run-count.
func FixedRuns(p Process, runs float64) Constraint {
	name := fmt.Sprintf("%s_fixed_at_%g_runs", p.Name(), runs)

	return NewEq(name, p, runs)
}

// RunRatio locks the run-counts of two processes to the ratio
// p2 = p2OverP1 * p1, expressed as p1 - p2OverP1*p2 == 0.
func RunRatio(p1, p2 Process, p2OverP1 float64) (Constraint, error) {
	if p1.registry() != p2.registry() {
		return Constraint{}, ErrRegistryMismatch
	}
	expr, err := Sub(p1, Scale(p2, p2OverP1))
	if err != nil {
		return Constraint{}, err
	}
	name := fmt.Sprintf("fixed_ratio_%s_to_%s_at_1:%g", p1.Name(), p2.Name(), p2OverP1)

	return NewEq(name, expr, 0), nil
}

// FixedResource pins the amount of r that p produces (or consumes) per the
// whole solve, by converting the resource amount into an exact run-count.
// The process must actually touch the resource; otherwise ErrResourceNotUsed.
func FixedResource(r Resource, p Process, amount float64) (Constraint, error) {
	demand := p.Production(r)
	if demand == 0 {
		return Constraint{}, fmt.Errorf("%q demanded from %q: %w",
			r.Name(), p.Name(), ErrResourceNotUsed)
	}
	phrase := "production"
	if demand > 0 {
		phrase = "consumption"
	}
	runs := amount / math.Abs(demand)
	name := fmt.Sprintf("resource_%s_%s_fixed_at_%g%s_for_process_%s",
		phrase, r.Name(), amount, r.Unit(), p.Name())

	return NewEq(name, p, runs), nil
}
