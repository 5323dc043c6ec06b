// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Term is anything that can participate in the expression algebra: a Process
// (implicit multiplier 1) or an *Expr built by earlier combinations.
type Term interface {
	// term returns the expression view of the value. Implementations must
	// not leak internal maps; Add and friends copy before merging.
	term() *Expr
}

// Expr is a weighted combination of processes from a single registry: a
// mapping process index → multiplier. Expressions are immutable; every
// operation returns a fresh value. Zero-multiplier terms are dropped.
type Expr struct {
	reg  *Processes
	coef map[int]float64
}

func (p Process) term() *Expr {
	return &Expr{reg: p.reg, coef: map[int]float64{p.idx: 1}}
}

func (e *Expr) term() *Expr { return e }

// Registry returns the Processes registry the expression is rooted in.
func (e *Expr) Registry() *Processes { return e.reg }

// Add merges terms by summing multipliers. All terms must be rooted in the
// same Processes registry; mixing registries yields ErrRegistryMismatch.
func Add(terms ...Term) (*Expr, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("model: Add of no terms: %w", ErrNoEntries)
	}
	first := terms[0].term()
	out := &Expr{reg: first.reg, coef: make(map[int]float64, len(first.coef))}
	for _, t := range terms {
		e := t.term()
		if e.reg != out.reg {
			return nil, ErrRegistryMismatch
		}
		for idx, k := range e.coef {
			out.coef[idx] += k
		}
	}
	dropZeros(out.coef)

	return out, nil
}

// Sub returns a − b, or ErrRegistryMismatch for differently rooted terms.
func Sub(a, b Term) (*Expr, error) {
	return Add(a, Neg(b))
}

// Scale returns t with every multiplier scaled by k.
func Scale(t Term, k float64) *Expr {
	e := t.term()
	out := &Expr{reg: e.reg, coef: make(map[int]float64, len(e.coef))}
	for idx, c := range e.coef {
		out.coef[idx] = c * k
	}
	dropZeros(out.coef)

	return out
}

// Neg returns t with every multiplier negated.
func Neg(t Term) *Expr { return Scale(t, -1) }

// Sum returns the unit-weight sum of every process in the registry — the
// default "minimize total runs" objective.
func Sum(ps *Processes) *Expr {
	coef := make(map[int]float64, ps.Len())
	for i := 0; i < ps.Len(); i++ {
		coef[i] = 1
	}

	return &Expr{reg: ps, coef: coef}
}

// Coefficients returns the multiplier vector zero-padded to n processes.
func (e *Expr) Coefficients(n int) []float64 {
	out := make([]float64, n)
	for idx, k := range e.coef {
		if idx < n {
			out[idx] = k
		}
	}

	return out
}

// String renders the expression in linear form, e.g. "2*a + b - 3*c".
// Unit multipliers omit the "1*" prefix.
func (e *Expr) String() string {
	idxs := make([]int, 0, len(e.coef))
	for idx := range e.coef {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)

	parts := make([]string, 0, len(idxs))
	for _, idx := range idxs {
		k := e.coef[idx]
		sign := ""
		if k < 0 {
			sign = "- "
		}
		name := e.reg.entries[idx].name
		if mag := math.Abs(k); mag == 1 {
			parts = append(parts, sign+name)
		} else {
			parts = append(parts, fmt.Sprintf("%s%g*%s", sign, mag, name))
		}
	}

	return strings.ReplaceAll(strings.Join(parts, " + "), "+ -", "-")
}

func dropZeros(coef map[int]float64) {
	for idx, k := range coef {
		if k == 0 {
			delete(coef, idx)
		}
	}
}
