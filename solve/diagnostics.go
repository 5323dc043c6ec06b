// SPDX-License-Identifier: MIT
// Package solve: diagnostic error types and their builders.
//
// The types are plain structured values; turning raw solver vectors into
// payloads happens in the pure new* functions below, so an error never
// depends on how it was constructed.

package solve

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/matflow/linsys"
	"github.com/katalvlaran/matflow/model"
)

// violationEps separates genuine violations from floating-point noise in
// residual and slack vectors.
const violationEps = 1e-9

// runawayHigh and runawayLow bracket the "probably unbounded" tagging of
// final solution values in UnboundedError.
const (
	runawayHigh = 1e7
	runawayLow  = 1e-7
)

// IterationLimitError reports an oracle that hit its iteration cap. Retry
// with a larger Options.MaxIterations.
type IterationLimitError struct {
	Iterations int
}

func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("solve: iteration limit reached with %d iterations", e.Iterations)
}

// NumericalError wraps an oracle's numerical failure.
type NumericalError struct {
	Detail string
}

func (e *NumericalError) Error() string {
	if e.Detail == "" {
		return "solve: numerical difficulties encountered"
	}

	return "solve: numerical difficulties encountered: " + e.Detail
}

// ResourceViolation attributes one violated mass-balance (or interval
// envelope) row: the signed violation and the processes able to repair it.
// Positive Amount means net overproduction of the resource.
type ResourceViolation struct {
	Resource  model.Resource
	Amount    float64
	Producers []model.Process
	Consumers []model.Process
}

// ConstraintViolation attributes one violated user constraint.
type ConstraintViolation struct {
	Constraint model.Constraint
	Amount     float64
}

// OverconstrainedError reports an infeasible system with per-row blame.
type OverconstrainedError struct {
	Resources []ResourceViolation
	Eq        []ConstraintViolation
	Le        []ConstraintViolation
}

func (e *OverconstrainedError) Error() string {
	lines := []string{"solve: overconstrained problem:"}
	if len(e.Resources) > 0 {
		lines = append(lines, "resources:")
		for _, v := range e.Resources {
			rec := recommendation(v.Amount, v.Producers, v.Consumers)
			lines = append(lines, fmt.Sprintf("%s => %g: %s", v.Resource.Name(), v.Amount, rec))
		}
	}
	if len(e.Eq) > 0 {
		lines = append(lines, "equality constraints:")
		for _, v := range e.Eq {
			lines = append(lines, fmt.Sprintf("%s => %g", v.Constraint, v.Amount))
		}
	}
	if len(e.Le) > 0 {
		lines = append(lines, "inequality constraints:")
		for _, v := range e.Le {
			lines = append(lines, fmt.Sprintf("%s => %g", v.Constraint, v.Amount))
		}
	}

	return strings.Join(lines, "\n")
}

// recommendation phrases the repair direction: overproduction wants more
// consumption or less production, underproduction the reverse.
func recommendation(amount float64, producers, consumers []model.Process) string {
	prod, cons := joinNames(producers), joinNames(consumers)
	var parts []string
	if amount > 0 {
		if cons != "" {
			parts = append(parts, "increase runs of "+cons)
		}
		if prod != "" {
			parts = append(parts, "decrease runs of "+prod)
		}
	} else {
		if prod != "" {
			parts = append(parts, "increase runs of "+prod)
		}
		if cons != "" {
			parts = append(parts, "decrease runs of "+cons)
		}
	}

	return strings.Join(parts, " or ")
}

// ProcessLevel is one process's value in the final (runaway) iterate of an
// unbounded solve.
type ProcessLevel struct {
	Process           model.Process
	Value             float64
	ProbablyUnbounded bool
}

// UnboundedError reports an objective that decreases without limit.
type UnboundedError struct {
	Levels []ProcessLevel
}

func (e *UnboundedError) Error() string {
	lines := []string{"solve: solution unbounded - final solution was:"}
	for _, l := range e.Levels {
		comment := ""
		if l.ProbablyUnbounded {
			comment = " (probably unbounded)"
		}
		lines = append(lines, fmt.Sprintf("%s: %g%s", l.Process.Name(), l.Value, comment))
	}

	return strings.Join(lines, "\n")
}

// TermWeight is one process coefficient contributing to an ill-scaled row.
type TermWeight struct {
	Process     model.Process
	Coefficient float64
}

// ScaleIssue is one row whose coefficients spread beyond linsys.OrderLimit.
type ScaleIssue struct {
	Label string
	Range float64
	Terms []TermWeight
}

// InconsistentScaleError aborts a solve whose system would be numerically
// meaningless. Opt out with Options.AllowInconsistentScales.
type InconsistentScaleError struct {
	Objective *ScaleIssue
	Resources []ScaleIssue
	Eq        []ScaleIssue
	Le        []ScaleIssue
}

func (e *InconsistentScaleError) Error() string {
	lines := []string{
		"solve: all resources and constraints must be of a consistent " +
			"order of magnitude; to allow this behaviour set AllowInconsistentScales",
	}
	appendSection := func(title string, issues []ScaleIssue) {
		if len(issues) == 0 {
			return
		}
		lines = append(lines, title)
		for _, issue := range issues {
			lines = append(lines, fmt.Sprintf("%s: order of magnitude range: %g", issue.Label, issue.Range))
			for _, t := range issue.Terms {
				lines = append(lines, fmt.Sprintf("    %s: %g", t.Process.Name(), t.Coefficient))
			}
		}
	}
	if e.Objective != nil {
		appendSection("objective inconsistencies", []ScaleIssue{*e.Objective})
	}
	appendSection("resource inconsistencies", e.Resources)
	appendSection("equality constraint inconsistencies", e.Eq)
	appendSection("inequality constraint inconsistencies", e.Le)

	return strings.Join(lines, "\n")
}

// newOverconstrained attributes un-scaled residual and slack vectors back to
// resources and user constraints. Residual convention: eqRes = b − A·x̂, so
// the reported resource Amount (net production) is its negation.
func newOverconstrained(
	sys *linsys.System,
	rs *model.Resources,
	ps *model.Processes,
	eqRes, leSlack []float64,
) *OverconstrainedError {
	out := &OverconstrainedError{}

	for i := 0; i < sys.MassRows; i++ {
		if math.Abs(eqRes[i]) <= violationEps {
			continue
		}
		res, _ := rs.Get(i)
		producers, consumers := splitBySign(ps, sys.AEq.Row(i))
		out.Resources = append(out.Resources, ResourceViolation{
			Resource:  res,
			Amount:    -eqRes[i],
			Producers: producers,
			Consumers: consumers,
		})
	}
	for i := sys.MassRows; i < len(eqRes); i++ {
		if math.Abs(eqRes[i]) <= violationEps {
			continue
		}
		out.Eq = append(out.Eq, ConstraintViolation{
			Constraint: sys.EqCons[i-sys.MassRows],
			Amount:     eqRes[i],
		})
	}
	for i, slack := range leSlack {
		if slack >= -violationEps {
			continue
		}
		if i < sys.BoundRows {
			// Interval envelope row: first half lower bounds, second half
			// (negated) upper bounds — restore production orientation
			// before splitting producers from consumers.
			resIdx := i % rs.Len()
			res, _ := rs.Get(resIdx)
			row := sys.ALe.Row(i)
			if i >= rs.Len() {
				row = negate(row)
			}
			producers, consumers := splitBySign(ps, row)
			out.Resources = append(out.Resources, ResourceViolation{
				Resource:  res,
				Amount:    -slack,
				Producers: producers,
				Consumers: consumers,
			})
			continue
		}
		out.Le = append(out.Le, ConstraintViolation{
			Constraint: sys.LeCons[i-sys.BoundRows],
			Amount:     slack,
		})
	}

	return out
}

// newUnbounded tags runaway final values; a nil iterate (backends that stop
// without one) counts every process as runaway.
func newUnbounded(ps *model.Processes, x []float64) *UnboundedError {
	out := &UnboundedError{Levels: make([]ProcessLevel, ps.Len())}
	for i, p := range ps.All() {
		v := math.Inf(1)
		if x != nil {
			v = x[i]
		}
		out.Levels[i] = ProcessLevel{
			Process:           p,
			Value:             v,
			ProbablyUnbounded: v > runawayHigh || v < runawayLow,
		}
	}

	return out
}

// newInconsistentScale collects every row spreading beyond linsys.OrderLimit
// together with the process coefficients that caused it.
func newInconsistentScale(
	sys *linsys.System,
	rs *model.Resources,
	ps *model.Processes,
	objRange float64,
	eqRanges, leRanges []float64,
) *InconsistentScaleError {
	out := &InconsistentScaleError{}
	if objRange > linsys.OrderLimit {
		out.Objective = &ScaleIssue{
			Label: "objective",
			Range: objRange,
			Terms: rowTerms(ps, sys.Objective),
		}
	}

	for i, rng := range eqRanges {
		if rng <= linsys.OrderLimit {
			continue
		}
		issue := ScaleIssue{Range: rng, Terms: rowTerms(ps, sys.AEq.Row(i))}
		if i < sys.MassRows {
			res, _ := rs.Get(i)
			issue.Label = res.Name()
			out.Resources = append(out.Resources, issue)
		} else {
			issue.Label = sys.EqCons[i-sys.MassRows].String()
			out.Eq = append(out.Eq, issue)
		}
	}
	for i, rng := range leRanges {
		if rng <= linsys.OrderLimit {
			continue
		}
		issue := ScaleIssue{Range: rng, Terms: rowTerms(ps, sys.ALe.Row(i))}
		if i < sys.BoundRows {
			res, _ := rs.Get(i % rs.Len())
			issue.Label = res.Name()
			out.Resources = append(out.Resources, issue)
		} else {
			issue.Label = sys.LeCons[i-sys.BoundRows].String()
			out.Le = append(out.Le, issue)
		}
	}

	return out
}

func rowTerms(ps *model.Processes, row []float64) []TermWeight {
	var terms []TermWeight
	for j, v := range row {
		if v == 0 {
			continue
		}
		p, _ := ps.Get(j)
		terms = append(terms, TermWeight{Process: p, Coefficient: v})
	}

	return terms
}

func splitBySign(ps *model.Processes, row []float64) (producers, consumers []model.Process) {
	for j, v := range row {
		p, _ := ps.Get(j)
		switch {
		case v > 0:
			producers = append(producers, p)
		case v < 0:
			consumers = append(consumers, p)
		}
	}

	return producers, consumers
}

func joinNames(procs []model.Process) string {
	names := make([]string, len(procs))
	for i, p := range procs {
		names[i] = p.Name()
	}

	return strings.Join(names, ", ")
}

func negate(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = -v
	}

	return out
}
