// SPDX-License-Identifier: MIT

package linsys

import (
	"errors"

	"github.com/katalvlaran/matflow/model"
)

// ErrEmptyModel is returned when a model has neither resources nor processes.
var ErrEmptyModel = errors.New("linsys: no resources or processes created")

// ErrNoResources is returned when a model has processes but no resources.
var ErrNoResources = errors.New("linsys: no resources created")

// ErrNoProcesses is returned when a model has resources but no processes.
var ErrNoProcesses = errors.New("linsys: no processes created")

// System is the dense formulation handed to the LP oracle: one variable per
// process, an equality block, an inequality block and an objective vector.
// The bookkeeping fields let diagnostics attribute each row back to the
// resource or user constraint it encodes.
type System struct {
	AEq *Dense
	BEq []float64
	ALe *Dense
	BLe []float64

	// Objective is the minimization vector, length = number of processes.
	Objective []float64

	// MassRows counts the leading A_eq rows that encode mass balance
	// (resource count in exact mode, 0 in bounded mode).
	MassRows int

	// BoundRows counts the leading A_le rows that encode the interval
	// envelope (2×resource count in bounded mode, 0 in exact mode). The
	// first half are lowerBound rows, the second half upperBound rows.
	BoundRows int

	// EqCons and LeCons are the user constraints behind the trailing rows
	// of A_eq and A_le respectively, in row order.
	EqCons []model.Constraint
	LeCons []model.Constraint
}

// Build assembles the dense system for a model snapshot.
// Stage 1 (Validate): non-empty registries, single-registry constraints and
// objective.
// Stage 2 (Prepare): split constraints by kind, pack coefficient rows.
// Stage 3 (Assemble): stack blocks per mode (see package doc) and derive the
// objective vector (nil ⇒ uniform unit weights).
// Complexity: O((R + C) · P) time and memory for R resources, P processes
// and C constraints.
func Build(
	rs *model.Resources,
	ps *model.Processes,
	cons []model.Constraint,
	objective *model.Expr,
	bounded bool,
) (*System, error) {
	nRes, nProc := rs.Len(), ps.Len()
	switch {
	case nRes == 0 && nProc == 0:
		return nil, ErrEmptyModel
	case nRes == 0:
		return nil, ErrNoResources
	case nProc == 0:
		return nil, ErrNoProcesses
	}
	if objective != nil && objective.Registry() != ps {
		return nil, model.ErrRegistryMismatch
	}

	eqCons := make([]model.Constraint, 0, len(cons))
	leCons := make([]model.Constraint, 0, len(cons))
	for _, c := range cons {
		if c.Expr().Registry() != ps {
			return nil, model.ErrRegistryMismatch
		}
		if c.Kind() == model.Eq {
			eqCons = append(eqCons, c)
		} else {
			leCons = append(leCons, c)
		}
	}

	sys := &System{EqCons: eqCons, LeCons: leCons}

	var eqRows, leRows [][]float64
	if bounded {
		// Interval mode: mass balance relaxes into lb·x ≤ 0 ≤ ub·x.
		lower := transpose(ps.LowerVectors(nRes), nRes, nProc)
		upper := transpose(ps.UpperVectors(nRes), nRes, nProc)
		leRows = append(leRows, lower...)
		for _, row := range upper {
			leRows = append(leRows, negated(row))
		}
		sys.BoundRows = 2 * nRes
		sys.BEq = make([]float64, 0, len(eqCons))
		sys.BLe = make([]float64, 2*nRes, 2*nRes+len(leCons))
	} else {
		eqRows = append(eqRows, transpose(ps.ProductionVectors(nRes), nRes, nProc)...)
		sys.MassRows = nRes
		sys.BEq = make([]float64, nRes, nRes+len(eqCons))
		sys.BLe = make([]float64, 0, len(leCons))
	}

	for _, c := range eqCons {
		eqRows = append(eqRows, c.Expr().Coefficients(nProc))
		sys.BEq = append(sys.BEq, c.Bound())
	}
	for _, c := range leCons {
		leRows = append(leRows, c.Expr().Coefficients(nProc))
		sys.BLe = append(sys.BLe, c.Bound())
	}

	var err error
	if sys.AEq, err = FromRows(eqRows, nProc); err != nil {
		return nil, err
	}
	if sys.ALe, err = FromRows(leRows, nProc); err != nil {
		return nil, err
	}

	if objective == nil {
		objective = model.Sum(ps)
	}
	sys.Objective = objective.Coefficients(nProc)

	return sys, nil
}

// transpose turns per-process vectors (process → resource) into per-resource
// rows (resource → process), the row orientation of the mass-balance block.
func transpose(perProcess [][]float64, nRes, nProc int) [][]float64 {
	rows := make([][]float64, nRes)
	for r := 0; r < nRes; r++ {
		row := make([]float64, nProc)
		for p := 0; p < nProc; p++ {
			row[p] = perProcess[p][r]
		}
		rows[r] = row
	}

	return rows
}

func negated(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = -v
	}

	return out
}
