// SPDX-License-Identifier: MIT
// Package linsys: Dense is a concrete, row-major matrix of float64 values,
// storing elements in a flat slice for performance and cache friendliness.

package linsys

import (
	"errors"
	"fmt"
)

// ErrBadShape indicates that requested matrix dimensions are negative.
var ErrBadShape = errors.New("linsys: invalid shape")

// ErrOutOfRange indicates that a row or column index is outside valid bounds.
// Public indexers (At/Set) return this, never panic.
var ErrOutOfRange = errors.New("linsys: index out of range")

// ErrDimensionMismatch indicates incompatible dimensions between operands.
var ErrDimensionMismatch = errors.New("linsys: dimension mismatch")

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values. Zero rows or columns are
// legal: constraint blocks are frequently empty.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix initialized to zeros.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// FromRows builds a Dense from equal-length rows, copying the data.
// Rows of unequal length yield ErrDimensionMismatch.
func FromRows(rows [][]float64, cols int) (*Dense, error) {
	m, err := NewDense(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w",
				i, len(row), cols, ErrDimensionMismatch)
		}
		copy(m.data[i*cols:(i+1)*cols], row)
	}

	return m, nil
}

// Rows returns the number of rows in the matrix.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Row returns the backing slice of row i. The view is shared with the
// matrix: callers must treat it as read-only unless they own the matrix.
// Out-of-range rows return nil.
func (m *Dense) Row(i int) []float64 {
	if i < 0 || i >= m.r {
		return nil
	}

	return m.data[i*m.c : (i+1)*m.c]
}

// Clone returns a deep copy.
func (m *Dense) Clone() *Dense {
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return &Dense{r: m.r, c: m.c, data: data}
}

// MulVec returns m·x, or ErrDimensionMismatch when len(x) != Cols.
// Complexity: O(r*c).
func (m *Dense) MulVec(x []float64) ([]float64, error) {
	if len(x) != m.c {
		return nil, fmt.Errorf("Dense.MulVec: vector length %d, want %d: %w",
			len(x), m.c, ErrDimensionMismatch)
	}
	out := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		row := m.data[i*m.c : (i+1)*m.c]
		sum := 0.0
		for j, v := range row {
			sum += v * x[j]
		}
		out[i] = sum
	}

	return out, nil
}
