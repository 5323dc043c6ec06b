// SPDX-License-Identifier: MIT

package measure

import (
	"fmt"

	"github.com/katalvlaran/matflow/linsys"
)

// Cube is a dense resource × process × process tensor, the shape of a flow
// decomposition: entry (r, from, to) is the amount of resource r moving from
// one process to another. Storage is a flat slice, resource-major.
type Cube struct {
	nRes  int
	nProc int
	data  []float64
}

func newCube(nRes, nProc int) *Cube {
	return &Cube{nRes: nRes, nProc: nProc, data: make([]float64, nRes*nProc*nProc)}
}

// Resources returns the extent of the first axis.
func (c *Cube) Resources() int { return c.nRes }

// Processes returns the extent of the second and third axes.
func (c *Cube) Processes() int { return c.nProc }

// At retrieves the entry at (res, from, to).
func (c *Cube) At(res, from, to int) (float64, error) {
	if res < 0 || res >= c.nRes || from < 0 || from >= c.nProc || to < 0 || to >= c.nProc {
		return 0, fmt.Errorf("Cube.At(%d,%d,%d): %w", res, from, to, linsys.ErrOutOfRange)
	}

	return c.data[c.index(res, from, to)], nil
}

func (c *Cube) index(res, from, to int) int {
	return (res*c.nProc+from)*c.nProc + to
}

// add accumulates v at (res, from, to) and -v at the mirrored entry, keeping
// the per-resource slices antisymmetric.
func (c *Cube) add(res, from, to int, v float64) {
	c.data[c.index(res, from, to)] += v
	c.data[c.index(res, to, from)] -= v
}

// minCube and maxCube fold same-shape cubes elementwise.

func minCube(cubes []*Cube) *Cube { return foldCubes(cubes, pickMin) }

func maxCube(cubes []*Cube) *Cube { return foldCubes(cubes, pickMax) }

func foldCubes(cubes []*Cube, pick func(a, b float64) float64) *Cube {
	out := newCube(cubes[0].nRes, cubes[0].nProc)
	copy(out.data, cubes[0].data)
	for _, c := range cubes[1:] {
		for i, v := range c.data {
			out.data[i] = pick(out.data[i], v)
		}
	}

	return out
}
