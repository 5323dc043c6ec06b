// SPDX-License-Identifier: MIT

package model

import "fmt"

// Entry is one signed resource quantity attached to a process at creation.
// Positive values are produced per run, negative values consumed per run.
// Build entries with Fixed or Ranged.
type Entry struct {
	res    Resource
	value  float64
	lower  float64
	upper  float64
	ranged bool
}

// Fixed declares an exact per-run quantity of r.
func Fixed(r Resource, qty float64) Entry {
	return Entry{res: r, value: qty, lower: qty, upper: qty}
}

// Ranged declares an interval quantity: qty is the point estimate used by
// exact solves, [lower, upper] the envelope used by bound solves. Declaring
// any ranged entry switches the whole registry into interval mode.
func Ranged(r Resource, qty, lower, upper float64) Entry {
	return Entry{res: r, value: qty, lower: lower, upper: upper, ranged: true}
}

// Process is a stable handle into a Processes registry.
type Process struct {
	idx int
	reg *Processes
}

// Index returns the registry index assigned at creation.
func (p Process) Index() int { return p.idx }

// Name returns the process name.
func (p Process) Name() string { return p.reg.entries[p.idx].name }

// String implements fmt.Stringer.
func (p Process) String() string { return p.Name() }

// Production returns the signed per-run quantity of r, zero when the process
// does not touch r.
func (p Process) Production(r Resource) float64 {
	vec := p.reg.entries[p.idx].produces
	if r.idx >= len(vec) {
		return 0
	}

	return vec[r.idx]
}

// registry returns the owning registry; used by the expression algebra to
// enforce single-rooting.
func (p Process) registry() *Processes { return p.reg }

type processEntry struct {
	name     string
	produces []float64 // index = resource index, length frozen at creation
	lower    []float64
	upper    []float64
}

// Processes is an append-only, ordered registry of processes. Production
// vectors are stored at their creation-time length and zero-padded on
// demand when matrices are requested; solving never mutates the registry.
type Processes struct {
	entries   []processEntry
	hasBounds bool
}

// NewProcesses returns an empty process registry.
func NewProcesses() *Processes {
	return &Processes{entries: make([]processEntry, 0)}
}

// Create appends a process with the given resource quantities.
// Stage 1 (Validate): at least one entry, ranges ordered and containing the
// point value.
// Stage 2 (Prepare): allocate vectors sized to the highest referenced
// resource index.
// Stage 3 (Finalize): append and return the handle.
func (ps *Processes) Create(name string, entries ...Entry) (Process, error) {
	if len(entries) == 0 {
		return Process{}, fmt.Errorf("process %q: %w", name, ErrNoEntries)
	}
	maxIdx := 0
	for _, e := range entries {
		if e.ranged && (e.lower > e.upper || e.value < e.lower || e.value > e.upper) {
			return Process{}, fmt.Errorf("process %q, resource %q [%g, %g] around %g: %w",
				name, e.res.Name(), e.lower, e.upper, e.value, ErrBadRange)
		}
		if e.res.idx > maxIdx {
			maxIdx = e.res.idx
		}
	}

	produces := make([]float64, maxIdx+1)
	lower := make([]float64, maxIdx+1)
	upper := make([]float64, maxIdx+1)
	for _, e := range entries {
		produces[e.res.idx] = e.value
		lower[e.res.idx] = e.lower
		upper[e.res.idx] = e.upper
		if e.ranged {
			ps.hasBounds = true
		}
	}
	ps.entries = append(ps.entries, processEntry{
		name:     name,
		produces: produces,
		lower:    lower,
		upper:    upper,
	})

	return Process{idx: len(ps.entries) - 1, reg: ps}, nil
}

// Len returns the number of registered processes.
func (ps *Processes) Len() int { return len(ps.entries) }

// HasBounds reports whether any process declared a Ranged quantity, i.e.
// whether the model operates in interval mode.
func (ps *Processes) HasBounds() bool { return ps.hasBounds }

// Get returns the handle at index i or ErrIndexRange.
func (ps *Processes) Get(i int) (Process, error) {
	if i < 0 || i >= len(ps.entries) {
		return Process{}, fmt.Errorf("processes[%d]: %w", i, ErrIndexRange)
	}

	return Process{idx: i, reg: ps}, nil
}

// ByName returns the uniquely named process, ErrUnknownName or
// ErrAmbiguousName otherwise.
func (ps *Processes) ByName(name string) (Process, error) {
	found := -1
	for i, e := range ps.entries {
		if e.name != name {
			continue
		}
		if found >= 0 {
			return Process{}, fmt.Errorf("process %q: %w", name, ErrAmbiguousName)
		}
		found = i
	}
	if found < 0 {
		return Process{}, fmt.Errorf("process %q: %w", name, ErrUnknownName)
	}

	return Process{idx: found, reg: ps}, nil
}

// All returns handles for every registered process in index order.
func (ps *Processes) All() []Process {
	out := make([]Process, len(ps.entries))
	for i := range ps.entries {
		out[i] = Process{idx: i, reg: ps}
	}

	return out
}

// ProductionVectors returns one fresh production row per process, each
// zero-padded to nRes resources. Callers own the result; the registry's
// stored vectors are never exposed or resized.
func (ps *Processes) ProductionVectors(nRes int) [][]float64 {
	return ps.padded(nRes, func(e processEntry) []float64 { return e.produces })
}

// LowerVectors is ProductionVectors for the interval lower bounds.
func (ps *Processes) LowerVectors(nRes int) [][]float64 {
	return ps.padded(nRes, func(e processEntry) []float64 { return e.lower })
}

// UpperVectors is ProductionVectors for the interval upper bounds.
func (ps *Processes) UpperVectors(nRes int) [][]float64 {
	return ps.padded(nRes, func(e processEntry) []float64 { return e.upper })
}

func (ps *Processes) padded(nRes int, pick func(processEntry) []float64) [][]float64 {
	out := make([][]float64, len(ps.entries))
	for i, e := range ps.entries {
		row := make([]float64, nRes)
		copy(row, pick(e))
		out[i] = row
	}

	return out
}
