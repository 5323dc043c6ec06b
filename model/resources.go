// SPDX-License-Identifier: MIT

package model

import "fmt"

// DefaultUnit is the unit assigned to resources created without one.
const DefaultUnit = "ea"

// Resource is a stable handle into a Resources registry. The zero value is
// not valid; obtain handles from Create, Get or ByName.
type Resource struct {
	idx int
	reg *Resources
}

// Index returns the registry index assigned at creation.
func (r Resource) Index() int { return r.idx }

// Name returns the resource name.
func (r Resource) Name() string { return r.reg.entries[r.idx].name }

// Unit returns the unit of account for the resource (DefaultUnit unless set).
func (r Resource) Unit() string { return r.reg.entries[r.idx].unit }

// String implements fmt.Stringer.
func (r Resource) String() string { return r.Name() }

type resourceEntry struct {
	name string
	unit string
}

// Resources is an append-only, ordered registry of resources. Entries are
// immutable once created; indices are assigned sequentially. The zero value
// is not usable — construct with NewResources so storage is always scoped to
// the registry instance.
type Resources struct {
	entries []resourceEntry
}

// NewResources returns an empty resource registry.
func NewResources() *Resources {
	return &Resources{entries: make([]resourceEntry, 0)}
}

// Create appends a resource and returns its handle. An empty unit defaults
// to DefaultUnit. Names need not be unique; ByName rejects ambiguity.
func (rs *Resources) Create(name, unit string) Resource {
	if unit == "" {
		unit = DefaultUnit
	}
	rs.entries = append(rs.entries, resourceEntry{name: name, unit: unit})

	return Resource{idx: len(rs.entries) - 1, reg: rs}
}

// Len returns the number of registered resources.
func (rs *Resources) Len() int { return len(rs.entries) }

// Get returns the handle at index i or ErrIndexRange.
func (rs *Resources) Get(i int) (Resource, error) {
	if i < 0 || i >= len(rs.entries) {
		return Resource{}, fmt.Errorf("resources[%d]: %w", i, ErrIndexRange)
	}

	return Resource{idx: i, reg: rs}, nil
}

// ByName returns the uniquely named resource. Zero matches yield
// ErrUnknownName; more than one match yields ErrAmbiguousName.
func (rs *Resources) ByName(name string) (Resource, error) {
	found := -1
	for i, e := range rs.entries {
		if e.name != name {
			continue
		}
		if found >= 0 {
			return Resource{}, fmt.Errorf("resource %q: %w", name, ErrAmbiguousName)
		}
		found = i
	}
	if found < 0 {
		return Resource{}, fmt.Errorf("resource %q: %w", name, ErrUnknownName)
	}

	return Resource{idx: found, reg: rs}, nil
}

// All returns handles for every registered resource in index order.
func (rs *Resources) All() []Resource {
	out := make([]Resource, len(rs.entries))
	for i := range rs.entries {
		out[i] = Resource{idx: i, reg: rs}
	}

	return out
}
