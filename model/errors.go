// SPDX-License-Identifier: MIT
// Package model: sentinel error set.
// All constructors and lookups return these sentinels (possibly wrapped with
// fmt.Errorf("...: %w", ErrX) for context); tests match them via errors.Is.
// Nothing in this package panics on user input.

package model

import "errors"

var (
	// ErrUnknownName indicates a ByName lookup matched no entry.
	ErrUnknownName = errors.New("model: no entry with that name")

	// ErrAmbiguousName indicates a ByName lookup matched more than one entry;
	// disambiguate with an index lookup instead.
	ErrAmbiguousName = errors.New("model: name is not unique, use index lookup")

	// ErrIndexRange indicates a Get index outside the registry.
	ErrIndexRange = errors.New("model: index out of range")

	// ErrNoEntries indicates a process was declared without any resource
	// quantities. Every process must touch at least one resource.
	ErrNoEntries = errors.New("model: process has no resource entries")

	// ErrBadRange indicates a Ranged quantity whose lower bound exceeds its
	// upper bound, or whose point value falls outside [lower, upper].
	ErrBadRange = errors.New("model: invalid quantity range")

	// ErrRegistryMismatch indicates an attempt to combine expressions, or
	// processes referenced by one constraint, that are rooted in different
	// Processes registries.
	ErrRegistryMismatch = errors.New("model: terms rooted in different registries")

	// ErrResourceNotUsed indicates a constraint referenced a resource that
	// the named process neither produces nor consumes.
	ErrResourceNotUsed = errors.New("model: resource not used by process")

	// ErrNotConsumer indicates a policy element whose consumer does not
	// consume the routed resource.
	ErrNotConsumer = errors.New("model: policy consumer does not consume resource")

	// ErrSelfIncidence indicates a policy element routing a process's demand
	// back to the process itself.
	ErrSelfIncidence = errors.New("model: policy routes a process to itself")

	// ErrBadShares indicates policy shares that are negative or do not sum
	// to one within tolerance.
	ErrBadShares = errors.New("model: policy shares must be non-negative and sum to 1")

	// ErrDuplicateElement indicates two policy elements covering the same
	// (resource, consumer) pair.
	ErrDuplicateElement = errors.New("model: duplicate policy element")
)
