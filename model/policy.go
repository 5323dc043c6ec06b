// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math"
)

// shareTolerance bounds how far policy shares may drift from summing to 1.
const shareTolerance = 1e-9

// PolicyElement routes the demand of one consumer, in one resource, across
// an explicit set of producers with fractional shares. Elements are
// validated exhaustively at construction and immutable afterwards.
type PolicyElement struct {
	resource Resource
	consumer Process
	shares   map[int]float64 // producer index → fraction, sums to 1
}

// NewPolicyElement validates and builds one allocation element.
// Rejections: the consumer does not consume the resource (ErrNotConsumer),
// a share routes the consumer to itself (ErrSelfIncidence), shares are
// negative or do not sum to 1 (ErrBadShares), or a producer handle belongs
// to a different registry (ErrRegistryMismatch).
func NewPolicyElement(r Resource, consumer Process, shares map[Process]float64) (PolicyElement, error) {
	if consumer.Production(r) >= 0 {
		return PolicyElement{}, fmt.Errorf("%q via %q: %w", r.Name(), consumer.Name(), ErrNotConsumer)
	}
	total := 0.0
	byIndex := make(map[int]float64, len(shares))
	for producer, share := range shares {
		if producer.registry() != consumer.registry() {
			return PolicyElement{}, ErrRegistryMismatch
		}
		if producer == consumer {
			return PolicyElement{}, fmt.Errorf("%q: %w", consumer.Name(), ErrSelfIncidence)
		}
		if share < 0 {
			return PolicyElement{}, fmt.Errorf("share %g for %q: %w", share, producer.Name(), ErrBadShares)
		}
		byIndex[producer.idx] = share
		total += share
	}
	if math.Abs(total-1) > shareTolerance {
		return PolicyElement{}, fmt.Errorf("shares for %q sum to %g: %w", consumer.Name(), total, ErrBadShares)
	}

	return PolicyElement{resource: r, consumer: consumer, shares: byIndex}, nil
}

// Resource returns the routed resource.
func (e PolicyElement) Resource() Resource { return e.resource }

// Consumer returns the process whose demand the element allocates.
func (e PolicyElement) Consumer() Process { return e.consumer }

// Policy is a validated set of allocation elements, at most one per
// (resource, consumer) pair.
type Policy struct {
	elements []PolicyElement
	index    map[[2]int]map[int]float64 // {resource idx, consumer idx} → shares
}

// NewPolicy assembles elements into a Policy, rejecting duplicate
// (resource, consumer) coverage with ErrDuplicateElement.
func NewPolicy(elements ...PolicyElement) (*Policy, error) {
	index := make(map[[2]int]map[int]float64, len(elements))
	for _, e := range elements {
		key := [2]int{e.resource.idx, e.consumer.idx}
		if _, dup := index[key]; dup {
			return nil, fmt.Errorf("%q via %q: %w", e.resource.Name(), e.consumer.Name(), ErrDuplicateElement)
		}
		index[key] = e.shares
	}

	return &Policy{elements: elements, index: index}, nil
}

// Shares returns the producer-share map covering (resourceIdx, consumerIdx),
// or ok=false when the pair is left to proportional allocation.
func (p *Policy) Shares(resourceIdx, consumerIdx int) (map[int]float64, bool) {
	shares, ok := p.index[[2]int{resourceIdx, consumerIdx}]

	return shares, ok
}

// Elements returns the validated elements in declaration order.
func (p *Policy) Elements() []PolicyElement { return p.elements }
