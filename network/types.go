// SPDX-License-Identifier: MIT

package network

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for topology construction and lookups.
var (
	// ErrTopology is matched by every *TopologyError.
	ErrTopology = errors.New("network: invalid topology")

	// ErrTooFewBuses indicates fewer than two in-service buses.
	ErrTooFewBuses = errors.New("network: fewer than 2 in-service buses")

	// ErrNoBranches indicates that no branch participates in the network.
	ErrNoBranches = errors.New("network: no in-service branches")

	// ErrUnknownBus indicates a reference to a bus that was not supplied.
	ErrUnknownBus = errors.New("network: unknown bus")

	// ErrUnknownBranch indicates a reference to a branch that is not part of the topology.
	ErrUnknownBranch = errors.New("network: unknown branch")

	// ErrDuplicateID indicates a repeated bus or branch identifier.
	ErrDuplicateID = errors.New("network: duplicate identifier")

	// ErrEmptyID indicates an empty bus or branch identifier.
	ErrEmptyID = errors.New("network: empty identifier")

	// ErrSelfLoop indicates a branch whose terminals coincide.
	ErrSelfLoop = errors.New("network: branch connects a bus to itself")

	// ErrSlackOutOfService indicates that the designated slack bus is out of service.
	ErrSlackOutOfService = errors.New("network: slack bus is out of service")

	// ErrInvalidReactance indicates a NaN/Inf reactance or a negative/non-finite tap ratio.
	ErrInvalidReactance = errors.New("network: invalid reactance or tap ratio")

	// ErrIslanded indicates a split network when connectivity was required.
	ErrIslanded = errors.New("network: network is not connected")
)

// TopologyError describes which element of the input made a topology invalid.
// errors.Is matches both ErrTopology and the specific reason in Err.
type TopologyError struct {
	Op      string // operation that failed (NewTopology, WithoutBranches, Build, …)
	Element string // offending bus/branch ID, empty when not element-specific
	Err     error  // specific reason (one of the sentinels above or a wrapped cause)
}

// Error implements error.
func (e *TopologyError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Element != "" {
		b.WriteString(fmt.Sprintf(" %q", e.Element))
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())

	return b.String()
}

// Unwrap exposes both ErrTopology and the specific reason.
func (e *TopologyError) Unwrap() []error { return []error{ErrTopology, e.Err} }

// topologyErrorf builds a *TopologyError for op/element.
func topologyErrorf(op, element string, err error) error {
	return &TopologyError{Op: op, Element: element, Err: err}
}

// Bus is one network node as supplied by the topology source.
type Bus struct {
	// ID uniquely identifies the bus.
	ID string

	// InService excludes the bus (and every branch touching it) when false.
	InService bool
}

// Branch is one line or transformer between two buses.
type Branch struct {
	// ID uniquely identifies the branch.
	ID string

	// From and To are the terminal bus IDs. Positive flow runs From→To.
	From, To string

	// Reactance is the series reactance in per-unit.
	Reactance float64

	// TapRatio scales the reactance of a transformer; 0 means nominal (1.0).
	TapRatio float64

	// InService excludes the branch when false.
	InService bool

	// RatingMW is the thermal limit used by contingency screening; 0 = unlimited.
	RatingMW float64
}

// EffectiveReactance returns Reactance·TapRatio, treating a zero tap as 1.
func (b Branch) EffectiveReactance() float64 {
	tap := b.TapRatio
	if tap == 0 {
		tap = 1
	}

	return b.Reactance * tap
}
