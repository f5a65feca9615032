// SPDX-License-Identifier: MIT

// Package network defines the bus/branch records consumed by the DC solvers
// and the immutable Topology snapshot built from them.
//
// A Topology fixes, once and for all:
//
//   - the dense bus numbering (order of appearance among in-service buses),
//   - the participating branches (in service, both endpoints in service),
//   - the single slack (reference) bus.
//
// Every downstream artifact (B′, factorization, PTDF, LODF) is indexed through
// the lookup tables of one Topology and is rebuilt when the topology changes.
// WithoutBranches derives a new snapshot for exact post-outage re-solves; the
// receiver is never mutated.
//
// Islands and Bridges run breadth-first and depth-first walks over the
// in-service branches to pre-classify outages that split the network.
//
// Errors:
//
//	ErrTopology          - umbrella sentinel matched by every TopologyError.
//	ErrTooFewBuses       - fewer than 2 in-service buses.
//	ErrNoBranches        - no in-service branch connects two in-service buses.
//	ErrUnknownBus        - branch endpoint or slack not among the buses.
//	ErrUnknownBranch     - branch ID not part of the topology.
//	ErrDuplicateID       - repeated bus or branch identifier.
//	ErrEmptyID           - empty bus or branch identifier.
//	ErrSelfLoop          - branch with From == To.
//	ErrSlackOutOfService - designated slack bus is out of service.
//	ErrInvalidReactance  - non-finite reactance or invalid tap ratio.
//	ErrIslanded          - WithRequireConnected and the network is split.
package network
