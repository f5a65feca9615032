// SPDX-License-Identifier: MIT

package network

import "math"

// Operation tags used in TopologyError.Op.
const (
	opNewTopology     = "NewTopology"
	opWithoutBranches = "WithoutBranches"
)

// arc is one half of an undirected in-service branch in the adjacency list.
type arc struct {
	to     int // neighbor bus index
	branch int // participating branch index
}

// Topology is an immutable, validated snapshot of buses and branches with a
// designated slack bus. All methods are safe for concurrent use.
type Topology struct {
	// supplied input (copied)
	allBuses    []Bus
	allBranches []Branch
	allBranch   map[string]int // branch ID → position in allBranches

	// participating elements, dense indices
	buses    []Bus          // in-service buses in order of appearance
	busIdx   map[string]int // bus ID → dense index
	branches []Branch       // participating branches in supplied order
	brIdx    map[string]int // branch ID → participating index
	from, to []int          // terminal bus indices per participating branch
	adj      [][]arc        // undirected adjacency over participating branches

	slack int
	opts  options
}

// NewTopology validates the bus and branch records and builds a snapshot.
//
// Implementation:
//   - Stage 1: index buses (empty/duplicate IDs rejected), number the in-service ones.
//   - Stage 2: validate every branch (IDs, endpoints, self-loops, reactance);
//     keep those in service with both endpoints in service.
//   - Stage 3: resolve the slack (first in-service bus when slackID == "").
//   - Stage 4: optional connectivity check (WithRequireConnected).
//
// Errors (all *TopologyError, errors.Is(err, ErrTopology)):
//   - ErrEmptyID, ErrDuplicateID, ErrTooFewBuses, ErrUnknownBus, ErrSelfLoop,
//     ErrInvalidReactance, ErrNoBranches, ErrSlackOutOfService, ErrIslanded.
//
// Complexity:
//   - Time O(B + L), Space O(B + L).
func NewTopology(buses []Bus, branches []Branch, slackID string, opts ...Option) (*Topology, error) {
	t := &Topology{
		allBuses:    append([]Bus(nil), buses...),
		allBranches: append([]Branch(nil), branches...),
		allBranch:   make(map[string]int, len(branches)),
		busIdx:      make(map[string]int, len(buses)),
		brIdx:       make(map[string]int, len(branches)),
		opts:        gatherOptions(opts),
	}

	// Stage 1: buses.
	status := make(map[string]bool, len(buses)) // ID → in service
	for _, b := range t.allBuses {
		if b.ID == "" {
			return nil, topologyErrorf(opNewTopology, "", ErrEmptyID)
		}
		if _, dup := status[b.ID]; dup {
			return nil, topologyErrorf(opNewTopology, b.ID, ErrDuplicateID)
		}
		status[b.ID] = b.InService
		if b.InService {
			t.busIdx[b.ID] = len(t.buses)
			t.buses = append(t.buses, b)
		}
	}
	if len(t.buses) < 2 {
		return nil, topologyErrorf(opNewTopology, "", ErrTooFewBuses)
	}

	// Stage 2: branches.
	for k, br := range t.allBranches {
		if err := validateBranch(br, status); err != nil {
			return nil, topologyErrorf(opNewTopology, br.ID, err)
		}
		if _, dup := t.allBranch[br.ID]; dup {
			return nil, topologyErrorf(opNewTopology, br.ID, ErrDuplicateID)
		}
		t.allBranch[br.ID] = k
		if !br.InService || !status[br.From] || !status[br.To] {
			continue
		}
		t.brIdx[br.ID] = len(t.branches)
		t.branches = append(t.branches, br)
		t.from = append(t.from, t.busIdx[br.From])
		t.to = append(t.to, t.busIdx[br.To])
	}
	if len(t.branches) == 0 {
		return nil, topologyErrorf(opNewTopology, "", ErrNoBranches)
	}

	// Stage 3: slack.
	switch inService, known := status[slackID]; {
	case slackID == "":
		t.slack = 0
	case !known:
		return nil, topologyErrorf(opNewTopology, slackID, ErrUnknownBus)
	case !inService:
		return nil, topologyErrorf(opNewTopology, slackID, ErrSlackOutOfService)
	default:
		t.slack = t.busIdx[slackID]
	}

	t.adj = make([][]arc, len(t.buses))
	for k := range t.branches {
		i, j := t.from[k], t.to[k]
		t.adj[i] = append(t.adj[i], arc{to: j, branch: k})
		t.adj[j] = append(t.adj[j], arc{to: i, branch: k})
	}

	// Stage 4: connectivity.
	if t.opts.requireConnected && !t.IsConnected() {
		return nil, topologyErrorf(opNewTopology, "", ErrIslanded)
	}

	return t, nil
}

// validateBranch checks identifiers, endpoints and numeric fields of br.
func validateBranch(br Branch, status map[string]bool) error {
	if br.ID == "" {
		return ErrEmptyID
	}
	if _, ok := status[br.From]; !ok {
		return ErrUnknownBus
	}
	if _, ok := status[br.To]; !ok {
		return ErrUnknownBus
	}
	if br.From == br.To {
		return ErrSelfLoop
	}
	if math.IsNaN(br.Reactance) || math.IsInf(br.Reactance, 0) {
		return ErrInvalidReactance
	}
	if br.TapRatio < 0 || math.IsNaN(br.TapRatio) || math.IsInf(br.TapRatio, 0) {
		return ErrInvalidReactance
	}

	return nil
}

// NumBuses returns the number of in-service buses.
func (t *Topology) NumBuses() int { return len(t.buses) }

// NumBranches returns the number of participating branches.
func (t *Topology) NumBranches() int { return len(t.branches) }

// Slack returns the slack bus ID.
func (t *Topology) Slack() string { return t.buses[t.slack].ID }

// SlackIndex returns the dense index of the slack bus.
func (t *Topology) SlackIndex() int { return t.slack }

// BusIndex returns the dense index of an in-service bus.
func (t *Topology) BusIndex(id string) (int, bool) {
	i, ok := t.busIdx[id]

	return i, ok
}

// BranchIndex returns the dense index of a participating branch.
func (t *Topology) BranchIndex(id string) (int, bool) {
	k, ok := t.brIdx[id]

	return k, ok
}

// BusIDs returns the in-service bus IDs in index order (copy).
func (t *Topology) BusIDs() []string {
	out := make([]string, len(t.buses))
	for i, b := range t.buses {
		out[i] = b.ID
	}

	return out
}

// BranchIDs returns the participating branch IDs in supplied order (copy).
func (t *Topology) BranchIDs() []string {
	out := make([]string, len(t.branches))
	for k, br := range t.branches {
		out[k] = br.ID
	}

	return out
}

// Branch returns the record of any supplied branch, participating or not.
func (t *Topology) Branch(id string) (Branch, bool) {
	k, ok := t.allBranch[id]
	if !ok {
		return Branch{}, false
	}

	return t.allBranches[k], true
}

// BranchAt returns the participating branch with dense index k.
// k must be in [0, NumBranches()).
func (t *Topology) BranchAt(k int) Branch { return t.branches[k] }

// Terminals returns the dense bus indices of participating branch k.
// k must be in [0, NumBranches()).
func (t *Topology) Terminals(k int) (from, to int) { return t.from[k], t.to[k] }

// Buses returns every supplied bus record (copy).
func (t *Topology) Buses() []Bus { return append([]Bus(nil), t.allBuses...) }

// Branches returns every supplied branch record (copy).
func (t *Topology) Branches() []Branch { return append([]Branch(nil), t.allBranches...) }

// WithoutBranches returns a new snapshot with the given branches taken out of
// service. The receiver is unchanged; slack and options carry over.
//
// Errors:
//   - ErrUnknownBranch for IDs never supplied.
//   - Any NewTopology error of the derived snapshot (e.g. ErrNoBranches,
//     or ErrIslanded under WithRequireConnected).
//
// Complexity: O(B + L).
func (t *Topology) WithoutBranches(ids ...string) (*Topology, error) {
	branches := t.Branches()
	for _, id := range ids {
		k, ok := t.allBranch[id]
		if !ok {
			return nil, topologyErrorf(opWithoutBranches, id, ErrUnknownBranch)
		}
		branches[k].InService = false
	}

	opts := make([]Option, 0, 1)
	if t.opts.requireConnected {
		opts = append(opts, WithRequireConnected())
	}

	return NewTopology(t.allBuses, branches, t.Slack(), opts...)
}
