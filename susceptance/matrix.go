// SPDX-License-Identifier: MIT

package susceptance

import (
	"github.com/katalvlaran/gridsens/matrix"
	"github.com/katalvlaran/gridsens/network"
)

// Topology returns the snapshot the matrix was built from.
func (m *Matrix) Topology() *network.Topology { return m.topo }

// Sparse returns the full n×n B′ (immutable, shared).
func (m *Matrix) Sparse() *matrix.Sparse { return m.full }

// N returns the number of buses (order of the full matrix).
func (m *Matrix) N() int { return m.full.Rows() }

// SlackIndex returns the full-system index of the slack bus.
func (m *Matrix) SlackIndex() int { return m.slack }

// BusIDs returns the bus IDs in full-system index order.
func (m *Matrix) BusIDs() []string { return m.topo.BusIDs() }

// BranchIDs returns the participating branch IDs in stamp order.
func (m *Matrix) BranchIDs() []string { return m.topo.BranchIDs() }

// BusIndex returns the full-system index of bus id.
func (m *Matrix) BusIndex(id string) (int, bool) { return m.topo.BusIndex(id) }

// At returns B′[i][j] of the full matrix.
func (m *Matrix) At(i, j int) (float64, error) { return m.full.At(i, j) }

// NNZ returns the stored entry count of the full matrix.
func (m *Matrix) NNZ() int { return m.full.NNZ() }

// Density returns NNZ / n².
func (m *Matrix) Density() float64 { return m.full.Density() }

// Reduced returns a copy of the slack-removed (n−1)×(n−1) system.
func (m *Matrix) Reduced() *matrix.Dense { return m.reduced.Clone().(*matrix.Dense) }

// ReducedView exposes the shared reduced system without copying.
// Callers must not type-assert it back to *matrix.Dense and mutate it.
func (m *Matrix) ReducedView() matrix.Reader { return m.reduced }

// ReducedIndex maps a full-system bus index to its reduced index.
// ok is false for the slack bus and for out-of-range indices.
func (m *Matrix) ReducedIndex(full int) (int, bool) {
	switch {
	case full < 0 || full >= m.N() || full == m.slack:
		return -1, false
	case full > m.slack:
		return full - 1, true
	default:
		return full, true
	}
}

// FullIndex maps a reduced index back to the full-system bus index.
func (m *Matrix) FullIndex(reduced int) int {
	if reduced >= m.slack {
		return reduced + 1
	}

	return reduced
}

// BranchTerminals returns the full-system terminal indices of branch id and
// its susceptance b = 1/x_eff (after clamping).
func (m *Matrix) BranchTerminals(id string) (from, to int, b float64, ok bool) {
	k, ok := m.topo.BranchIndex(id)
	if !ok {
		return -1, -1, 0, false
	}
	from, to = m.topo.Terminals(k)

	return from, to, m.b[k], true
}

// Susceptance returns b_k = 1/x_eff for participating branch index k.
func (m *Matrix) Susceptance(k int) float64 { return m.b[k] }

// Clamped returns the IDs of branches whose reactance was clamped (copy).
func (m *Matrix) Clamped() []string { return append([]string(nil), m.clamped...) }
