// SPDX-License-Identifier: MIT

package susceptance

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/gridsens/matrix"
	"github.com/katalvlaran/gridsens/network"
)

const opBuild = "susceptance.Build"

var (
	// ErrZeroReactance is the TopologyError reason for a near-zero effective
	// reactance under WithStrictReactance.
	ErrZeroReactance = errors.New("susceptance: effective reactance below epsilon")

	// ErrNilTopology indicates Build was called without a topology.
	ErrNilTopology = errors.New("susceptance: nil topology")
)

// Matrix is the immutable bus susceptance matrix of one topology snapshot.
type Matrix struct {
	topo    *network.Topology
	full    *matrix.Sparse // n×n B′
	reduced *matrix.Dense  // (n−1)×(n−1), slack row/col removed
	slack   int

	b       []float64 // per participating branch: 1/x_eff (after clamping)
	clamped []string  // branch IDs whose reactance was clamped
}

// Build assembles B′ for topo.
//
// Implementation:
//   - Stage 1: compute x_eff per participating branch; clamp or reject when
//     |x_eff| < eps.
//   - Stage 2: stamp four triplets per branch in supplied order and compress
//     (deterministic duplicate summation, bit-identical rebuilds).
//   - Stage 3: drop the slack row/column into the dense reduced system.
//
// Errors:
//   - ErrNilTopology.
//   - *network.TopologyError: ErrTooFewBuses, ErrNoBranches (zero-value
//     topology), ErrZeroReactance (strict mode).
//
// Complexity:
//   - Time O(L log L + n²), Space O(L + n²).
func Build(topo *network.Topology, opts ...Option) (*Matrix, error) {
	if topo == nil {
		return nil, fmt.Errorf("%s: %w", opBuild, ErrNilTopology)
	}
	n, l := topo.NumBuses(), topo.NumBranches()
	if n < 2 {
		return nil, &network.TopologyError{Op: opBuild, Err: network.ErrTooFewBuses}
	}
	if l == 0 {
		return nil, &network.TopologyError{Op: opBuild, Err: network.ErrNoBranches}
	}
	o := gatherOptions(opts)

	m := &Matrix{topo: topo, slack: topo.SlackIndex(), b: make([]float64, l)}

	// Stage 1: effective susceptances.
	for k := 0; k < l; k++ {
		br := topo.BranchAt(k)
		x := br.EffectiveReactance()
		if math.Abs(x) < o.eps {
			if o.strict {
				return nil, &network.TopologyError{Op: opBuild, Element: br.ID, Err: ErrZeroReactance}
			}
			x = matrix.ClampMagnitude(x, o.eps)
			m.clamped = append(m.clamped, br.ID)
		}
		m.b[k] = 1.0 / x
	}

	// Stage 2: stamps.
	tr, err := matrix.NewTriplets(n, n, 4*l)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	for k := 0; k < l; k++ {
		i, j := topo.Terminals(k)
		b := m.b[k]
		for _, s := range [4]struct {
			r, c int
			v    float64
		}{{i, i, b}, {j, j, b}, {i, j, -b}, {j, i, -b}} {
			if err = tr.Add(s.r, s.c, s.v); err != nil {
				return nil, fmt.Errorf("%s: branch %q: %w", opBuild, topo.BranchAt(k).ID, err)
			}
		}
	}
	m.full = tr.Compress()

	// Stage 3: reduced system.
	red, err := m.full.Drop(m.slack)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	m.reduced = red.ToDense()

	return m, nil
}
