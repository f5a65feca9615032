// SPDX-License-Identifier: MIT

package dcsolver

import (
	"fmt"

	"github.com/katalvlaran/gridsens/matrix"
	"github.com/katalvlaran/gridsens/network"
	"github.com/katalvlaran/gridsens/susceptance"
)

const (
	opInjectionVector   = "dcsolver.InjectionVector"
	opReducedInjections = "dcsolver.ReducedInjections"
	opExpandAngles      = "dcsolver.ExpandAngles"
	opBranchFlows       = "dcsolver.BranchFlows"
)

// InjectionVector converts bus-ID keyed net injections (generation positive)
// into a full-length vector in bus index order. Missing buses inject 0.
//
// Errors:
//   - ErrNilSystem; network.ErrUnknownBus for IDs not in service.
func InjectionVector(sys *susceptance.Matrix, byBus map[string]float64) ([]float64, error) {
	if sys == nil {
		return nil, fmt.Errorf("%s: %w", opInjectionVector, ErrNilSystem)
	}
	p := make([]float64, sys.N())
	for id, v := range byBus {
		i, ok := sys.BusIndex(id)
		if !ok {
			return nil, fmt.Errorf("%s: bus %q: %w", opInjectionVector, id, network.ErrUnknownBus)
		}
		p[i] = v
	}

	return p, nil
}

// ReducedInjections drops the slack entry of a full-length vector.
//
// Errors:
//   - matrix.ErrDimensionMismatch when len(full) != N().
func ReducedInjections(sys *susceptance.Matrix, full []float64) ([]float64, error) {
	if err := matrix.ValidateVecLen(full, sys.N()); err != nil {
		return nil, fmt.Errorf("%s: %w", opReducedInjections, err)
	}
	s := sys.SlackIndex()
	out := make([]float64, 0, len(full)-1)
	out = append(out, full[:s]...)

	return append(out, full[s+1:]...), nil
}

// ExpandAngles re-inserts the slack angle (0) into a reduced vector.
//
// Errors:
//   - matrix.ErrDimensionMismatch when len(reduced) != N()−1.
func ExpandAngles(sys *susceptance.Matrix, reduced []float64) ([]float64, error) {
	if err := matrix.ValidateVecLen(reduced, sys.N()-1); err != nil {
		return nil, fmt.Errorf("%s: %w", opExpandAngles, err)
	}
	s := sys.SlackIndex()
	out := make([]float64, sys.N())
	copy(out, reduced[:s])
	copy(out[s+1:], reduced[s:])

	return out, nil
}

// BranchFlows returns the DC flow (θ_from − θ_to)·b_k of every participating
// branch of sys for full-length angles, keyed by branch ID. Positive flow
// runs From→To.
//
// Errors:
//   - matrix.ErrDimensionMismatch when len(angles) != N().
func BranchFlows(sys *susceptance.Matrix, angles []float64) (map[string]float64, error) {
	if err := matrix.ValidateVecLen(angles, sys.N()); err != nil {
		return nil, fmt.Errorf("%s: %w", opBranchFlows, err)
	}
	topo := sys.Topology()
	out := make(map[string]float64, topo.NumBranches())
	for k := 0; k < topo.NumBranches(); k++ {
		i, j := topo.Terminals(k)
		out[topo.BranchAt(k).ID] = (angles[i] - angles[j]) * sys.Susceptance(k)
	}

	return out, nil
}
