// SPDX-License-Identifier: MIT

package dcsolver

import (
	"fmt"
	"math"

	"github.com/katalvlaran/gridsens/matrix"
	"github.com/katalvlaran/gridsens/network"
	"github.com/katalvlaran/gridsens/susceptance"
)

// Woodbury tolerances.
const (
	// MinUpdateScalar rejects updates with |c| ≤ MinUpdateScalar.
	MinUpdateScalar = 1e-12

	// MinUpdateDenominator rejects updates with |c⁻¹ + vᵀA⁻¹u| < MinUpdateDenominator.
	MinUpdateDenominator = 1e-12
)

const (
	opBranchOutage    = "dcsolver.BranchOutage"
	opSolveWithUpdate = "dcsolver.SolveWithUpdate"
	opWithUpdate      = "dcsolver.WithUpdate"
)

// WoodburyUpdate is the rank-one change A' = A + c·u·vᵀ of the reduced system.
// It is built per contingency and never persisted.
type WoodburyUpdate struct {
	U, V     matrix.SparseVector
	C        float64
	BranchID string // outaged branch, empty for hand-built updates
}

// BranchOutage builds the update that removes branch id from sys:
// u = v = e_from − e_to in reduced indices (slack terminal dropped), c = −b_k.
//
// Errors:
//   - ErrNilSystem; network.ErrUnknownBranch for non-participating IDs.
func BranchOutage(sys *susceptance.Matrix, id string) (WoodburyUpdate, error) {
	if sys == nil {
		return WoodburyUpdate{}, fmt.Errorf("%s: %w", opBranchOutage, ErrNilSystem)
	}
	from, to, b, ok := sys.BranchTerminals(id)
	if !ok {
		return WoodburyUpdate{}, fmt.Errorf("%s: branch %q: %w", opBranchOutage, id, network.ErrUnknownBranch)
	}

	idx := make([]int, 0, 2)
	val := make([]float64, 0, 2)
	if r, ok := sys.ReducedIndex(from); ok {
		idx, val = append(idx, r), append(val, 1)
	}
	if r, ok := sys.ReducedIndex(to); ok {
		idx, val = append(idx, r), append(val, -1)
	}
	e, err := matrix.NewSparseVector(sys.N()-1, idx, val)
	if err != nil {
		return WoodburyUpdate{}, fmt.Errorf("%s: branch %q: %w", opBranchOutage, id, err)
	}

	return WoodburyUpdate{U: e, V: e, C: -b, BranchID: id}, nil
}

// prepared is a validated update with A⁻¹u and the denominator cached.
type prepared struct {
	upd   WoodburyUpdate
	ainvU []float64
	denom float64
}

// IncrementalSolver applies Woodbury corrections on top of a base Solver.
// A solver built by WithUpdate represents the updated operator itself, so
// updates compose. Immutable; safe for concurrent use.
type IncrementalSolver struct {
	base    Solver
	upd     *prepared       // nil for the plain base operator
	outaged map[string]bool // branch IDs removed along the chain
}

// NewIncrementalSolver wraps base (typically a *Factorization).
func NewIncrementalSolver(base Solver) *IncrementalSolver {
	return &IncrementalSolver{base: base, outaged: map[string]bool{}}
}

// Dim returns the order of the reduced system.
func (s *IncrementalSolver) Dim() int { return s.base.Dim() }

// Outaged reports whether branch id was removed by a composed update.
func (s *IncrementalSolver) Outaged(id string) bool { return s.outaged[id] }

// Depth returns the number of composed updates.
func (s *IncrementalSolver) Depth() int { return len(s.outaged) }

// Solve solves with the current operator: the base one, or the base with
// every composed update applied.
func (s *IncrementalSolver) Solve(p []float64) ([]float64, error) {
	y, err := s.base.Solve(p)
	if err != nil {
		return nil, err
	}
	if s.upd == nil {
		return y, nil
	}

	return s.upd.apply(y)
}

// SolveWithUpdate solves (A + c·u·vᵀ)·x = p for the current operator A
// without refactoring: two O(n²) solves.
//
// Errors:
//   - matrix.ErrDimensionMismatch for an update of the wrong dimension.
//   - ErrSingularUpdate (*SingularUpdateError) for |c| ≤ MinUpdateScalar or
//     |c⁻¹ + vᵀA⁻¹u| < MinUpdateDenominator.
//   - ErrAlreadyOutaged when u's branch was removed by a composed update.
func (s *IncrementalSolver) SolveWithUpdate(p []float64, u WoodburyUpdate) ([]float64, error) {
	pu, err := s.prepare(u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolveWithUpdate, err)
	}
	y, err := s.Solve(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolveWithUpdate, err)
	}

	return pu.apply(y)
}

// WithUpdate returns a new solver for A + c·u·vᵀ. A⁻¹u and the denominator
// are computed once here and reused by every Solve of the returned solver.
// The receiver is unchanged.
//
// Errors: as SolveWithUpdate.
func (s *IncrementalSolver) WithUpdate(u WoodburyUpdate) (*IncrementalSolver, error) {
	pu, err := s.prepare(u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opWithUpdate, err)
	}
	out := make(map[string]bool, len(s.outaged)+1)
	for id := range s.outaged {
		out[id] = true
	}
	if u.BranchID != "" {
		out[u.BranchID] = true
	}

	return &IncrementalSolver{base: s, upd: pu, outaged: out}, nil
}

// SolveFull is Solve on full-length injections/angles of sys.
func (s *IncrementalSolver) SolveFull(sys *susceptance.Matrix, p []float64) ([]float64, error) {
	return solveFull(s, sys, p)
}

// prepare validates u against the current operator and caches A⁻¹u.
func (s *IncrementalSolver) prepare(u WoodburyUpdate) (*prepared, error) {
	n := s.Dim()
	if u.U.Dim() != n || u.V.Dim() != n {
		return nil, fmt.Errorf("update dim %d/%d vs %d: %w", u.U.Dim(), u.V.Dim(), n, matrix.ErrDimensionMismatch)
	}
	if u.BranchID != "" && s.outaged[u.BranchID] {
		return nil, fmt.Errorf("branch %q: %w", u.BranchID, ErrAlreadyOutaged)
	}
	if math.Abs(u.C) <= MinUpdateScalar {
		return nil, &SingularUpdateError{BranchID: u.BranchID, C: u.C, Denominator: math.NaN()}
	}

	ainvU, err := s.Solve(u.U.Dense())
	if err != nil {
		return nil, err
	}
	vAu, err := u.V.DotDense(ainvU)
	if err != nil {
		return nil, err
	}
	denom := 1/u.C + vAu
	if math.Abs(denom) < MinUpdateDenominator {
		return nil, &SingularUpdateError{BranchID: u.BranchID, C: u.C, Denominator: denom}
	}

	return &prepared{upd: u, ainvU: ainvU, denom: denom}, nil
}

// apply turns y = A⁻¹p into x = y − [(vᵀy)/denom]·A⁻¹u, in place.
func (pu *prepared) apply(y []float64) ([]float64, error) {
	vy, err := pu.upd.V.DotDense(y)
	if err != nil {
		return nil, err
	}
	alpha := vy / pu.denom
	for i := range y {
		y[i] -= alpha * pu.ainvU[i]
	}

	return y, nil
}
