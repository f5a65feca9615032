// SPDX-License-Identifier: MIT

package dcsolver

import (
	"fmt"

	"github.com/katalvlaran/gridsens/matrix"
	"github.com/katalvlaran/gridsens/susceptance"
)

// Operation tags for error wrapping.
const (
	opFactorize     = "dcsolver.Factorize"
	opSolve         = "dcsolver.Solve"
	opSolveFull     = "dcsolver.SolveFull"
	opInverseColumn = "dcsolver.InverseColumn"
	opCondition     = "dcsolver.ConditionEstimate"
)

// Solver solves the reduced system of one (possibly updated) operator.
// *Factorization and *IncrementalSolver implement it.
type Solver interface {
	// Dim is the order of the reduced system (buses − 1).
	Dim() int
	// Solve returns x with A·x = b for a reduced-length b.
	Solve(b []float64) ([]float64, error)
}

var (
	_ Solver = (*Factorization)(nil)
	_ Solver = (*IncrementalSolver)(nil)
)

// Factorization is the cached LU factorization of one reduced B′.
type Factorization struct {
	sys *susceptance.Matrix
	lu  *matrix.LUFactors
}

// Factorize factors the reduced system of sys.
//
// Errors:
//   - ErrNilSystem.
//   - matrix.ErrSingular (as *matrix.SingularError) when a pivot falls below
//     threshold: the network is disconnected or part of it is unobservable.
//
// Complexity: O(n³) time, O(n²) space.
func Factorize(sys *susceptance.Matrix, opts ...matrix.LUOption) (*Factorization, error) {
	if sys == nil {
		return nil, fmt.Errorf("%s: %w", opFactorize, ErrNilSystem)
	}
	lu, err := matrix.FactorizeLU(sys.ReducedView(), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opFactorize, err)
	}

	return &Factorization{sys: sys, lu: lu}, nil
}

// System returns the susceptance matrix that was factored.
func (f *Factorization) System() *susceptance.Matrix { return f.sys }

// Dim returns n−1.
func (f *Factorization) Dim() int { return f.lu.Dim() }

// MinPivot returns the smallest pivot magnitude accepted during factorization.
func (f *Factorization) MinPivot() float64 { return f.lu.MinPivot() }

// ConditionEstimate returns the 1-norm condition estimate of the reduced B′.
// It refactors the system independently of the cached factors. O(n³).
func (f *Factorization) ConditionEstimate() (float64, error) {
	cond, err := matrix.ConditionEstimate(f.sys.ReducedView())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opCondition, err)
	}

	return cond, nil
}

// Solve returns reduced angles for reduced injections b. O(n²).
func (f *Factorization) Solve(b []float64) ([]float64, error) {
	x, err := f.lu.Solve(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolve, err)
	}

	return x, nil
}

// SolveFull takes full-length injections (slack entry ignored) and returns
// full-length angles with the slack angle exactly 0.
func (f *Factorization) SolveFull(p []float64) ([]float64, error) {
	return solveFull(f, f.sys, p)
}

// InverseColumn returns column fullBus of X, the reduced inverse embedded in
// full size with slack row and column held at zero.
//
// Errors:
//   - matrix.ErrOutOfRange for a bus index outside [0, n).
func (f *Factorization) InverseColumn(fullBus int) ([]float64, error) {
	n := f.sys.N()
	if fullBus < 0 || fullBus >= n {
		return nil, fmt.Errorf("%s: bus %d: %w", opInverseColumn, fullBus, matrix.ErrOutOfRange)
	}
	r, ok := f.sys.ReducedIndex(fullBus)
	if !ok {
		return make([]float64, n), nil // slack column
	}
	e := make([]float64, f.Dim())
	e[r] = 1
	x, err := f.lu.Solve(e)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opInverseColumn, err)
	}

	return ExpandAngles(f.sys, x)
}

// solveFull reduces p, solves with s and expands the result.
func solveFull(s Solver, sys *susceptance.Matrix, p []float64) ([]float64, error) {
	red, err := ReducedInjections(sys, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolveFull, err)
	}
	x, err := s.Solve(red)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSolveFull, err)
	}

	return ExpandAngles(sys, x)
}
