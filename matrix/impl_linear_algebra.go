// SPDX-License-Identifier: MIT
// Package matrix provides the direct linear-algebra kernels used by the
// network solvers: dense matrix–vector products, LU factorization with
// partial row pivoting, repeated triangular solves against cached factors,
// and explicit inversion through those solves.
//
// Purpose:
//   - Factor once (O(n³)), solve many times (O(n²) per right-hand side).
//   - Keep the factors immutable so one *LUFactors can serve any number of
//     concurrent solves; each solve allocates its own workspace.
//
// Notes:
//   - All kernels use the central validators and wrap failures via matrixErrorf.

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial sum value for forward/backward substitution and similar.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMatVec    = "MatVec"
	opLU        = "FactorizeLU"
	opSolve     = "LUFactors.Solve"
	opSolveInto = "LUFactors.SolveInto"
	opInverse   = "Inverse"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// The wrapper keeps a stable "Op: underlying" shape for uniform reporting.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
//   - Keep `tag` to the canonical constants to simplify log/search pipelines.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MatVec computes y = m·x for any Reader.
//
// Implementation:
//   - Stage 1: validate non-nil m and len(x) == Cols.
//   - Stage 2: fast-path on *Dense (flat loop), CSR kernel on *Sparse,
//     generic At fallback otherwise.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, At errors (fallback path).
//
// Complexity:
//   - Time O(r*c) (dense) / O(nnz) (sparse), Space O(r).
func MatVec(m Reader, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	switch t := m.(type) {
	case *Dense:
		y := make([]float64, t.r)
		var i, j, base int
		var sum float64
		for i = 0; i < t.r; i++ {
			sum = ZeroSum
			base = i * t.c
			for j = 0; j < t.c; j++ {
				sum += t.data[base+j] * x[j]
			}
			y[i] = sum
		}

		return y, nil
	case *Sparse:
		return t.MatVec(x)
	}

	// Fallback: generic interface version.
	rows, cols := m.Rows(), m.Cols()
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		sum := ZeroSum
		for j := 0; j < cols; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, matrixErrorf(opMatVec, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			sum += v * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// LUFactors holds the packed factorization P·A = L·U of an n×n matrix.
//
//   - lu stores L strictly below the diagonal (unit diagonal implied) and U on
//     and above it, row-major.
//   - perm[k] is the original row that ended up at position k.
//
// LUFactors is immutable after FactorizeLU returns; Solve/SolveInto only read
// it, so a single value may be shared by any number of goroutines.
type LUFactors struct {
	n         int
	lu        []float64
	perm      []int
	minPivot  float64 // smallest |U[k,k]| accepted
	threshold float64 // effective pivot threshold used during elimination
}

// FactorizeLU computes P·A = L·U with partial (row) pivoting.
//
// Implementation:
//   - Stage 1: validate m (not nil, square); copy it into a flat buffer
//     (fast-path for *Dense and *Sparse, At fallback otherwise).
//   - Stage 2: threshold = max(absTol, relTol·max|a_ij|).
//   - Stage 3: for k = 0..n−1 pick the row with the largest |a_ik|, i ≥ k
//     (first maximum wins for determinism), reject if below threshold, swap,
//     eliminate below the pivot storing multipliers in place.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf (non-finite input).
//   - *SingularError (errors.Is(err, ErrSingular)) when a pivot is too small.
//
// Determinism:
//   - Fixed k→i→j loop order and deterministic tie-breaking.
//
// Complexity:
//   - Time O(n³), Space O(n²).
//
// AI-Hints:
//   - Factor once, then call Solve for every right-hand side.
func FactorizeLU(m Reader, opts ...LUOption) (*LUFactors, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	o := gatherLUOptions(opts)

	n := m.Rows()
	lu, err := flatten(m)
	if err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	if !finite(lu) {
		return nil, matrixErrorf(opLU, ErrNaNInf)
	}

	thr := o.threshold(absMax(lu))
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	var (
		i, j, k, p     int
		best, a, f, pv float64
		baseK, baseI   int
		minPivot       = math.Inf(1)
	)
	for k = 0; k < n; k++ {
		// Pivot search in column k, rows k..n-1.
		p, best = k, math.Abs(lu[k*n+k])
		for i = k + 1; i < n; i++ {
			if a = math.Abs(lu[i*n+k]); a > best {
				p, best = i, a
			}
		}
		if best < thr {
			return nil, matrixErrorf(opLU, &SingularError{Col: k, Pivot: best, Threshold: thr})
		}
		if best < minPivot {
			minPivot = best
		}

		// Row interchange.
		if p != k {
			rowK, rowP := lu[k*n:(k+1)*n], lu[p*n:(p+1)*n]
			for j = 0; j < n; j++ {
				rowK[j], rowP[j] = rowP[j], rowK[j]
			}
			perm[k], perm[p] = perm[p], perm[k]
		}

		// Elimination below the pivot.
		baseK = k * n
		pv = lu[baseK+k]
		for i = k + 1; i < n; i++ {
			baseI = i * n
			f = lu[baseI+k] / pv
			lu[baseI+k] = f // store L multiplier in place
			if f == 0 {
				continue // structurally zero in this column: nothing to update
			}
			for j = k + 1; j < n; j++ {
				lu[baseI+j] -= f * lu[baseK+j]
			}
		}
	}

	return &LUFactors{n: n, lu: lu, perm: perm, minPivot: minPivot, threshold: thr}, nil
}

// flatten copies any square Reader into a fresh row-major buffer.
func flatten(m Reader) ([]float64, error) {
	switch t := m.(type) {
	case *Dense:
		out := make([]float64, len(t.data))
		copy(out, t.data)

		return out, nil
	case *Sparse:
		return t.ToDense().data, nil
	}

	rows, cols := m.Rows(), m.Cols()
	out := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("At(%d,%d): %w", i, j, err)
			}
			out[i*cols+j] = v
		}
	}

	return out, nil
}

// Dim returns the order n of the factored system.
func (f *LUFactors) Dim() int { return f.n }

// MinPivot returns the smallest accepted pivot magnitude.
func (f *LUFactors) MinPivot() float64 { return f.minPivot }

// Threshold returns the effective pivot threshold that was enforced.
func (f *LUFactors) Threshold() float64 { return f.threshold }

// Pivots returns a copy of the row permutation (perm[k] = original row).
func (f *LUFactors) Pivots() []int {
	out := make([]int, f.n)
	copy(out, f.perm)

	return out
}

// Solve returns x with A·x = b using the cached factors.
//
// Errors:
//   - ErrNilMatrix / ErrDimensionMismatch for a bad b; ErrNaNInf for non-finite b.
//
// Complexity:
//   - Time O(n²), Space O(n) (fresh result slice).
func (f *LUFactors) Solve(b []float64) ([]float64, error) {
	x := make([]float64, f.n)
	if err := f.solveInto(x, b); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	return x, nil
}

// SolveInto writes the solution of A·x = b into dst (len n). dst and b may alias.
// Complexity: O(n²), no allocations beyond the permuted copy.
func (f *LUFactors) SolveInto(dst, b []float64) error {
	if err := ValidateVecLen(dst, f.n); err != nil {
		return matrixErrorf(opSolveInto, err)
	}
	if err := f.solveInto(dst, b); err != nil {
		return matrixErrorf(opSolveInto, err)
	}

	return nil
}

// solveInto is the shared triangular-solve kernel.
func (f *LUFactors) solveInto(dst, b []float64) error {
	if err := ValidateVecLen(b, f.n); err != nil {
		return err
	}
	if err := ValidateFiniteVec(b); err != nil {
		return err
	}

	n := f.n
	// Apply the permutation: y = P·b (copy first so dst may alias b).
	y := make([]float64, n)
	for k := 0; k < n; k++ {
		y[k] = b[f.perm[k]]
	}

	var i, j, base int
	var sum float64
	// Forward substitution: L·z = y (unit diagonal).
	for i = 1; i < n; i++ {
		sum = y[i]
		base = i * n
		for j = 0; j < i; j++ {
			sum -= f.lu[base+j] * y[j]
		}
		y[i] = sum
	}
	// Backward substitution: U·x = z.
	for i = n - 1; i >= 0; i-- {
		sum = y[i]
		base = i * n
		for j = i + 1; j < n; j++ {
			sum -= f.lu[base+j] * y[j]
		}
		y[i] = sum / f.lu[base+i]
	}
	copy(dst, y)

	return nil
}

// Inverse materializes A⁻¹ column by column through n solves.
//
// Complexity:
//   - Time O(n³), Space O(n²).
//
// AI-Hints:
//   - Prefer Solve on the columns you actually need; this is for small systems
//     and for dense sensitivity tables.
func (f *LUFactors) Inverse() (*Dense, error) {
	inv, err := NewDense(f.n, f.n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	e := make([]float64, f.n)
	col := make([]float64, f.n)
	for c := 0; c < f.n; c++ {
		e[c] = 1.0
		if err = f.solveInto(col, e); err != nil {
			return nil, matrixErrorf(opInverse, err)
		}
		e[c] = 0.0
		for r := 0; r < f.n; r++ {
			inv.data[r*f.n+c] = col[r]
		}
	}

	return inv, nil
}

// Inverse returns m⁻¹ via partial-pivot LU.
// Errors: everything FactorizeLU returns.
// Complexity: O(n³).
func Inverse(m Reader, opts ...LUOption) (*Dense, error) {
	f, err := FactorizeLU(m, opts...)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	return f.Inverse()
}
