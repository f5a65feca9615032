// SPDX-License-Identifier: MIT

// Package matrix - compressed sparse row (CSR) storage & triplet assembly.
//
// Purpose:
//   - Assemble network matrices (B′) from per-branch stamps in O(nnz log nnz).
//   - Store them immutably in CSR form: rowPtr (len r+1), colIdx, vals.
//   - Provide read-only queries (At, Row, MatVec) and structural transforms
//     (Drop a row/column pair, ToDense) used by the solvers.
//
// Determinism:
//   - Compress orders entries by (row, col) with a STABLE sort, so duplicates
//     are summed in insertion order. Two assemblies from the same stamp
//     sequence are bit-identical.
//
// Complexity quicksheet:
//   - Triplets.Add: O(1) amortized; Compress: O(nnz log nnz).
//   - Sparse.At: O(log nnz_row); Row: O(nnz_row); MatVec: O(nnz); Drop: O(nnz).
package matrix

import (
	"fmt"
	"math"
	"sort"
)

const (
	opTripletsAdd = "Triplets.Add"
	opCompress    = "Triplets.Compress"
	opSparseAt    = "Sparse.At"
	opSparseDrop  = "Sparse.Drop"
	opSparseMV    = "Sparse.MatVec"
)

// Triplets accumulates (row, col, value) stamps before compression.
// Duplicate coordinates are allowed and summed by Compress.
type Triplets struct {
	r, c int       // target shape
	rows []int     // row index per stamp
	cols []int     // column index per stamp
	vals []float64 // value per stamp
}

// NewTriplets returns an empty accumulator for an r×c matrix.
// capHint pre-sizes the stamp buffers (0 is fine).
//
// Errors:
//   - ErrInvalidDimensions when r<=0 or c<=0.
func NewTriplets(r, c, capHint int) (*Triplets, error) {
	if r <= 0 || c <= 0 {
		return nil, ErrInvalidDimensions
	}
	if capHint < 0 {
		capHint = 0
	}

	return &Triplets{
		r:    r,
		c:    c,
		rows: make([]int, 0, capHint),
		cols: make([]int, 0, capHint),
		vals: make([]float64, 0, capHint),
	}, nil
}

// Add records a stamp v at (i, j).
//
// Errors:
//   - ErrOutOfRange for bad coordinates; ErrNaNInf for non-finite values.
func (t *Triplets) Add(i, j int, v float64) error {
	if i < 0 || i >= t.r || j < 0 || j >= t.c {
		return matrixErrorf(opTripletsAdd, fmt.Errorf("(%d,%d): %w", i, j, ErrOutOfRange))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return matrixErrorf(opTripletsAdd, fmt.Errorf("(%d,%d): %w", i, j, ErrNaNInf))
	}
	t.rows = append(t.rows, i)
	t.cols = append(t.cols, j)
	t.vals = append(t.vals, v)

	return nil
}

// Len returns the number of recorded stamps (before duplicate merge).
func (t *Triplets) Len() int { return len(t.vals) }

// Compress merges duplicates and returns the immutable CSR matrix.
//
// Implementation:
//   - Stage 1: build a permutation of stamp indices sorted stably by (row, col).
//   - Stage 2: walk the permutation, summing runs of equal coordinates.
//   - Stage 3: prefix-sum row counts into rowPtr.
//
// Behavior highlights:
//   - Entries that sum to exactly zero are KEPT (structural non-zeros).
//   - The accumulator is left untouched and may be compressed again.
//
// Complexity:
//   - Time O(nnz log nnz), Space O(nnz + r).
func (t *Triplets) Compress() *Sparse {
	n := len(t.vals)
	order := make([]int, n)
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := t.rows[order[a]], t.rows[order[b]]
		if ra != rb {
			return ra < rb
		}

		return t.cols[order[a]] < t.cols[order[b]]
	})

	s := &Sparse{
		r:      t.r,
		c:      t.c,
		rowPtr: make([]int, t.r+1),
		colIdx: make([]int, 0, n),
		vals:   make([]float64, 0, n),
	}
	lastRow, lastCol := -1, -1
	for _, k := range order {
		i, j, v := t.rows[k], t.cols[k], t.vals[k]
		if i == lastRow && j == lastCol {
			s.vals[len(s.vals)-1] += v // duplicate: accumulate in insertion order
			continue
		}
		s.colIdx = append(s.colIdx, j)
		s.vals = append(s.vals, v)
		s.rowPtr[i+1]++
		lastRow, lastCol = i, j
	}
	for i := 0; i < t.r; i++ {
		s.rowPtr[i+1] += s.rowPtr[i]
	}

	return s
}

// Sparse is an immutable CSR matrix. All methods are safe for concurrent use.
type Sparse struct {
	r, c   int
	rowPtr []int     // row i occupies [rowPtr[i], rowPtr[i+1])
	colIdx []int     // ascending within each row
	vals   []float64 // values aligned with colIdx
}

// Rows returns the row count. Complexity: O(1).
func (s *Sparse) Rows() int { return s.r }

// Cols returns the column count. Complexity: O(1).
func (s *Sparse) Cols() int { return s.c }

// NNZ returns the number of stored entries. Complexity: O(1).
func (s *Sparse) NNZ() int { return len(s.vals) }

// Density returns NNZ / (r*c).
func (s *Sparse) Density() float64 {
	return float64(s.NNZ()) / (float64(s.r) * float64(s.c))
}

// At returns the entry at (i, j); structurally absent entries read as 0.
//
// Errors:
//   - ErrOutOfRange for bad coordinates.
//
// Complexity: O(log nnz_row).
func (s *Sparse) At(i, j int) (float64, error) {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return 0, matrixErrorf(opSparseAt, fmt.Errorf("(%d,%d): %w", i, j, ErrOutOfRange))
	}
	lo, hi := s.rowPtr[i], s.rowPtr[i+1]
	k := lo + sort.SearchInts(s.colIdx[lo:hi], j)
	if k < hi && s.colIdx[k] == j {
		return s.vals[k], nil
	}

	return 0, nil
}

// Row calls fn(j, v) for every stored entry of row i in ascending column order.
// Out-of-range rows are a no-op.
func (s *Sparse) Row(i int, fn func(j int, v float64)) {
	if i < 0 || i >= s.r {
		return
	}
	for k := s.rowPtr[i]; k < s.rowPtr[i+1]; k++ {
		fn(s.colIdx[k], s.vals[k])
	}
}

// MaxAbs returns max |a_ij| over stored entries.
func (s *Sparse) MaxAbs() float64 { return absMax(s.vals) }

// ToDense expands the matrix into a new *Dense.
// Complexity: O(r*c) allocation + O(nnz) writes.
func (s *Sparse) ToDense() *Dense {
	d := &Dense{r: s.r, c: s.c, data: make([]float64, s.r*s.c), validateNaNInf: DefaultValidateNaNInf}
	for i := 0; i < s.r; i++ {
		base := i * s.c
		for k := s.rowPtr[i]; k < s.rowPtr[i+1]; k++ {
			d.data[base+s.colIdx[k]] = s.vals[k]
		}
	}

	return d
}

// Drop returns a new (r−1)×(c−1) matrix with row k and column k removed.
// Indices above k shift down by one. Requires a square matrix with r ≥ 2.
//
// Errors:
//   - ErrNonSquare, ErrInvalidDimensions (r < 2), ErrOutOfRange (bad k).
//
// Complexity: O(nnz).
func (s *Sparse) Drop(k int) (*Sparse, error) {
	if s.r != s.c {
		return nil, matrixErrorf(opSparseDrop, ErrNonSquare)
	}
	if s.r < 2 {
		return nil, matrixErrorf(opSparseDrop, ErrInvalidDimensions)
	}
	if k < 0 || k >= s.r {
		return nil, matrixErrorf(opSparseDrop, fmt.Errorf("k=%d: %w", k, ErrOutOfRange))
	}

	out := &Sparse{
		r:      s.r - 1,
		c:      s.c - 1,
		rowPtr: make([]int, s.r),
		colIdx: make([]int, 0, len(s.colIdx)),
		vals:   make([]float64, 0, len(s.vals)),
	}
	ri := 0
	for i := 0; i < s.r; i++ {
		if i == k {
			continue
		}
		for p := s.rowPtr[i]; p < s.rowPtr[i+1]; p++ {
			j := s.colIdx[p]
			switch {
			case j == k:
				continue
			case j > k:
				j-- // shift left past the removed column
			}
			out.colIdx = append(out.colIdx, j)
			out.vals = append(out.vals, s.vals[p])
		}
		ri++
		out.rowPtr[ri] = len(out.vals)
	}

	return out, nil
}

// MatVec computes y = S·x.
//
// Errors:
//   - ErrDimensionMismatch when len(x) != Cols().
//
// Complexity: O(nnz).
func (s *Sparse) MatVec(x []float64) ([]float64, error) {
	if err := ValidateVecLen(x, s.c); err != nil {
		return nil, matrixErrorf(opSparseMV, err)
	}
	y := make([]float64, s.r)
	for i := 0; i < s.r; i++ {
		sum := ZeroSum
		for k := s.rowPtr[i]; k < s.rowPtr[i+1]; k++ {
			sum += s.vals[k] * x[s.colIdx[k]]
		}
		y[i] = sum
	}

	return y, nil
}

// IsSymmetric reports whether |a_ij − a_ji| ≤ eps for all stored entries.
// Complexity: O(nnz log nnz_row).
func (s *Sparse) IsSymmetric(eps float64) bool {
	if s.r != s.c {
		return false
	}
	for i := 0; i < s.r; i++ {
		for k := s.rowPtr[i]; k < s.rowPtr[i+1]; k++ {
			aji, _ := s.At(s.colIdx[k], i) // indices are in range by construction
			if math.Abs(s.vals[k]-aji) > eps {
				return false
			}
		}
	}

	return true
}

// Equal reports bit-for-bit equality of shape, structure and values.
func (s *Sparse) Equal(o *Sparse) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.r != o.r || s.c != o.c || len(s.vals) != len(o.vals) {
		return false
	}
	for i := range s.rowPtr {
		if s.rowPtr[i] != o.rowPtr[i] {
			return false
		}
	}
	for k := range s.vals {
		if s.colIdx[k] != o.colIdx[k] || math.Float64bits(s.vals[k]) != math.Float64bits(o.vals[k]) {
			return false
		}
	}

	return true
}
