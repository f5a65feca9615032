// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// SparseVector is an immutable sparse column vector of dimension Dim.
// Index is strictly ascending; Value is aligned with Index.
type SparseVector struct {
	dim   int
	index []int
	value []float64
}

// NewSparseVector builds a vector from (index, value) pairs. Pairs are sorted
// by index; duplicate indices are summed in the given order.
//
// Errors:
//   - ErrInvalidDimensions (dim <= 0), ErrDimensionMismatch (len mismatch),
//     ErrOutOfRange (index outside [0,dim)), ErrNaNInf.
func NewSparseVector(dim int, index []int, value []float64) (SparseVector, error) {
	if dim <= 0 {
		return SparseVector{}, ErrInvalidDimensions
	}
	if len(index) != len(value) {
		return SparseVector{}, fmt.Errorf("NewSparseVector: %w", ErrDimensionMismatch)
	}
	order := make([]int, len(index))
	for k := range order {
		if index[k] < 0 || index[k] >= dim {
			return SparseVector{}, fmt.Errorf("NewSparseVector: index %d: %w", index[k], ErrOutOfRange)
		}
		if math.IsNaN(value[k]) || math.IsInf(value[k], 0) {
			return SparseVector{}, fmt.Errorf("NewSparseVector: index %d: %w", index[k], ErrNaNInf)
		}
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool { return index[order[a]] < index[order[b]] })

	v := SparseVector{dim: dim, index: make([]int, 0, len(index)), value: make([]float64, 0, len(index))}
	for _, k := range order {
		if n := len(v.index); n > 0 && v.index[n-1] == index[k] {
			v.value[n-1] += value[k]
			continue
		}
		v.index = append(v.index, index[k])
		v.value = append(v.value, value[k])
	}

	return v, nil
}

// Dim returns the vector dimension.
func (v SparseVector) Dim() int { return v.dim }

// NNZ returns the number of stored entries.
func (v SparseVector) NNZ() int { return len(v.index) }

// Entries calls fn(i, x) for every stored entry in ascending index order.
func (v SparseVector) Entries(fn func(i int, x float64)) {
	for k, i := range v.index {
		fn(i, v.value[k])
	}
}

// Get returns the entry at i (0 when absent or out of range).
func (v SparseVector) Get(i int) float64 {
	k := sort.SearchInts(v.index, i)
	if k < len(v.index) && v.index[k] == i {
		return v.value[k]
	}

	return 0
}

// Dense expands the vector into a fresh slice of length Dim.
func (v SparseVector) Dense() []float64 {
	out := make([]float64, v.dim)
	for k, i := range v.index {
		out[i] = v.value[k]
	}

	return out
}

// DotDense returns vᵀx. Summation runs over stored entries in index order.
//
// Errors:
//   - ErrDimensionMismatch when len(x) != Dim().
//
// Complexity: O(nnz).
func (v SparseVector) DotDense(x []float64) (float64, error) {
	if err := ValidateVecLen(x, v.dim); err != nil {
		return 0, fmt.Errorf("SparseVector.DotDense: %w", err)
	}
	s := ZeroSum
	for k, i := range v.index {
		s += v.value[k] * x[i]
	}

	return s, nil
}
