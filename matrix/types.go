// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by dense and sparse storage.
// This file intentionally contains ONLY the public Matrix interface and the
// read-only view used by solvers. Errors and options live in dedicated
// files (errors.go, options.go) per the package conventions.
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	// Complexity: O(1).
	Rows() int

	// Cols returns the number of columns in the matrix.
	// Complexity: O(1).
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	// Complexity: O(rows*cols).
	Clone() Matrix
}

// Reader is the read-only subset of Matrix. Both *Dense and the immutable
// *Sparse satisfy it, so factorization kernels accept either.
type Reader interface {
	Rows() int
	Cols() int
	At(i, j int) (float64, error)
}

// Compile-time assertions.
var (
	_ Reader = (*Dense)(nil)
	_ Reader = (*Sparse)(nil)
)
