// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set (unified, consistent).
// This file defines the package-level sentinel errors used across the matrix
// package plus the single structured error (SingularError) that carries the
// failing pivot. All kernels MUST return these sentinels and tests MUST check
// them via errors.Is. No kernel panics on user-triggered error conditions.

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Kernels wrap with matrixErrorf(op, err) so the
// resulting message reads "<Op>: matrix: ...", and errors.Is still matches.
//
// ERROR PRIORITY (documented, enforced in tests):
// nil -> shape/index/NaN -> dimension mismatch -> numeric singularity.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., a right-hand side whose length differs from the factored system.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// within the configured epsilon.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within eps")

	// ErrNaNInf signals a NaN or ±Inf value was encountered where finite values
	// are required by the numeric policy (ingestion, Set, right-hand sides).
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrSingular is returned when a pivot magnitude falls below the configured
	// threshold during LU factorization. For a susceptance matrix this means the
	// network is disconnected or part of it is unobservable.
	ErrSingular = errors.New("matrix: singular matrix")
)

// SingularError reports the column at which elimination found no acceptable
// pivot, together with the best magnitude seen and the threshold in force.
// errors.Is(err, ErrSingular) holds for every *SingularError.
type SingularError struct {
	Col       int     // zero-based column of the failing elimination step
	Pivot     float64 // largest |a_ik| found in the column (i ≥ k)
	Threshold float64 // effective threshold used for the comparison
}

// Error implements error.
func (e *SingularError) Error() string {
	return fmt.Sprintf("matrix: singular matrix: pivot %.3g below %.3g at column %d", e.Pivot, e.Threshold, e.Col)
}

// Unwrap exposes ErrSingular for errors.Is.
func (e *SingularError) Unwrap() error { return ErrSingular }
