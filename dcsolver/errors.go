// SPDX-License-Identifier: MIT

package dcsolver

import (
	"errors"
	"fmt"
)

var (
	// ErrSingularUpdate indicates that a Woodbury update cannot be applied:
	// the branch susceptance is negligible or the update denominator is ~0
	// (the outage islands part of the network).
	ErrSingularUpdate = errors.New("dcsolver: singular Woodbury update")

	// ErrNilSystem indicates a nil susceptance matrix or solver.
	ErrNilSystem = errors.New("dcsolver: nil system")

	// ErrAlreadyOutaged indicates a composed update for a branch already removed.
	ErrAlreadyOutaged = errors.New("dcsolver: branch already outaged")
)

// SingularUpdateError carries the branch and the offending quantity.
// errors.Is(err, ErrSingularUpdate) holds for every *SingularUpdateError.
type SingularUpdateError struct {
	BranchID    string  // outaged branch, empty for hand-built updates
	C           float64 // update scalar c = −b_k
	Denominator float64 // c⁻¹ + vᵀA⁻¹u (NaN when c itself was rejected)
}

// Error implements error.
func (e *SingularUpdateError) Error() string {
	return fmt.Sprintf("dcsolver: singular Woodbury update for branch %q: c=%.6g denominator=%.6g",
		e.BranchID, e.C, e.Denominator)
}

// Unwrap exposes ErrSingularUpdate for errors.Is.
func (e *SingularUpdateError) Unwrap() error { return ErrSingularUpdate }
