// SPDX-License-Identifier: MIT

// Package matrix offers the dense and sparse linear-algebra kernels behind
// the DC network solvers.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with bounds-checked At/Set.
//   - Triplets → Sparse, deterministic CSR assembly from per-branch stamps.
//   - SparseVector, the rank-one update carrier used by the Woodbury solver.
//   - FactorizeLU, LU with partial row pivoting and a scaled pivot threshold;
//     the returned *LUFactors is immutable and safe for concurrent Solve calls.
//   - ConditionEstimate, a gonum-backed diagnostic of numerical conditioning.
//
// Errors are package sentinels (ErrSingular, ErrDimensionMismatch, …) wrapped
// with an operation tag; match them with errors.Is / errors.As.
package matrix
