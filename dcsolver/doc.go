// SPDX-License-Identifier: MIT

// Package dcsolver solves the reduced DC network equations B′_red·θ = P.
//
// Factorization is the direct solver: the slack-removed susceptance matrix is
// factored once by LU with partial pivoting (O(n³)) and every later Solve
// reuses the factors (O(n²)). A Factorization is immutable; share it across
// goroutines freely and build a new one when the topology changes.
//
// IncrementalSolver answers post-outage solves without refactoring, using
// the Sherman–Morrison–Woodbury identity for the rank-one change a single
// branch outage makes to B′:
//
//	x = A⁻¹p − [(vᵀA⁻¹p) / (c⁻¹ + vᵀA⁻¹u)] · A⁻¹u
//
// with u = v = e_i − e_j (slack terminal dropped) and c = −b_k. WithUpdate
// composes updates, so N-2 and deeper outages are Woodbury over Woodbury.
// When the denominator vanishes the outage islands the network and the
// solver returns ErrSingularUpdate; callers fall back to an exact
// refactorization of the post-outage topology.
//
// BranchFlows, ReducedInjections, ExpandAngles and InjectionVector convert
// between bus-ID keyed data, full-length vectors and reduced vectors.
package dcsolver
