// SPDX-License-Identifier: MIT

// Package sensitivity derives linear sensitivity tables from a DC factorization.
//
// PTDF (power transfer distribution factors): for branch ℓ from bus i to bus j
// with effective reactance x_ℓ and any bus n,
//
//	PTDF[ℓ,n] = (X[i,n] − X[j,n]) / x_ℓ
//
// where X is the reduced-system inverse embedded in full size with the slack
// row and column held at zero, so the slack column of every row is exactly 0.
// ComputePTDF materializes X column by column (one solve per non-slack bus);
// WithMonitoredBranches instead solves only for the terminal buses of the
// requested branches, using the symmetry of B′ (row i of X equals column i).
//
// LODF (line outage distribution factors) uses the two-bus transfer form
//
//	LODF[ℓ,m] = (PTDF[ℓ,f_m] − PTDF[ℓ,t_m]) / (1 − (PTDF[m,f_m] − PTDF[m,t_m]))
//
// with LODF[ℓ,ℓ] = −1. When the denominator is below UndefinedThreshold the
// outage of m islands the network: the entry holds a signed infinity and its
// Factor reports Defined == false, so it can never pass for a finite number.
//
// Both tables are immutable and indexed by branch/bus IDs, never by raw
// internal position.
package sensitivity
