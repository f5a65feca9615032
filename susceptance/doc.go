// SPDX-License-Identifier: MIT

// Package susceptance builds the bus susceptance matrix B′ of the linearized
// (DC) network model from a network.Topology.
//
// For every participating branch k between buses i and j with effective
// reactance x = Reactance·TapRatio the builder stamps b = 1/x:
//
//	B′[i][i] += b    B′[j][j] += b
//	B′[i][j] −= b    B′[j][i] −= b
//
// so parallel branches sum additively, B′ is symmetric and every row sums to
// zero. The full matrix is singular; Reduced removes the slack row and column
// to obtain the system that dcsolver factors.
//
// Effective reactances smaller in magnitude than the reactance epsilon
// (DefaultReactanceEpsilon) are clamped to ±epsilon, sign preserved, unless
// WithStrictReactance is given, in which case Build rejects them.
//
// A *Matrix is immutable and safe for concurrent use. Any topology change
// requires a new Build.
package susceptance
