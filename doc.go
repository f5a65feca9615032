// Package gridsens is an in-memory engine for DC power-flow sensitivities
// and branch contingency analysis on transmission networks.
//
// What is inside
//
//	A factor-once, solve-many pipeline:
//		• network      — buses, branches, slack, islands and bridges
//		• susceptance  — the nodal B′ matrix and its slack-reduced system
//		• matrix       — dense/sparse kernels and LU with partial pivoting
//		• dcsolver     — cached factorization and Woodbury outage updates
//		• sensitivity  — PTDF and LODF tables
//		• contingency  — N-1/N-2 exact evaluation and LODF screening
//		• builder      — synthetic ring, lattice and meshed test networks
//
// Guarantees
//
//   - Deterministic: equal inputs give bit-identical matrices and factors.
//   - Immutable results: factorizations and sensitivity tables are safe to
//     share across goroutines.
//   - Errors are package sentinels, matched with errors.Is.
//
// Quick ASCII example:
//
//	    1 ──0.1── 2
//	     \        │
//	     0.2     0.1
//	       \      │
//	        ───── 3
//
//	the 3-bus loop used throughout the tests: slack 1, PTDF of branch 1-2
//	for an injection at bus 2 is −0.75.
//
//	go get github.com/katalvlaran/gridsens
package gridsens
