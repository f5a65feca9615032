// SPDX-License-Identifier: MIT

// Package builder assembles synthetic transmission networks for tests,
// benchmarks and examples.
//
// The package offers:
//
//   - Build(opts, cons...): the single orchestrator. It resolves options,
//     runs constructors in order against one draft and hands the result to
//     network.NewTopology.
//   - Constructors: Ring, Path, Grid, Spur and RandomChords. They share bus
//     IDs through the configured IDFn, so composing Ring(6) with Spur(5, 2)
//     hangs a radial feeder off the ring.
//   - Options: WithSeed/WithRand for the stochastic constructors,
//     WithIDScheme, WithReactanceFn, WithRating and WithSlack.
//
// Guarantees:
//
//   - Determinism: equal options, seed and constructor order produce equal
//     topologies, down to branch order and IDs.
//   - Option constructors panic on meaningless input; constructors return
//     sentinel errors (ErrTooFewBuses, ErrInvalidProbability,
//     ErrNeedRandSource) wrapped with their method name.
package builder
