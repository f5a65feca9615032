// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the factorization kernels and
// numeric policy. This file defines:
//   - documented defaults (constants),
//   - LUOption / luOptions (functional options with internal state),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherLUOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each option impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//
// Pivot threshold policy (borrowed from classic sparse LU packages):
//
//	threshold = max(absTol, relTol * max|a_ij|)
//
// With the defaults below and typical B′ magnitudes (1 … 10⁴ per-unit
// susceptance) the effective threshold lands between 1e-14 and 1e-8, i.e.
// roundoff-sized pivots are rejected while genuinely small but valid
// pivots of weakly coupled buses are accepted.
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultValidateNaNInf toggles strict finite-value validation on Set.
	DefaultValidateNaNInf = true

	// DefaultAbsPivotTolerance is the absolute floor of the pivot threshold.
	DefaultAbsPivotTolerance = 1e-14

	// DefaultRelPivotTolerance scales the largest |a_ij| into the pivot threshold.
	DefaultRelPivotTolerance = 1e-12

	// DefaultSymmetryEpsilon is the tolerance used by IsSymmetric checks.
	DefaultSymmetryEpsilon = 1e-10
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicAbsTolInvalid = "matrix: WithAbsPivotTolerance: tol must be finite, non-negative"
	panicRelTolInvalid = "matrix: WithRelPivotTolerance: tol must be finite, non-negative"
)

// LUOption mutates internal factorization options. Safe to apply repeatedly.
type LUOption func(*luOptions)

// luOptions is the resolved option set consumed by FactorizeLU.
type luOptions struct {
	absTol float64 // absolute pivot floor
	relTol float64 // relative pivot scale
}

// defaultLUOptions returns the documented defaults.
func defaultLUOptions() luOptions {
	return luOptions{
		absTol: DefaultAbsPivotTolerance,
		relTol: DefaultRelPivotTolerance,
	}
}

// WithAbsPivotTolerance sets the absolute pivot floor.
// Panics if tol is negative, NaN or Inf (programmer error).
func WithAbsPivotTolerance(tol float64) LUOption {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicAbsTolInvalid)
	}

	return func(o *luOptions) { o.absTol = tol }
}

// WithRelPivotTolerance sets the relative pivot scale (0 disables scaling).
// Panics if tol is negative, NaN or Inf (programmer error).
func WithRelPivotTolerance(tol float64) LUOption {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(panicRelTolInvalid)
	}

	return func(o *luOptions) { o.relTol = tol }
}

// gatherLUOptions folds opts over the defaults; nil options are skipped.
func gatherLUOptions(opts []LUOption) luOptions {
	o := defaultLUOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// threshold resolves the effective pivot threshold for a matrix whose
// largest entry magnitude is scale.
func (o luOptions) threshold(scale float64) float64 {
	return math.Max(o.absTol, o.relTol*scale)
}
