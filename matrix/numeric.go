// SPDX-License-Identifier: MIT

package matrix

import (
	"math"

	"golang.org/x/exp/constraints"
)

// abs returns |x| for any float kind.
func abs[T constraints.Float](x T) T {
	if x < 0 {
		return -x
	}

	return x
}

// absMax returns max_i |xs[i]|, or 0 for an empty slice.
// Complexity: O(len(xs)).
func absMax[T constraints.Float](xs []T) T {
	var best T
	for _, x := range xs {
		if a := abs(x); a > best {
			best = a
		}
	}

	return best
}

// ClampMagnitude returns x unchanged when |x| ≥ floor; otherwise it returns
// ±floor carrying the sign of x (zero maps to +floor).
// floor must be positive and finite.
func ClampMagnitude[T constraints.Float](x, floor T) T {
	if abs(x) >= floor {
		return x
	}
	if x < 0 {
		return -floor
	}

	return floor
}

// finite reports whether every element of xs is finite.
func finite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}

// Dot returns Σ a[i]*b[i]. Lengths must match; the caller enforces it.
// Summation order is fixed (i ascending) for bit-reproducibility.
func Dot(a, b []float64) float64 {
	s := ZeroSum
	for i := range a {
		s += a[i] * b[i]
	}

	return s
}
