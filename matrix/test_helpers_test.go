// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures and utilities for the kernels.
//   - Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/gridsens/matrix"
	"github.com/stretchr/testify/require"
)

// tol is the default absolute tolerance used by numeric assertions.
const tol = 1e-10

// hide wraps a Reader to hide its concrete type from type switches,
// forcing the generic At-based fallback paths in code under test.
type hide struct{ matrix.Reader }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// MustFrom builds a *Dense from literal rows or fails the test.
func MustFrom(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// MustAt reads m(i,j) or fails the test.
func MustAt(t testing.TB, m matrix.Reader, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// requireVecClose asserts element-wise |got[i] − want[i]| ≤ eps.
func requireVecClose(t testing.TB, want, got []float64, eps float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDeltaf(t, want[i], got[i], eps, "index %d", i)
	}
}

// laplacian3 is B′ of the 3-bus triangle with reactances 0.1, 0.1, 0.2.
func laplacian3() [][]float64 {
	return [][]float64{
		{15, -10, -5},
		{-10, 20, -10},
		{-5, -10, 15},
	}
}

// randomDiagDominant fills an n×n strictly diagonally dominant matrix
// from a fixed seed so factorization always succeeds.
func randomDiagDominant(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	m := MustDense(t, n, n)
	for i := 0; i < n; i++ {
		row := 0.0
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			v := rng.Float64()*2 - 1
			require.NoError(t, m.Set(i, j, v))
			row += math.Abs(v)
		}
		require.NoError(t, m.Set(i, i, row+1))
	}

	return m
}
