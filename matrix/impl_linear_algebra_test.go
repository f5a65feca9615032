// SPDX-License-Identifier: MIT

package matrix_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/katalvlaran/gridsens/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestLUSolveReduced solves the slack-removed triangle system.
func TestLUSolveReduced(t *testing.T) {
	a := MustFrom(t, [][]float64{{20, -10}, {-10, 15}})
	f, err := matrix.FactorizeLU(a)
	require.NoError(t, err)
	require.Equal(t, 2, f.Dim())

	x, err := f.Solve([]float64{0, -1})
	require.NoError(t, err)
	requireVecClose(t, []float64{-0.05, -0.1}, x, tol)
	require.Greater(t, f.MinPivot(), 0.0)
	require.InDelta(t, matrix.DefaultRelPivotTolerance*20, f.Threshold(), 1e-24)
}

// TestLUNeedsPivoting uses a zero leading entry that plain Doolittle rejects.
func TestLUNeedsPivoting(t *testing.T) {
	a := MustFrom(t, [][]float64{{0, 1}, {1, 0}})
	f, err := matrix.FactorizeLU(a)
	require.NoError(t, err)
	require.Equal(t, []int{1, 0}, f.Pivots())

	x, err := f.Solve([]float64{2, 3})
	require.NoError(t, err)
	requireVecClose(t, []float64{3, 2}, x, tol)
}

// TestLUSingularLaplacian checks that the full (unreduced) B′ is rejected.
func TestLUSingularLaplacian(t *testing.T) {
	_, err := matrix.FactorizeLU(MustFrom(t, laplacian3()))
	require.ErrorIs(t, err, matrix.ErrSingular)

	var se *matrix.SingularError
	require.True(t, errors.As(err, &se))
	require.Equal(t, 2, se.Col)
	require.Less(t, se.Pivot, se.Threshold)
}

// TestLUThresholdOptions shows the absolute floor and how to disable it.
func TestLUThresholdOptions(t *testing.T) {
	tiny := MustFrom(t, [][]float64{{1e-20}})

	_, err := matrix.FactorizeLU(tiny)
	require.ErrorIs(t, err, matrix.ErrSingular)

	f, err := matrix.FactorizeLU(tiny,
		matrix.WithAbsPivotTolerance(0),
		matrix.WithRelPivotTolerance(0),
	)
	require.NoError(t, err)
	x, err := f.Solve([]float64{1e-20})
	require.NoError(t, err)
	require.InDelta(t, 1.0, x[0], tol)
}

// TestLUValidation covers input guards in priority order.
func TestLUValidation(t *testing.T) {
	_, err := matrix.FactorizeLU(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	_, err = matrix.FactorizeLU(MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	f, err := matrix.FactorizeLU(MustFrom(t, [][]float64{{2, 0}, {0, 4}}))
	require.NoError(t, err)
	_, err = f.Solve([]float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = f.Solve([]float64{1, math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
	require.ErrorIs(t, f.SolveInto(make([]float64, 1), []float64{1, 1}), matrix.ErrDimensionMismatch)
}

// TestLUSolveIntoAliasing allows dst and b to share storage.
func TestLUSolveIntoAliasing(t *testing.T) {
	f, err := matrix.FactorizeLU(MustFrom(t, [][]float64{{0, 2}, {4, 0}}))
	require.NoError(t, err)
	v := []float64{2, 8}
	require.NoError(t, f.SolveInto(v, v))
	requireVecClose(t, []float64{2, 1}, v, tol)
}

// TestLUPathsAgree checks the Dense fast path, the Sparse path and the At fallback bitwise.
func TestLUPathsAgree(t *testing.T) {
	a := randomDiagDominant(t, 12, 7)
	tr, err := matrix.NewTriplets(12, 12, 144)
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		for j := 0; j < 12; j++ {
			require.NoError(t, tr.Add(i, j, MustAt(t, a, i, j)))
		}
	}
	b := make([]float64, 12)
	for i := range b {
		b[i] = float64(i) - 5.5
	}

	var xs [][]float64
	for _, m := range []matrix.Reader{a, tr.Compress(), hide{a}} {
		f, err := matrix.FactorizeLU(m)
		require.NoError(t, err)
		x, err := f.Solve(b)
		require.NoError(t, err)
		xs = append(xs, x)
	}
	require.Equal(t, xs[0], xs[1])
	require.Equal(t, xs[0], xs[2])
}

// TestLUAgainstGonum compares against gonum's LAPACK-backed solver.
func TestLUAgainstGonum(t *testing.T) {
	const n = 30
	a := randomDiagDominant(t, n, 42)
	data := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			data = append(data, MustAt(t, a, i, j))
		}
	}
	b := make([]float64, n)
	for i := range b {
		b[i] = math.Sin(float64(i))
	}

	f, err := matrix.FactorizeLU(a)
	require.NoError(t, err)
	got, err := f.Solve(b)
	require.NoError(t, err)

	var want mat.VecDense
	require.NoError(t, want.SolveVec(mat.NewDense(n, n, data), mat.NewVecDense(n, b)))
	requireVecClose(t, want.RawVector().Data, got, 1e-9)
}

// TestInverse multiplies back to the identity.
func TestInverse(t *testing.T) {
	a := MustFrom(t, [][]float64{{20, -10}, {-10, 15}})
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)
	require.InDelta(t, 15.0/200, MustAt(t, inv, 0, 0), tol)
	require.InDelta(t, 10.0/200, MustAt(t, inv, 0, 1), tol)
	require.InDelta(t, 20.0/200, MustAt(t, inv, 1, 1), tol)

	_, err = matrix.Inverse(MustFrom(t, laplacian3()))
	require.ErrorIs(t, err, matrix.ErrSingular)
}

// TestLUConcurrentSolves shares one factorization across goroutines.
func TestLUConcurrentSolves(t *testing.T) {
	f, err := matrix.FactorizeLU(randomDiagDominant(t, 20, 3))
	require.NoError(t, err)
	b := make([]float64, 20)
	b[4] = 1
	want, err := f.Solve(b)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]float64, 16)
	for g := range results {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			results[g], _ = f.Solve(b)
		}(g)
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, want, got)
	}
}

// TestMatVec covers the dense, sparse and fallback kernels.
func TestMatVec(t *testing.T) {
	a := MustFrom(t, laplacian3())
	for _, m := range []matrix.Reader{a, hide{a}} {
		y, err := matrix.MatVec(m, []float64{1, 0, 0})
		require.NoError(t, err)
		require.Equal(t, []float64{15, -10, -5}, y)
	}
	_, err := matrix.MatVec(a, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MatVec(nil, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestConditionEstimate sanity-checks the gonum-backed diagnostic.
func TestConditionEstimate(t *testing.T) {
	id := MustFrom(t, [][]float64{{1, 0}, {0, 1}})
	c, err := matrix.ConditionEstimate(id)
	require.NoError(t, err)
	require.InDelta(t, 1.0, c, 1e-9)

	c, err = matrix.ConditionEstimate(MustFrom(t, laplacian3()))
	require.NoError(t, err)
	require.True(t, math.IsInf(c, 1) || c > 1e12)

	_, err = matrix.ConditionEstimate(MustDense(t, 1, 2))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}
