// SPDX-License-Identifier: MIT

package dcsolver_test

import (
	"errors"
	"testing"

	"github.com/katalvlaran/gridsens/dcsolver"
	"github.com/katalvlaran/gridsens/matrix"
	"github.com/katalvlaran/gridsens/network"
	"github.com/katalvlaran/gridsens/susceptance"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// TestTriangleSolve injects 1 pu at bus 2, withdrawn at the slack.
func TestTriangleSolve(t *testing.T) {
	sys, f := factor(t, triangleTopology(t))
	require.Equal(t, 2, f.Dim())
	require.Same(t, sys, f.System())
	require.Greater(t, f.MinPivot(), 0.0)

	theta, err := f.SolveFull([]float64{-1, 1, 0})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 0.075, 0.05}, theta, 1e-12)

	flows, err := dcsolver.BranchFlows(sys, theta)
	require.NoError(t, err)
	require.InDelta(t, -0.75, flows["1-2"], 1e-12)
	require.InDelta(t, 0.25, flows["2-3"], 1e-12)
	require.InDelta(t, -0.25, flows["1-3"], 1e-12)
}

// TestConditionEstimate bounds gonum's estimate by the exact 1-norm
// condition of the triangle's reduced system, [[20,-10],[-10,15]]: 30·0.15.
func TestConditionEstimate(t *testing.T) {
	_, f := factor(t, triangleTopology(t))
	cond, err := f.ConditionEstimate()
	require.NoError(t, err)
	require.GreaterOrEqual(t, cond, 1.0)
	require.LessOrEqual(t, cond, 4.5+1e-9)
}

// TestInverseColumn checks X embedding and the slack column.
func TestInverseColumn(t *testing.T) {
	_, f := factor(t, triangleTopology(t))

	col, err := f.InverseColumn(1)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{0, 0.075, 0.05}, col, 1e-12)

	col, err = f.InverseColumn(0)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0}, col)

	_, err = f.InverseColumn(3)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestFactorizeIslanded rejects a network split in two.
func TestFactorizeIslanded(t *testing.T) {
	topo, err := network.NewTopology(buses("1", "2", "3", "4"), []network.Branch{
		line("1-2", "1", "2", 0.1),
		line("3-4", "3", "4", 0.1),
	}, "1")
	require.NoError(t, err)
	sys, err := susceptance.Build(topo)
	require.NoError(t, err)

	_, err = dcsolver.Factorize(sys)
	require.ErrorIs(t, err, matrix.ErrSingular)
	var se *matrix.SingularError
	require.True(t, errors.As(err, &se))

	_, err = dcsolver.Factorize(nil)
	require.ErrorIs(t, err, dcsolver.ErrNilSystem)
}

// TestSolveAgainstGonum compares the reduced solve with gonum.
func TestSolveAgainstGonum(t *testing.T) {
	sys, f := factor(t, meshTopology(t))
	p := reducedInjections(t, sys, meshInjections)
	got, err := f.Solve(p)
	require.NoError(t, err)

	red := sys.Reduced()
	n := red.Rows()
	data := make([]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v, err := red.At(i, j)
			require.NoError(t, err)
			data = append(data, v)
		}
	}
	var want mat.VecDense
	require.NoError(t, want.SolveVec(mat.NewDense(n, n, data), mat.NewVecDense(n, p)))
	requireRelClose(t, want.RawVector().Data, got, 1e-9)

	// Power balance: B′θ reproduces the injections at non-slack buses.
	theta, err := dcsolver.ExpandAngles(sys, got)
	require.NoError(t, err)
	back, err := sys.Sparse().MatVec(theta)
	require.NoError(t, err)
	backRed, err := dcsolver.ReducedInjections(sys, back)
	require.NoError(t, err)
	requireRelClose(t, p, backRed, 1e-9)
}

// TestConcurrentSolves shares one factorization across goroutines.
func TestConcurrentSolves(t *testing.T) {
	sys, f := factor(t, meshTopology(t))
	p := reducedInjections(t, sys, meshInjections)
	want, err := f.Solve(p)
	require.NoError(t, err)

	results := make([][]float64, 32)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			x, err := f.Solve(p)
			results[i] = x
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, got := range results {
		require.Equal(t, want, got)
	}
}

// TestVectorHelpers covers the full/reduced conversions.
func TestVectorHelpers(t *testing.T) {
	topo, err := network.NewTopology(buses("a", "b", "c"), []network.Branch{
		line("ab", "a", "b", 0.1), line("bc", "b", "c", 0.1),
	}, "b")
	require.NoError(t, err)
	sys, err := susceptance.Build(topo)
	require.NoError(t, err)

	p, err := dcsolver.InjectionVector(sys, map[string]float64{"a": 1, "c": -2})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, -2}, p)
	_, err = dcsolver.InjectionVector(sys, map[string]float64{"zz": 1})
	require.ErrorIs(t, err, network.ErrUnknownBus)

	red, err := dcsolver.ReducedInjections(sys, p)
	require.NoError(t, err)
	require.Equal(t, []float64{1, -2}, red)
	full, err := dcsolver.ExpandAngles(sys, red)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, -2}, full)

	_, err = dcsolver.ReducedInjections(sys, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = dcsolver.ExpandAngles(sys, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = dcsolver.BranchFlows(sys, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
