// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/gridsens/matrix"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SparseSuite exercises triplet assembly and the CSR accessors.
type SparseSuite struct {
	suite.Suite
	s *matrix.Sparse // B′ of the 3-bus triangle, stamped branch by branch
}

func (ss *SparseSuite) SetupTest() {
	tr, err := matrix.NewTriplets(3, 3, 12)
	ss.Require().NoError(err)
	stamp := func(i, j int, b float64) {
		ss.Require().NoError(tr.Add(i, i, b))
		ss.Require().NoError(tr.Add(j, j, b))
		ss.Require().NoError(tr.Add(i, j, -b))
		ss.Require().NoError(tr.Add(j, i, -b))
	}
	stamp(0, 1, 10)
	stamp(1, 2, 10)
	stamp(0, 2, 5)
	ss.Require().Equal(12, tr.Len())
	ss.s = tr.Compress()
}

func (ss *SparseSuite) TestShapeAndNNZ() {
	ss.Require().Equal(3, ss.s.Rows())
	ss.Require().Equal(3, ss.s.Cols())
	ss.Require().Equal(9, ss.s.NNZ())
	ss.Require().InDelta(1.0, ss.s.Density(), tol)
}

func (ss *SparseSuite) TestDuplicatesSummed() {
	want := laplacian3()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ss.Require().Equal(want[i][j], MustAt(ss.T(), ss.s, i, j))
		}
	}
	ss.Require().Equal(20.0, ss.s.MaxAbs())
}

func (ss *SparseSuite) TestAtOutOfRange() {
	_, err := ss.s.At(3, 0)
	ss.Require().ErrorIs(err, matrix.ErrOutOfRange)
}

func (ss *SparseSuite) TestRowOrder() {
	var cols []int
	ss.s.Row(1, func(j int, _ float64) { cols = append(cols, j) })
	ss.Require().Equal([]int{0, 1, 2}, cols)
	ss.s.Row(7, func(int, float64) { ss.Fail("out-of-range row visited") })
}

func (ss *SparseSuite) TestSymmetryAndRowSums() {
	ss.Require().True(ss.s.IsSymmetric(matrix.DefaultSymmetryEpsilon))
	y, err := ss.s.MatVec([]float64{1, 1, 1})
	ss.Require().NoError(err)
	requireVecClose(ss.T(), []float64{0, 0, 0}, y, tol)

	_, err = ss.s.MatVec([]float64{1})
	ss.Require().ErrorIs(err, matrix.ErrDimensionMismatch)
}

func (ss *SparseSuite) TestDrop() {
	red, err := ss.s.Drop(0)
	ss.Require().NoError(err)
	ss.Require().Equal(2, red.Rows())
	ss.Require().Equal(20.0, MustAt(ss.T(), red, 0, 0))
	ss.Require().Equal(-10.0, MustAt(ss.T(), red, 0, 1))
	ss.Require().Equal(15.0, MustAt(ss.T(), red, 1, 1))

	_, err = ss.s.Drop(3)
	ss.Require().ErrorIs(err, matrix.ErrOutOfRange)
}

func (ss *SparseSuite) TestToDenseAndEqual() {
	d := ss.s.ToDense()
	ss.Require().Equal(-5.0, MustAt(ss.T(), d, 2, 0))

	tr, err := matrix.NewTriplets(3, 3, 0)
	ss.Require().NoError(err)
	ss.Require().False(ss.s.Equal(tr.Compress()))
	ss.Require().False(ss.s.Equal(nil))
}

func TestSparseSuite(t *testing.T) {
	suite.Run(t, new(SparseSuite))
}

// TestTripletsValidation covers constructor and Add guards.
func TestTripletsValidation(t *testing.T) {
	_, err := matrix.NewTriplets(0, 1, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	tr, err := matrix.NewTriplets(2, 2, -1)
	require.NoError(t, err)
	require.ErrorIs(t, tr.Add(2, 0, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, tr.Add(0, 0, math.Inf(1)), matrix.ErrNaNInf)
}

// TestCompressKeepsExplicitZeros ensures cancelling stamps stay structural.
func TestCompressKeepsExplicitZeros(t *testing.T) {
	tr, err := matrix.NewTriplets(2, 2, 0)
	require.NoError(t, err)
	require.NoError(t, tr.Add(0, 1, 3))
	require.NoError(t, tr.Add(0, 1, -3))
	s := tr.Compress()
	require.Equal(t, 1, s.NNZ())
	require.Equal(t, 0.0, MustAt(t, s, 0, 1))
}

// TestCompressDeterministic assembles twice and compares bitwise.
func TestCompressDeterministic(t *testing.T) {
	build := func() *matrix.Sparse {
		tr, err := matrix.NewTriplets(4, 4, 0)
		require.NoError(t, err)
		for _, e := range []struct {
			i, j int
			v    float64
		}{{3, 1, 0.1}, {0, 0, 1.0 / 3}, {3, 1, 0.2}, {1, 2, 7}, {0, 0, 2.0 / 3}} {
			require.NoError(t, tr.Add(e.i, e.j, e.v))
		}

		return tr.Compress()
	}
	require.True(t, build().Equal(build()))
}

// TestSparseVector covers ordering, merge and dot products.
func TestSparseVector(t *testing.T) {
	v, err := matrix.NewSparseVector(4, []int{3, 0, 3}, []float64{1, -1, 2})
	require.NoError(t, err)
	require.Equal(t, 4, v.Dim())
	require.Equal(t, 2, v.NNZ())
	require.Equal(t, 3.0, v.Get(3))
	require.Equal(t, 0.0, v.Get(1))
	require.Equal(t, []float64{-1, 0, 0, 3}, v.Dense())

	var idx []int
	v.Entries(func(i int, _ float64) { idx = append(idx, i) })
	require.Equal(t, []int{0, 3}, idx)

	d, err := v.DotDense([]float64{2, 9, 9, 1})
	require.NoError(t, err)
	require.Equal(t, 1.0, d)
	_, err = v.DotDense([]float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewSparseVector(2, []int{2}, []float64{1})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = matrix.NewSparseVector(2, []int{0}, nil)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.NewSparseVector(0, nil, nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestClampMagnitude covers sign handling around the floor.
func TestClampMagnitude(t *testing.T) {
	require.Equal(t, 1e-6, matrix.ClampMagnitude(0.0, 1e-6))
	require.Equal(t, -1e-6, matrix.ClampMagnitude(-1e-9, 1e-6))
	require.Equal(t, 1e-6, matrix.ClampMagnitude(1e-9, 1e-6))
	require.Equal(t, 0.5, matrix.ClampMagnitude(0.5, 1e-6))
	require.Equal(t, float32(-2), matrix.ClampMagnitude(float32(-2), float32(1e-3)))
}
