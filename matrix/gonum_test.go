package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lazygp/matrix"
)

func TestCholeskyLogDetAndSolve(t *testing.T) {
	a := mustRows(t, [][]float64{{4, 1}, {1, 3}})
	ld, err := matrix.CholeskyLogDet(a, 1e-12)
	require.NoError(t, err)
	require.InDelta(t, math.Log(11), ld, 1e-12)

	b := mustRows(t, [][]float64{{1}, {2}})
	x, err := matrix.CholeskySolve(a, b, 1e-12)
	require.NoError(t, err)
	ax, err := matrix.Mul(a, x)
	require.NoError(t, err)
	ok, err := matrix.AllClose(ax, b, 0, 1e-12)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = matrix.CholeskyLogDet(mustRows(t, [][]float64{{1, 2}, {2, 1}}), 1e-12)
	require.ErrorIs(t, err, matrix.ErrNotPositiveDefinite)
}

func TestGonumRoundTrip(t *testing.T) {
	a := mustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	back, err := matrix.FromGonum(matrix.ToGonum(a))
	require.NoError(t, err)
	require.Equal(t, a.RawData(), back.RawData())
}

func TestApplyRejectsShapeChange(t *testing.T) {
	bad := matrix.MatmulClosure(func(rhs *matrix.Dense) (*matrix.Dense, error) {
		return matrix.NewDense(rhs.Rows()+1, rhs.Cols())
	})
	rhs := mustRows(t, [][]float64{{1}, {2}})
	_, err := matrix.Apply(bad, rhs)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	a := mustRows(t, [][]float64{{2, 0}, {0, 3}})
	dense, err := matrix.Densify(matrix.DenseClosure(a), 2)
	require.NoError(t, err)
	require.Equal(t, a.RawData(), dense.RawData())
}
