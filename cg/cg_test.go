package cg_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lazygp/cg"
	"github.com/katalvlaran/lazygp/config"
	"github.com/katalvlaran/lazygp/internal/testutil"
	"github.com/katalvlaran/lazygp/matrix"
)

func relResidual(t *testing.T, a, x, b *matrix.Dense) float64 {
	t.Helper()
	ax, err := matrix.Mul(a, x)
	require.NoError(t, err)
	r, err := matrix.Sub(ax, b)
	require.NoError(t, err)
	rr, _ := matrix.SumProduct(r, r)
	bb, _ := matrix.SumProduct(b, b)

	return math.Sqrt(rr / bb)
}

func TestSolve_SPDVector(t *testing.T) {
	a := testutil.RandomSPD(t, 8, 1)
	b := testutil.RandomMatrix(t, 8, 1, 2)

	x, err := cg.Solve(matrix.DenseClosure(a), b, config.New(config.WithMaxCGIterations(50)))
	require.NoError(t, err)
	require.Less(t, relResidual(t, a, x, b), 1e-3)
}

func TestSolve_MultiColumnMatchesPerColumn(t *testing.T) {
	a := testutil.RandomSPD(t, 6, 3)
	b := testutil.RandomMatrix(t, 6, 3, 4)
	cfg := config.New(config.WithMaxCGIterations(30))

	x, err := cg.Solve(matrix.DenseClosure(a), b, cfg)
	require.NoError(t, err)
	require.Less(t, relResidual(t, a, x, b), 1e-3)

	for j := 0; j < 3; j++ {
		col, _ := b.Col(j)
		bj, _ := matrix.NewVector(col)
		xj, err := cg.Solve(matrix.DenseClosure(a), bj, cfg)
		require.NoError(t, err)
		want, _ := x.Col(j)
		got, _ := xj.Col(0)
		require.InDeltaSlice(t, want, got, 1e-8)
	}
}

func TestSolve_ZeroRHS(t *testing.T) {
	a := testutil.RandomSPD(t, 5, 1)
	b, _ := matrix.NewDense(5, 2)
	calls := 0
	op := func(rhs *matrix.Dense) (*matrix.Dense, error) {
		calls++
		return matrix.Mul(a, rhs)
	}
	x, info, err := cg.SolveWithInfo(op, b, nil)
	require.NoError(t, err)
	require.Zero(t, calls)
	require.True(t, info.Converged)
	for _, v := range x.RawData() {
		require.Zero(t, v)
	}
}

func TestSolve_IterationCap(t *testing.T) {
	a := testutil.RandomSPD(t, 40, 5)
	b := testutil.RandomMatrix(t, 40, 1, 6)
	_, info, err := cg.SolveWithInfo(matrix.DenseClosure(a), b, config.New(config.WithMaxCGIterations(2)))
	require.NoError(t, err)
	require.Equal(t, 2, info.Iterations)
	require.False(t, info.Converged)
	require.Greater(t, info.Residuals[0], 0.0)
}

func TestSolve_Diagonal(t *testing.T) {
	a, _ := matrix.FromDiag([]float64{1, 2, 4})
	b, _ := matrix.NewVector([]float64{1, 1, 1})
	x, info, err := cg.SolveWithInfo(matrix.DenseClosure(a), b, config.New(config.WithMaxCGIterations(10)))
	require.NoError(t, err)
	require.True(t, info.Converged)
	require.InDeltaSlice(t, []float64{1, 0.5, 0.25}, x.RawData(), 1e-10)
}

func TestSolve_Errors(t *testing.T) {
	b, _ := matrix.NewVector([]float64{1, 2})
	_, err := cg.Solve(nil, b, nil)
	require.ErrorIs(t, err, cg.ErrNilClosure)

	a, _ := matrix.Identity(2)
	_, err = cg.Solve(matrix.DenseClosure(a), nil, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	wrong := func(rhs *matrix.Dense) (*matrix.Dense, error) { return matrix.NewDense(3, rhs.Cols()) }
	_, err = cg.Solve(wrong, b, nil)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	boom := errors.New("boom")
	failing := func(*matrix.Dense) (*matrix.Dense, error) { return nil, boom }
	_, err = cg.Solve(failing, b, nil)
	require.ErrorIs(t, err, boom)
}

func TestSolve_SingularDirectionStops(t *testing.T) {
	// A is PSD with a null direction along e2; b has no component there.
	a, _ := matrix.FromDiag([]float64{2, 0})
	b, _ := matrix.NewVector([]float64{4, 0})
	x, err := cg.Solve(matrix.DenseClosure(a), b, nil)
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{2, 0}, x.RawData(), 1e-12)
}
