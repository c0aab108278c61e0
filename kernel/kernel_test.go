package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lazygp/config"
	"github.com/katalvlaran/lazygp/functions"
	"github.com/katalvlaran/lazygp/internal/testutil"
	"github.com/katalvlaran/lazygp/kernel"
	"github.com/katalvlaran/lazygp/matrix"
)

// linspace returns n points evenly spread over [lo, hi].
func linspace(lo, hi float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}

	return x
}

func quadForm(t *testing.T, k *matrix.Dense, l, r *matrix.Dense) float64 {
	t.Helper()
	kr, err := matrix.Mul(k, r)
	require.NoError(t, err)
	v, err := matrix.SumProduct(l, kr)
	require.NoError(t, err)

	return v
}

func TestRBF_Covariance(t *testing.T) {
	k := kernel.RBF{X: []float64{0, 0.5, 1}}
	cov, err := k.Covariance(math.Log(0.5), math.Log(0.1))
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(cov, 0))
	d, _ := matrix.Diag(cov)
	require.InDeltaSlice(t, []float64{1.1, 1.1, 1.1}, d, 1e-12)
	v, _ := cov.At(0, 1)
	require.InDelta(t, math.Exp(-0.25/(0.5+kernel.DefaultEps)), v, 1e-12)

	_, err = kernel.RBF{}.Covariance(0, 0)
	require.ErrorIs(t, err, kernel.ErrNoInputs)
}

func TestRBF_DerivativeFiniteDifference(t *testing.T) {
	k := kernel.RBF{X: linspace(0, 1, 7)}
	l := testutil.RandomMatrix(t, 7, 2, 1)
	r := testutil.RandomMatrix(t, 7, 2, 2)
	ll, ln := math.Log(0.3), math.Log(0.05)

	qf, err := k.DerivativeQuadraticFormFactory()(kernel.Hyper(ll, ln)...)
	require.NoError(t, err)
	grads, err := qf(l, r)
	require.NoError(t, err)
	require.Len(t, grads, 2)

	fdL := testutil.CentralDiff(func(v float64) float64 {
		cov, _ := k.Covariance(v, ln)
		return quadForm(t, cov, l, r)
	}, ll)
	fdN := testutil.CentralDiff(func(v float64) float64 {
		cov, _ := k.Covariance(ll, v)
		return quadForm(t, cov, l, r)
	}, ln)
	require.InDelta(t, fdL, grads[0].RawData()[0], 1e-6)
	require.InDelta(t, fdN, grads[1].RawData()[0], 1e-6)

	_, err = k.MatmulClosureFactory()(kernel.Hyper(ll, ln)[0])
	require.ErrorIs(t, err, functions.ErrInputCount)
}

func TestNewGrid(t *testing.T) {
	grid, err := kernel.NewGrid(50, 0, 1)
	require.NoError(t, err)
	require.Len(t, grid, 50)
	require.InDelta(t, 0.0, grid[2], 1e-15)
	require.InDelta(t, 1.0, grid[47], 1e-12)

	_, err = kernel.NewGrid(5, 0, 1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = kernel.NewGrid(10, 1, 1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func gridFixture(t *testing.T) ([]float64, *kernel.GridInterpolation) {
	t.Helper()
	x := linspace(0, 1, 51)
	grid, err := kernel.NewGrid(50, 0, 1)
	require.NoError(t, err)
	gi, err := kernel.NewGridInterpolation(x, grid, 0)
	require.NoError(t, err)

	return x, gi
}

func TestGridInterpolation_ApproximatesRBF(t *testing.T) {
	x, gi := gridFixture(t)
	ll, ln := math.Log(0.2), math.Log(0.1)

	tv, err := gi.Covariance(ll, ln)
	require.NoError(t, err)
	got, err := tv.Evaluate()
	require.NoError(t, err)
	want, err := kernel.RBF{X: x}.Covariance(ll, ln)
	require.NoError(t, err)
	testutil.RequireAllClose(t, want, got, 0, 1e-3)

	d, err := tv.Diag()
	require.NoError(t, err)
	wantDiag, _ := matrix.Diag(got)
	testutil.RequireSliceClose(t, wantDiag, d, 1e-12)
}

func TestGridInterpolation_DerivativeFiniteDifference(t *testing.T) {
	_, gi := gridFixture(t)
	l := testutil.RandomMatrix(t, 51, 2, 3)
	r := testutil.RandomMatrix(t, 51, 2, 4)
	ll, ln := math.Log(0.2), math.Log(0.1)

	qf, err := gi.DerivativeQuadraticFormFactory()(kernel.Hyper(ll, ln)...)
	require.NoError(t, err)
	grads, err := qf(l, r)
	require.NoError(t, err)

	quad := func(ll, ln float64) float64 {
		tv, err := gi.Covariance(ll, ln)
		require.NoError(t, err)
		tr, err := tv.Matmul(r)
		require.NoError(t, err)
		v, _ := matrix.SumProduct(l, tr)
		return v
	}
	fdL := testutil.CentralDiff(func(v float64) float64 { return quad(v, ln) }, ll)
	fdN := testutil.CentralDiff(func(v float64) float64 { return quad(ll, v) }, ln)
	require.InDelta(t, fdL, grads[0].RawData()[0], 1e-5*(1+math.Abs(fdL)))
	require.InDelta(t, fdN, grads[1].RawData()[0], 1e-5*(1+math.Abs(fdN)))
}

func TestGridInterpolation_ExactGPMLLGradient(t *testing.T) {
	x, gi := gridFixture(t)
	y := make([]float64, len(x))
	for i := range x {
		y[i] = math.Sin(6 * x[i])
	}
	yv, _ := matrix.NewVector(y)
	cfg := config.New(
		config.WithFastest(false),
		config.WithMaxCGIterations(500),
		config.WithCGTolerance(1e-11),
	)
	f := functions.NewFactory(gi.MatmulClosureFactory(), gi.DerivativeQuadraticFormFactory(), cfg)

	mll := func(ll, ln float64) float64 {
		out, err := f.ExactGPMLL().Forward(append(kernel.Hyper(ll, ln), yv)...)
		require.NoError(t, err)
		return out.RawData()[0]
	}
	ll, ln := math.Log(0.2), math.Log(0.1)
	node := f.ExactGPMLL()
	_, err := node.Forward(append(kernel.Hyper(ll, ln), yv)...)
	require.NoError(t, err)
	one, _ := matrix.NewDenseFrom(1, 1, []float64{1})
	grads, err := node.Backward(one)
	require.NoError(t, err)

	fdL := testutil.CentralDiff(func(v float64) float64 { return mll(v, ln) }, ll)
	fdN := testutil.CentralDiff(func(v float64) float64 { return mll(ll, v) }, ln)
	require.InDelta(t, fdL, grads[0].RawData()[0], 1e-4*(1+math.Abs(fdL)))
	require.InDelta(t, fdN, grads[1].RawData()[0], 1e-4*(1+math.Abs(fdN)))
}
