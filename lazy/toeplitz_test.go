package lazy_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lazygp/internal/testutil"
	"github.com/katalvlaran/lazygp/lazy"
	"github.com/katalvlaran/lazygp/matrix"
	"github.com/katalvlaran/lazygp/toeplitz"
)

var (
	fixtureC = []float64{4, 2, 1, 0.5}
	jLeft    = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {1, 3}}
	cLeft    = [][]float64{{0.7, 0.3}, {0.5, 0.5}, {0.9, 0.1}, {1, 0}, {0.25, 0.75}}
	jRight   = [][]int{{0, 2}, {1, 1}, {2, 0}, {3, 2}, {0, 3}}
	cRight   = [][]float64{{0.6, 0.4}, {0.2, 0.8}, {1, 0}, {0.3, 0.7}, {0.5, 0.5}}
	addDiag  = []float64{1, 2, 3, 4, 5}
)

// reference materializes W_left T(c) W_rightᵗ + diag(d) densely.
func reference(t *testing.T, c []float64, d []float64) *matrix.Dense {
	t.Helper()
	tm, err := toeplitz.SymToeplitz(c)
	require.NoError(t, err)
	wl, err := toeplitz.IndexCoefToSparse(jLeft, cLeft, len(c))
	require.NoError(t, err)
	wr, err := toeplitz.IndexCoefToSparse(jRight, cRight, len(c))
	require.NoError(t, err)
	lt, err := matrix.Mul(wl, tm)
	require.NoError(t, err)
	out, err := matrix.Mul(lt, matrix.Transpose(wr))
	require.NoError(t, err)
	if d != nil {
		dd, _ := matrix.FromDiag(d)
		out, err = matrix.Add(out, dd)
		require.NoError(t, err)
	}

	return out
}

func sliceDense(t *testing.T, m *matrix.Dense, r0, r1, c0, c1 int) *matrix.Dense {
	t.Helper()
	ld, err := lazy.NewDense(m)
	require.NoError(t, err)
	s, err := ld.Slice(r0, r1, c0, c1)
	require.NoError(t, err)
	out, err := s.Evaluate()
	require.NoError(t, err)

	return out
}

// ToeplitzSuite exercises the interpolated Toeplitz lazy variable.
type ToeplitzSuite struct {
	suite.Suite
	tv *lazy.Toeplitz
}

func (s *ToeplitzSuite) SetupTest() {
	tv, err := lazy.NewToeplitz(fixtureC,
		lazy.WithInterpolation(jLeft, cLeft, jRight, cRight),
		lazy.WithAddedDiag(addDiag))
	require.NoError(s.T(), err)
	s.tv = tv
}

func (s *ToeplitzSuite) TestEvaluate() {
	got, err := s.tv.Evaluate()
	require.NoError(s.T(), err)
	testutil.RequireAllClose(s.T(), reference(s.T(), fixtureC, addDiag), got, 0, 1e-12)
	rows, cols := s.tv.Size()
	require.Equal(s.T(), 5, rows)
	require.Equal(s.T(), 5, cols)
}

func (s *ToeplitzSuite) TestDiag() {
	want, _ := matrix.Diag(reference(s.T(), fixtureC, addDiag))
	got, err := s.tv.Diag()
	require.NoError(s.T(), err)
	testutil.RequireSliceClose(s.T(), want, got, 1e-12)
}

func (s *ToeplitzSuite) TestMatmul() {
	x := testutil.RandomMatrix(s.T(), 5, 3, 7)
	want, _ := matrix.Mul(reference(s.T(), fixtureC, addDiag), x)
	got, err := s.tv.Matmul(x)
	require.NoError(s.T(), err)
	testutil.RequireAllClose(s.T(), want, got, 0, 1e-12)

	_, err = s.tv.Matmul(testutil.RandomMatrix(s.T(), 4, 1, 1))
	require.ErrorIs(s.T(), err, matrix.ErrDimensionMismatch)
}

func (s *ToeplitzSuite) TestMul() {
	scaled := s.tv.Mul(-2.5)
	got, err := scaled.Evaluate()
	require.NoError(s.T(), err)
	want := matrix.Scale(reference(s.T(), fixtureC, addDiag), -2.5)
	testutil.RequireAllClose(s.T(), want, got, 0, 1e-12)

	orig, _ := s.tv.Evaluate()
	testutil.RequireAllClose(s.T(), reference(s.T(), fixtureC, addDiag), orig, 0, 1e-12)
}

func (s *ToeplitzSuite) TestSliceLaws() {
	full := reference(s.T(), fixtureC, addDiag)
	for _, r := range [][4]int{
		{0, 5, 0, 5}, {1, 4, 1, 4}, {0, 3, 1, 4}, {2, 5, 0, 2}, {4, 5, 4, 5}, {0, 1, 0, 5},
	} {
		s.Run(fmt.Sprintf("%v", r), func() {
			sl, err := s.tv.Slice(r[0], r[1], r[2], r[3])
			require.NoError(s.T(), err)
			got, err := sl.Evaluate()
			require.NoError(s.T(), err)
			testutil.RequireAllClose(s.T(), sliceDense(s.T(), full, r[0], r[1], r[2], r[3]), got, 0, 1e-12)
		})
	}

	// Slicing twice composes.
	outer, err := s.tv.Slice(1, 5, 0, 4)
	require.NoError(s.T(), err)
	inner, err := outer.Slice(1, 3, 2, 4)
	require.NoError(s.T(), err)
	got, err := inner.Evaluate()
	require.NoError(s.T(), err)
	testutil.RequireAllClose(s.T(), sliceDense(s.T(), full, 2, 4, 2, 4), got, 0, 1e-12)
	d, err := inner.Diag()
	require.NoError(s.T(), err)
	wantDiag, _ := matrix.Diag(sliceDense(s.T(), full, 2, 4, 2, 4))
	testutil.RequireSliceClose(s.T(), wantDiag, d, 1e-12)

	rows, err := s.tv.Rows(3, 5)
	require.NoError(s.T(), err)
	got, err = rows.Evaluate()
	require.NoError(s.T(), err)
	testutil.RequireAllClose(s.T(), sliceDense(s.T(), full, 3, 5, 0, 5), got, 0, 1e-12)
}

func (s *ToeplitzSuite) TestDiagOfOffsetSquareSlice() {
	sl, err := s.tv.Slice(0, 3, 1, 4)
	require.NoError(s.T(), err)
	want, _ := matrix.Diag(sliceDense(s.T(), reference(s.T(), fixtureC, addDiag), 0, 3, 1, 4))
	got, err := sl.Diag()
	require.NoError(s.T(), err)
	testutil.RequireSliceClose(s.T(), want, got, 1e-12)

	rect, err := s.tv.Slice(0, 2, 0, 5)
	require.NoError(s.T(), err)
	_, err = rect.Diag()
	require.ErrorIs(s.T(), err, matrix.ErrNonSquare)
}

func (s *ToeplitzSuite) TestSliceErrors() {
	_, err := s.tv.Slice(0, 6, 0, 5)
	require.ErrorIs(s.T(), err, lazy.ErrSliceRange)
	_, err = s.tv.Slice(2, 2, 0, 5)
	require.ErrorIs(s.T(), err, lazy.ErrSliceRange)
	_, err = s.tv.Index(0)
	require.ErrorIs(s.T(), err, lazy.ErrNotBatched)
}

func (s *ToeplitzSuite) TestRepeatAndBatchMatmul() {
	rep, err := s.tv.Repeat(3)
	require.NoError(s.T(), err)
	require.True(s.T(), rep.Batched())
	require.Equal(s.T(), 3, rep.BatchSize())

	_, err = rep.Evaluate()
	require.ErrorIs(s.T(), err, lazy.ErrBatched)
	_, err = rep.Matmul(testutil.RandomMatrix(s.T(), 5, 1, 1))
	require.ErrorIs(s.T(), err, lazy.ErrBatched)

	ref := reference(s.T(), fixtureC, addDiag)
	all, err := rep.EvaluateBatch()
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 3)
	for _, m := range all {
		testutil.RequireAllClose(s.T(), ref, m, 0, 1e-12)
	}

	rhs := []*matrix.Dense{
		testutil.RandomMatrix(s.T(), 5, 2, 1),
		testutil.RandomMatrix(s.T(), 5, 2, 2),
		testutil.RandomMatrix(s.T(), 5, 2, 3),
	}
	out, err := rep.BatchMatmul(rhs)
	require.NoError(s.T(), err)
	for b := range rhs {
		want, _ := matrix.Mul(ref, rhs[b])
		testutil.RequireAllClose(s.T(), want, out[b], 0, 1e-12)
	}
	_, err = rep.BatchMatmul(rhs[:2])
	require.ErrorIs(s.T(), err, lazy.ErrBatchMismatch)
}

func TestToeplitzSuite(t *testing.T) {
	suite.Run(t, new(ToeplitzSuite))
}

func TestToeplitz_NoInterpolation(t *testing.T) {
	tv, err := lazy.NewToeplitz([]float64{1, 2, 3, 4}, lazy.WithAddedDiag([]float64{3, 3, 3, 3}))
	require.NoError(t, err)
	got, err := tv.Evaluate()
	require.NoError(t, err)
	require.Equal(t, []float64{
		4, 2, 3, 4,
		2, 4, 2, 3,
		3, 2, 4, 2,
		4, 3, 2, 4,
	}, got.RawData())

	d, err := tv.Diag()
	require.NoError(t, err)
	require.Equal(t, []float64{4, 4, 4, 4}, d)

	sl, err := tv.Slice(1, 3, 0, 4)
	require.NoError(t, err)
	got, err = sl.Evaluate()
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 2, 3, 3, 2, 4, 2}, got.RawData())
}

func TestToeplitz_Batch(t *testing.T) {
	c2 := []float64{1, 0.5, 0.25, 0}
	bv, err := lazy.NewToeplitzBatch([][]float64{fixtureC, c2},
		lazy.WithInterpolation(jLeft, cLeft, jRight, cRight),
		lazy.WithAddedDiag(addDiag))
	require.NoError(t, err)
	require.Equal(t, 2, bv.BatchSize())

	second, err := bv.Index(1)
	require.NoError(t, err)
	require.False(t, second.Batched())
	got, err := second.Evaluate()
	require.NoError(t, err)
	testutil.RequireAllClose(t, reference(t, c2, addDiag), got, 0, 1e-12)

	// batch slice then matrix slice equals the slice of the evaluated entry
	bs, err := bv.BatchSlice(1, 2)
	require.NoError(t, err)
	sl, err := bs.Slice(1, 4, 0, 3)
	require.NoError(t, err)
	entries, err := sl.EvaluateBatch()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	testutil.RequireAllClose(t, sliceDense(t, reference(t, c2, addDiag), 1, 4, 0, 3), entries[0], 0, 1e-12)

	diags, err := bv.DiagBatch()
	require.NoError(t, err)
	want0, _ := matrix.Diag(reference(t, fixtureC, addDiag))
	testutil.RequireSliceClose(t, want0, diags[0], 1e-12)

	tiled, err := bv.Repeat(2)
	require.NoError(t, err)
	require.Equal(t, 4, tiled.BatchSize())
	third, err := tiled.Index(3)
	require.NoError(t, err)
	got, err = third.Evaluate()
	require.NoError(t, err)
	testutil.RequireAllClose(t, reference(t, c2, addDiag), got, 0, 1e-12)

	_, err = bv.Index(2)
	require.ErrorIs(t, err, lazy.ErrSliceRange)
}

func TestToeplitz_ConstructionErrors(t *testing.T) {
	_, err := lazy.NewToeplitz(nil)
	require.ErrorIs(t, err, toeplitz.ErrEmptyVector)

	_, err = lazy.NewToeplitzBatch([][]float64{{1, 2}, {1}})
	require.ErrorIs(t, err, lazy.ErrBatchMismatch)

	_, err = lazy.NewToeplitz([]float64{1, 2}, lazy.WithAddedDiag([]float64{1}))
	require.ErrorIs(t, err, lazy.ErrDiagLength)

	_, err = lazy.NewToeplitz(fixtureC,
		lazy.WithInterpolation(jLeft, cLeft, jRight[:3], cRight[:3]),
		lazy.WithAddedDiag([]float64{1, 1, 1, 1, 1}))
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	_, err = lazy.NewToeplitz([]float64{1, 2}, lazy.WithInterpolation(jLeft, cLeft, jRight, cRight))
	require.ErrorIs(t, err, toeplitz.ErrIndexOutOfRange)
}

func TestToeplitz_LargeCoreUsesFFT(t *testing.T) {
	const m = 100
	c := make([]float64, m)
	for k := range c {
		c[k] = 1 / (1 + float64(k*k))
	}
	tv, err := lazy.NewToeplitz(c)
	require.NoError(t, err)
	x := testutil.RandomMatrix(t, m, 2, 3)
	dense, _ := toeplitz.SymToeplitz(c)
	want, _ := matrix.Mul(dense, x)
	got, err := tv.Matmul(x)
	require.NoError(t, err)
	testutil.RequireAllClose(t, want, got, 0, 1e-10)
}
