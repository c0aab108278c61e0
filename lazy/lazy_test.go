package lazy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lazygp/internal/testutil"
	"github.com/katalvlaran/lazygp/lazy"
	"github.com/katalvlaran/lazygp/matrix"
)

func TestDense(t *testing.T) {
	m := testutil.RandomSPD(t, 4, 1)
	d, err := lazy.NewDense(m)
	require.NoError(t, err)

	rows, cols := d.Size()
	require.Equal(t, 4, rows)
	require.Equal(t, 4, cols)

	diag, err := d.Diag()
	require.NoError(t, err)
	want, _ := matrix.Diag(m)
	require.Equal(t, want, diag)

	x := testutil.RandomMatrix(t, 4, 2, 2)
	got, err := lazy.MatmulClosure(d)(x)
	require.NoError(t, err)
	wantX, _ := matrix.Mul(m, x)
	testutil.RequireAllClose(t, wantX, got, 0, 0)

	sl, err := d.Slice(1, 3, 0, 2)
	require.NoError(t, err)
	ev, err := sl.Evaluate()
	require.NoError(t, err)
	v, _ := m.At(2, 1)
	w, _ := ev.At(1, 1)
	require.Equal(t, v, w)

	_, err = d.Slice(0, 5, 0, 1)
	require.ErrorIs(t, err, lazy.ErrSliceRange)
	_, err = lazy.NewDense(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
