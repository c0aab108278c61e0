// Package matrix_test contains unit tests for Dense storage and accessors.
package matrix_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lazygp/matrix"
)

func TestNewDense_ZeroFilled(t *testing.T) {
	for _, tc := range []struct{ rows, cols int }{{1, 1}, {3, 2}, {6, 6}} {
		t.Run(fmt.Sprintf("%dx%d", tc.rows, tc.cols), func(t *testing.T) {
			m, err := matrix.NewDense(tc.rows, tc.cols)
			require.NoError(t, err)
			r, c := m.Shape()
			require.Equal(t, tc.rows, r)
			require.Equal(t, tc.cols, c)
			for _, v := range m.RawData() {
				require.Zero(t, v)
			}
		})
	}
}

func TestNewDense_InvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewDense(2, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewVector(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestNewDenseFrom_SharesBuffer(t *testing.T) {
	buf := []float64{1, 2, 3, 4}
	m, err := matrix.NewDenseFrom(2, 2, buf)
	require.NoError(t, err)
	buf[3] = 9
	v, err := m.At(1, 1)
	require.NoError(t, err)
	require.Equal(t, 9.0, v)

	_, err = matrix.NewDenseFrom(2, 3, buf)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestNewFromRows_Ragged(t *testing.T) {
	_, err := matrix.NewFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestAtSet_Bounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	require.NoError(t, m.Set(1, 0, 5))
	v, err := m.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 5.0, v)

	_, err = m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
}

func TestColSetColRow(t *testing.T) {
	m, err := matrix.NewFromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	require.NoError(t, err)

	col, err := m.Col(1)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 6}, col)

	require.NoError(t, m.SetCol(0, []float64{7, 8, 9}))
	row, err := m.Row(2)
	require.NoError(t, err)
	require.Equal(t, []float64{9, 6}, row)

	require.ErrorIs(t, m.SetCol(0, []float64{1}), matrix.ErrDimensionMismatch)
	_, err = m.Col(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestCopy_IsDeep(t *testing.T) {
	m, err := matrix.NewFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	cp := m.Copy()
	require.NoError(t, cp.Set(0, 0, 100))
	v, _ := m.At(0, 0)
	require.Equal(t, 1.0, v)
}

func TestIdentityAndString(t *testing.T) {
	eye, err := matrix.Identity(2)
	require.NoError(t, err)
	require.Equal(t, "[1, 0]\n[0, 1]\n", eye.String())
}
