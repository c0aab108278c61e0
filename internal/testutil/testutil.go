// SPDX-License-Identifier: MIT

// Package testutil holds seeded fixtures and numeric checks shared by the
// package tests: random SPD matrices, dense references and central finite
// differences.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lazygp/config"
	"github.com/katalvlaran/lazygp/matrix"
)

// FDStep is the central-difference step used by gradient checks.
const FDStep = 1e-5

// RandomMatrix returns an r×c matrix with entries uniform in [-1, 1).
func RandomMatrix(t testing.TB, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	rng := config.RandFromSeed(seed)
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)
	data := m.RawData()
	for i := range data {
		data[i] = 2*rng.Float64() - 1
	}

	return m
}

// RandomSPD returns B Bᵗ / n + I for a random n×n B, a well-conditioned SPD matrix.
func RandomSPD(t testing.TB, n int, seed int64) *matrix.Dense {
	t.Helper()
	b := RandomMatrix(t, n, n, seed)
	a, err := matrix.Mul(b, matrix.Transpose(b))
	require.NoError(t, err)
	matrix.ScaleInPlace(a, 1/float64(n))
	data := a.RawData()
	for i := 0; i < n; i++ {
		data[i*n+i]++
	}

	return a
}

// Inverse returns a⁻¹ through gonum.
func Inverse(t testing.TB, a *matrix.Dense) *matrix.Dense {
	t.Helper()
	var inv mat.Dense
	require.NoError(t, inv.Inverse(matrix.ToGonum(a)))
	out, err := matrix.FromGonum(&inv)
	require.NoError(t, err)

	return out
}

// LogDet returns log|a| for SPD a through gonum Cholesky.
func LogDet(t testing.TB, a *matrix.Dense) float64 {
	t.Helper()
	ld, err := matrix.CholeskyLogDet(a, 1e-9)
	require.NoError(t, err)

	return ld
}

// CentralDiff returns (f(x+h) − f(x−h)) / 2h.
func CentralDiff(f func(float64) float64, x float64) float64 {
	return (f(x+FDStep) - f(x-FDStep)) / (2 * FDStep)
}

// RequireAllClose fails unless got ≈ want element-wise.
func RequireAllClose(t testing.TB, want, got *matrix.Dense, rtol, atol float64) {
	t.Helper()
	ok, err := matrix.AllClose(got, want, rtol, atol)
	require.NoError(t, err)
	require.True(t, ok, "want\n%vgot\n%vdiff (-want +got):\n%s", want, got, cmp.Diff(want.RawData(), got.RawData()))
}

// RequireSliceClose fails unless got ≈ want element-wise within atol.
func RequireSliceClose(t testing.TB, want, got []float64, atol float64) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, atol)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
