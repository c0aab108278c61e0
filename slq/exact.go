// SPDX-License-Identifier: MIT

package slq

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lazygp/matrix"
)

// symmetryRelTol is the relative asymmetry accepted when densifying a closure;
// iterative closures (e.g. FFT Toeplitz products) are symmetric only up to round-off.
const symmetryRelTol = 1e-8

// ExactLogDet densifies A (n closure columns) and returns log|A| from a
// Cholesky factorization. It is the reference used when approximation mode
// is off and by tests.
//
// Errors: matrix.ErrInvalidDimensions, matrix.ErrDimensionMismatch,
// matrix.ErrAsymmetry, matrix.ErrNotPositiveDefinite.
func ExactLogDet(op matrix.MatmulClosure, n int) (float64, error) {
	a, err := matrix.Densify(op, n)
	if err != nil {
		return 0, fmt.Errorf("ExactLogDet: %w", err)
	}
	maxAbs := 0.0
	for _, v := range a.RawData() {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	ld, err := matrix.CholeskyLogDet(a, symmetryRelTol*(1+maxAbs))
	if err != nil {
		return 0, fmt.Errorf("ExactLogDet: %w", err)
	}

	return ld, nil
}
