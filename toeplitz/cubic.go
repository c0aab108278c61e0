// SPDX-License-Identifier: MIT

package toeplitz

import (
	"fmt"
	"math"
)

// cubicA is the Keys cubic-convolution parameter.
const cubicA = -0.75

// gridRelTol is the relative spacing deviation accepted for a "regular" grid.
const gridRelTol = 1e-9

// keys evaluates the Keys cubic convolution kernel at t.
func keys(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t <= 1:
		return ((cubicA+2)*t-(cubicA+3))*t*t + 1
	case t < 2:
		return ((cubicA*t-5*cubicA)*t+8*cubicA)*t - 4*cubicA
	default:
		return 0
	}
}

// CubicInterpolation returns the interpolation matrix mapping values on a
// regular grid to the points x, four weights per point (indices
// floor(s)-1 … floor(s)+2 with s the fractional grid coordinate of x).
//
// Errors:
//   - ErrIrregularGrid when grid has fewer than 4 points or uneven spacing.
//   - ErrOutsideGrid when a stencil would leave the grid.
func CubicInterpolation(x, grid []float64) (*Interp, error) {
	m := len(grid)
	if m < 4 {
		return nil, fmt.Errorf("CubicInterpolation: %d grid points: %w", m, ErrIrregularGrid)
	}
	h := grid[1] - grid[0]
	if !(h > 0) {
		return nil, fmt.Errorf("CubicInterpolation: %w", ErrIrregularGrid)
	}
	var i int
	for i = 2; i < m; i++ {
		if math.Abs((grid[i]-grid[i-1])-h) > gridRelTol*math.Max(1, math.Abs(h)) {
			return nil, fmt.Errorf("CubicInterpolation: spacing at %d: %w", i, ErrIrregularGrid)
		}
	}

	js := make([][]int, len(x))
	cs := make([][]float64, len(x))
	var a int
	for i = range x {
		s := (x[i] - grid[0]) / h
		lower := int(math.Floor(s))
		if lower-1 < 0 || lower+2 >= m {
			// a point exactly on the last usable node keeps a valid stencil one cell left
			if lower+2 == m && s == float64(lower) {
				lower--
			} else {
				return nil, fmt.Errorf("CubicInterpolation: x[%d]=%g: %w", i, x[i], ErrOutsideGrid)
			}
		}
		js[i] = make([]int, 4)
		cs[i] = make([]float64, 4)
		for a = 0; a < 4; a++ {
			idx := lower - 1 + a
			js[i][a] = idx
			cs[i][a] = keys(s - float64(idx))
		}
	}

	return NewInterp(js, cs, m)
}
