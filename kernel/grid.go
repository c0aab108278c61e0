// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lazygp/functions"
	"github.com/katalvlaran/lazygp/lazy"
	"github.com/katalvlaran/lazygp/matrix"
	"github.com/katalvlaran/lazygp/toeplitz"
)

// gridPadding is the number of extra grid points on each side of [lo, hi]
// that keeps every 4-point cubic stencil inside the grid.
const gridPadding = 2

// NewGrid returns size regularly spaced points whose interior
// [size−2·gridPadding points] spans [lo, hi] exactly.
// Errors: matrix.ErrInvalidDimensions when size < 6 or hi <= lo.
func NewGrid(size int, lo, hi float64) ([]float64, error) {
	if size < 2*gridPadding+2 || !(hi > lo) {
		return nil, fmt.Errorf("NewGrid: size=%d [%g, %g]: %w", size, lo, hi, matrix.ErrInvalidDimensions)
	}
	h := (hi - lo) / float64(size-2*gridPadding-1)
	grid := make([]float64, size)
	for i := range grid {
		grid[i] = lo + float64(i-gridPadding)*h
	}

	return grid, nil
}

// GridInterpolation approximates the RBF kernel on inputs X through a Toeplitz
// kernel on a regular grid: K ≈ W T(c) Wᵗ + e^{logNoise} I.
type GridInterpolation struct {
	grid []float64
	w    *toeplitz.Interp
	eps  float64
}

// NewGridInterpolation precomputes the cubic interpolation of x onto grid.
// eps=0 means DefaultEps.
func NewGridInterpolation(x, grid []float64, eps float64) (*GridInterpolation, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("NewGridInterpolation: %w", ErrNoInputs)
	}
	w, err := toeplitz.CubicInterpolation(x, grid)
	if err != nil {
		return nil, fmt.Errorf("NewGridInterpolation: %w", err)
	}
	if eps == 0 {
		eps = DefaultEps
	}

	return &GridInterpolation{grid: append([]float64(nil), grid...), w: w, eps: eps}, nil
}

// Interp returns the interpolation matrix W.
func (g *GridInterpolation) Interp() *toeplitz.Interp { return g.w }

// column returns c_k = exp(−(grid_0 − grid_k)² / s) and ∂c_k/∂ℓ.
func (g *GridInterpolation) column(logLengthscale float64) ([]float64, []float64) {
	el := math.Exp(logLengthscale)
	s := el + g.eps
	c := make([]float64, len(g.grid))
	dc := make([]float64, len(g.grid))
	var d float64
	for k := range g.grid {
		d = g.grid[0] - g.grid[k]
		c[k] = math.Exp(-d * d / s)
		dc[k] = c[k] * d * d * el / (s * s)
	}

	return c, dc
}

// Covariance returns the interpolated covariance as a lazy variable.
func (g *GridInterpolation) Covariance(logLengthscale, logNoise float64) (*lazy.Toeplitz, error) {
	c, _ := g.column(logLengthscale)
	noise := make([]float64, g.w.Rows())
	for i := range noise {
		noise[i] = math.Exp(logNoise)
	}

	return lazy.NewToeplitz(c, lazy.WithInterpolators(g.w, g.w), lazy.WithAddedDiag(noise))
}

// MatmulClosureFactory returns a factory over (logLengthscale, logNoise).
func (g *GridInterpolation) MatmulClosureFactory() functions.MatmulClosureFactory {
	return func(args ...*matrix.Dense) (matrix.MatmulClosure, error) {
		ll, ln, err := hyper(args)
		if err != nil {
			return nil, fmt.Errorf("GridInterpolation closure: %w", err)
		}
		t, err := g.Covariance(ll, ln)
		if err != nil {
			return nil, err
		}

		return t.Matmul, nil
	}
}

// DerivativeQuadraticFormFactory returns gradients with respect to
// (logLengthscale, logNoise), chaining the Toeplitz derivative w.r.t. c
// through ∂c/∂ℓ.
func (g *GridInterpolation) DerivativeQuadraticFormFactory() functions.DerivativeQuadraticFormFactory {
	return func(args ...*matrix.Dense) (functions.QuadFormGradient, error) {
		ll, ln, err := hyper(args)
		if err != nil {
			return nil, fmt.Errorf("GridInterpolation derivative: %w", err)
		}
		_, dc := g.column(ll)
		noise := math.Exp(ln)

		return func(left, right *matrix.Dense) ([]*matrix.Dense, error) {
			l, err := g.w.ApplyT(left)
			if err != nil {
				return nil, fmt.Errorf("GridInterpolation derivative: %w", err)
			}
			r, err := g.w.ApplyT(right)
			if err != nil {
				return nil, fmt.Errorf("GridInterpolation derivative: %w", err)
			}
			gc, err := toeplitz.DerivQuadForm(l, r)
			if err != nil {
				return nil, fmt.Errorf("GridInterpolation derivative: %w", err)
			}
			gl := 0.0
			for k := range gc {
				gl += gc[k] * dc[k]
			}
			gn, _ := matrix.SumProduct(left, right)

			return Hyper(gl, noise*gn), nil
		}, nil
	}
}
