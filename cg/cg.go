// SPDX-License-Identifier: MIT

package cg

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lazygp/config"
	"github.com/katalvlaran/lazygp/matrix"
)

// ErrNilClosure is returned when Solve receives a nil matmul closure.
var ErrNilClosure = errors.New("cg: nil matmul closure")

// degenerateCurvature bounds pᵗAp from below; smaller values end the column's
// recurrence before alpha = rho/pᵗAp can blow up.
const degenerateCurvature = 1e-300

const opSolve = "Solve"

// Info reports how a solve terminated.
type Info struct {
	Iterations int       // closure applications performed
	Converged  bool      // every column reached the relative tolerance
	Residuals  []float64 // final ‖r_j‖/‖b_j‖ per column (0 for zero columns)
}

// column holds the transient recurrence state of one right-hand side.
type column struct {
	x, r, p []float64
	rho     float64 // rᵗr
	bNorm   float64
	active  bool
	done    bool // converged (as opposed to stopped on degeneracy)
}

// Solve returns x with op(x) ≈ rhs. See SolveWithInfo.
func Solve(op matrix.MatmulClosure, rhs *matrix.Dense, cfg *config.Config) (*matrix.Dense, error) {
	x, _, err := SolveWithInfo(op, rhs, cfg)

	return x, err
}

// SolveWithInfo runs Conjugate Gradients from x0 = 0 on every column of rhs.
//
// Implementation:
//   - Stage 1: validate inputs; zero columns are finished immediately (x_j = 0).
//   - Stage 2: per iteration, pack active directions into one n×k block and call
//     op once; update x, r, p per column with its own alpha and beta.
//   - Stage 3: stop a column when ‖r_j‖/‖b_j‖ < cfg.CGTolerance, or when
//     pᵗAp is not safely positive (degenerate direction).
//
// Errors:
//   - ErrNilClosure, matrix.ErrNilMatrix for missing inputs.
//   - matrix.ErrDimensionMismatch when op changes the shape of its input.
//   - Errors returned by op itself.
//
// Complexity:
//   - Time O(maxIter * (cost(op) + n*k)), Space O(n*k).
func SolveWithInfo(op matrix.MatmulClosure, rhs *matrix.Dense, cfg *config.Config) (*matrix.Dense, Info, error) {
	if op == nil {
		return nil, Info{}, fmt.Errorf("%s: %w", opSolve, ErrNilClosure)
	}
	if err := matrix.ValidateNotNil(rhs); err != nil {
		return nil, Info{}, fmt.Errorf("%s: %w", opSolve, err)
	}
	cfg = config.OrDefault(cfg)
	n, k := rhs.Shape()

	cols := make([]column, k)
	var j int
	for j = 0; j < k; j++ {
		b, _ := rhs.Col(j)
		c := &cols[j]
		c.x = make([]float64, n)
		c.r = b
		c.bNorm = floats.Norm(b, 2)
		if c.bNorm == 0 {
			c.done = true
			continue
		}
		c.p = make([]float64, n)
		copy(c.p, b)
		c.rho = c.bNorm * c.bNorm
		c.active = true
	}

	info := Info{Residuals: make([]float64, k)}
	block, err := matrix.NewDense(n, k)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%s: %w", opSolve, err)
	}
	for info.Iterations < cfg.MaxCGIterations && anyActive(cols) {
		for j = range cols {
			if cols[j].active {
				_ = block.SetCol(j, cols[j].p)
			} else {
				_ = block.SetCol(j, make([]float64, n))
			}
		}
		ap, err := matrix.Apply(op, block)
		if err != nil {
			return nil, Info{}, fmt.Errorf("%s: iteration %d: %w", opSolve, info.Iterations, err)
		}
		info.Iterations++

		for j = range cols {
			c := &cols[j]
			if !c.active {
				continue
			}
			apj, _ := ap.Col(j)
			curv := floats.Dot(c.p, apj)
			if !(curv > degenerateCurvature) || math.IsInf(curv, 0) {
				c.active = false
				continue
			}
			alpha := c.rho / curv
			floats.AddScaled(c.x, alpha, c.p)
			floats.AddScaled(c.r, -alpha, apj)
			rhoNext := floats.Dot(c.r, c.r)
			if math.Sqrt(rhoNext)/c.bNorm < cfg.CGTolerance {
				c.active, c.done = false, true
				c.rho = rhoNext
				continue
			}
			beta := rhoNext / c.rho
			floats.Scale(beta, c.p)
			floats.Add(c.p, c.r)
			c.rho = rhoNext
		}
	}

	out, err := matrix.NewDense(n, k)
	if err != nil {
		return nil, Info{}, fmt.Errorf("%s: %w", opSolve, err)
	}
	info.Converged = true
	for j = range cols {
		_ = out.SetCol(j, cols[j].x)
		if cols[j].bNorm > 0 {
			info.Residuals[j] = math.Sqrt(cols[j].rho) / cols[j].bNorm
		}
		if !cols[j].done {
			info.Converged = false
		}
	}
	cfg.Logger.Debug("cg: solve finished",
		"n", n, "columns", k, "iterations", info.Iterations,
		"converged", info.Converged, "max_rel_residual", floats.Max(info.Residuals))

	return out, info, nil
}

func anyActive(cols []column) bool {
	for i := range cols {
		if cols[i].active {
			return true
		}
	}

	return false
}
