// SPDX-License-Identifier: MIT

package lazy

import (
	"fmt"

	"github.com/katalvlaran/lazygp/functions"
	"github.com/katalvlaran/lazygp/matrix"
	"github.com/katalvlaran/lazygp/toeplitz"
)

// withC returns a non-batched copy of t's structure around the generating
// vector held in arg (m×1 or 1×m).
func (t *Toeplitz) withC(arg *matrix.Dense) (*Toeplitz, error) {
	if t.batched {
		return nil, ErrBatched
	}
	if err := matrix.ValidateNotNil(arg); err != nil {
		return nil, err
	}
	if len(arg.RawData()) != t.CoreSize() {
		return nil, fmt.Errorf("generating vector has %d entries, want %d: %w",
			len(arg.RawData()), t.CoreSize(), matrix.ErrDimensionMismatch)
	}
	out := t.with()
	out.cs = [][]float64{append([]float64(nil), arg.RawData()...)}

	return out, nil
}

// MatmulClosureFactory exposes t to package functions with a single closure
// argument: the generating vector c. Interpolation and the added diagonal are
// taken from t.
func (t *Toeplitz) MatmulClosureFactory() functions.MatmulClosureFactory {
	return func(args ...*matrix.Dense) (matrix.MatmulClosure, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("Toeplitz closure: %d args: %w", len(args), functions.ErrInputCount)
		}
		v, err := t.withC(args[0])
		if err != nil {
			return nil, fmt.Errorf("Toeplitz closure: %w", err)
		}

		return v.Matmul, nil
	}
}

// DerivativeQuadraticFormFactory returns the gradient of Σ L_iᵗ M R_i with
// respect to c, i.e. the Toeplitz quadratic-form derivative of W_leftᵗ L and
// W_rightᵗ R. The added diagonal does not depend on c.
func (t *Toeplitz) DerivativeQuadraticFormFactory() functions.DerivativeQuadraticFormFactory {
	return func(args ...*matrix.Dense) (functions.QuadFormGradient, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("Toeplitz derivative: %d args: %w", len(args), functions.ErrInputCount)
		}
		v, err := t.withC(args[0])
		if err != nil {
			return nil, fmt.Errorf("Toeplitz derivative: %w", err)
		}
		shape := [2]int{args[0].Rows(), args[0].Cols()}

		return func(left, right *matrix.Dense) ([]*matrix.Dense, error) {
			l, err := v.left.ApplyT(left)
			if err != nil {
				return nil, fmt.Errorf("Toeplitz derivative: left: %w", err)
			}
			r, err := v.right.ApplyT(right)
			if err != nil {
				return nil, fmt.Errorf("Toeplitz derivative: right: %w", err)
			}
			g, err := toeplitz.DerivQuadForm(l, r)
			if err != nil {
				return nil, fmt.Errorf("Toeplitz derivative: %w", err)
			}
			grad, err := matrix.NewDenseFrom(shape[0], shape[1], g)
			if err != nil {
				return nil, err
			}

			return []*matrix.Dense{grad}, nil
		}, nil
	}
}

// CVector returns batch entry b's generating vector as an m×1 matrix, the
// closure argument expected by MatmulClosureFactory.
func (t *Toeplitz) CVector(b int) (*matrix.Dense, error) {
	if b < 0 || b >= len(t.cs) {
		return nil, fmt.Errorf("Toeplitz.CVector: %d: %w", b, ErrSliceRange)
	}

	return matrix.NewVector(t.cs[b])
}
