// SPDX-License-Identifier: MIT

package slq

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lazygp/config"
	"github.com/katalvlaran/lazygp/matrix"
)

const opTraceComponents = "TraceComponents"

// SampleMatrix returns the probe matrix Z used by TraceComponents.
//
// Policy:
//   - cfg.Fastest && n > cfg.NumTraceSamples: n×s Rademacher entries scaled by
//     1/√s, so that Σ (LZ)⊙(RZ) is an unbiased estimate of tr(Lᵗ R).
//   - otherwise: the n×n identity, which makes the same sum exact.
func SampleMatrix(n int, cfg *config.Config) (*matrix.Dense, error) {
	cfg = config.OrDefault(cfg)
	if n <= 0 {
		return nil, matrix.ErrInvalidDimensions
	}
	s := cfg.NumTraceSamples
	if !cfg.Fastest || n <= s {
		return matrix.Identity(n)
	}
	z, err := matrix.NewDense(n, s)
	if err != nil {
		return nil, err
	}
	data := z.RawData()
	config.Rademacher(cfg.Rand, data)
	matrix.ScaleInPlace(z, 1/math.Sqrt(float64(s)))

	return z, nil
}

// TraceComponents returns (left(Z), right(Z)) for the probe matrix Z of
// SampleMatrix; a nil closure stands for the identity map. For linear
// closures L and R, SumProduct of the pair estimates tr(Lᵗ R), and feeding
// the pair to a derivative-quadratic-form closure estimates tr(Lᵗ ∂A R).
//
// Errors: matrix.ErrInvalidDimensions, matrix.ErrDimensionMismatch, closure errors.
func TraceComponents(left, right matrix.MatmulClosure, n int, cfg *config.Config) (*matrix.Dense, *matrix.Dense, error) {
	z, err := SampleMatrix(n, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", opTraceComponents, err)
	}
	l, r := z, z
	if left != nil {
		if l, err = matrix.Apply(left, z); err != nil {
			return nil, nil, fmt.Errorf("%s: left: %w", opTraceComponents, err)
		}
	}
	if right != nil {
		if r, err = matrix.Apply(right, z); err != nil {
			return nil, nil, fmt.Errorf("%s: right: %w", opTraceComponents, err)
		}
	}

	return l, r, nil
}

// Trace estimates tr(A) as Σ Z ⊙ op(Z).
func Trace(op matrix.MatmulClosure, n int, cfg *config.Config) (float64, error) {
	z, az, err := TraceComponents(nil, op, n, cfg)
	if err != nil {
		return 0, err
	}

	return matrix.SumProduct(z, az)
}
