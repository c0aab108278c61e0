// SPDX-License-Identifier: MIT

package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lazygp/functions"
	"github.com/katalvlaran/lazygp/matrix"
)

// DefaultEps keeps the lengthscale denominator away from zero.
const DefaultEps = 1e-5

// ErrNoInputs is returned when a kernel has no training inputs.
var ErrNoInputs = errors.New("kernel: no inputs")

// RBF is the kernel k(x, x') = exp(−(x−x')² / (e^ℓ + Eps)) on fixed inputs X.
type RBF struct {
	X   []float64
	Eps float64
}

// hyper unpacks (logLengthscale, logNoise) from 1×1 closure args.
func hyper(args []*matrix.Dense) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%d args, want 2: %w", len(args), functions.ErrInputCount)
	}
	var out [2]float64
	for i, a := range args {
		if err := matrix.ValidateNotNil(a); err != nil {
			return 0, 0, err
		}
		if a.Rows() != 1 || a.Cols() != 1 {
			return 0, 0, fmt.Errorf("arg %d is %dx%d, want 1x1: %w", i, a.Rows(), a.Cols(), matrix.ErrDimensionMismatch)
		}
		out[i] = a.RawData()[0]
	}

	return out[0], out[1], nil
}

// Hyper packs hyperparameters as closure args.
func Hyper(logLengthscale, logNoise float64) []*matrix.Dense {
	ll, _ := matrix.NewDenseFrom(1, 1, []float64{logLengthscale})
	ln, _ := matrix.NewDenseFrom(1, 1, []float64{logNoise})

	return []*matrix.Dense{ll, ln}
}

func (k RBF) eps() float64 {
	if k.Eps == 0 {
		return DefaultEps
	}

	return k.Eps
}

// base returns the noiseless kernel matrix and the squared distances.
func (k RBF) base(logLengthscale float64) (*matrix.Dense, *matrix.Dense, error) {
	n := len(k.X)
	if n == 0 {
		return nil, nil, ErrNoInputs
	}
	kk, _ := matrix.NewDense(n, n)
	dist, _ := matrix.NewDense(n, n)
	s := math.Exp(logLengthscale) + k.eps()
	kd, dd := kk.RawData(), dist.RawData()
	var i, j int
	var d float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			d = k.X[i] - k.X[j]
			dd[i*n+j] = d * d
			kd[i*n+j] = math.Exp(-d * d / s)
		}
	}

	return kk, dist, nil
}

// Covariance returns K = k(X, X) + e^{logNoise}·I.
func (k RBF) Covariance(logLengthscale, logNoise float64) (*matrix.Dense, error) {
	kk, _, err := k.base(logLengthscale)
	if err != nil {
		return nil, fmt.Errorf("RBF.Covariance: %w", err)
	}
	n := len(k.X)
	noise := math.Exp(logNoise)
	data := kk.RawData()
	for i := 0; i < n; i++ {
		data[i*n+i] += noise
	}

	return kk, nil
}

// MatmulClosureFactory returns a factory over (logLengthscale, logNoise).
func (k RBF) MatmulClosureFactory() functions.MatmulClosureFactory {
	return func(args ...*matrix.Dense) (matrix.MatmulClosure, error) {
		ll, ln, err := hyper(args)
		if err != nil {
			return nil, fmt.Errorf("RBF closure: %w", err)
		}
		kk, err := k.Covariance(ll, ln)
		if err != nil {
			return nil, err
		}

		return matrix.DenseClosure(kk), nil
	}
}

// DerivativeQuadraticFormFactory returns gradients of Σ L_iᵗ K R_i with
// respect to (logLengthscale, logNoise):
//
//	∂K/∂ℓ = K₀ ⊙ D · e^ℓ / (e^ℓ + Eps)²,   ∂K/∂logNoise = e^{logNoise} I.
func (k RBF) DerivativeQuadraticFormFactory() functions.DerivativeQuadraticFormFactory {
	return func(args ...*matrix.Dense) (functions.QuadFormGradient, error) {
		ll, ln, err := hyper(args)
		if err != nil {
			return nil, fmt.Errorf("RBF derivative: %w", err)
		}
		k0, dist, err := k.base(ll)
		if err != nil {
			return nil, fmt.Errorf("RBF derivative: %w", err)
		}
		el := math.Exp(ll)
		s := el + k.eps()
		dK, _ := matrix.Hadamard(k0, dist)
		matrix.ScaleInPlace(dK, el/(s*s))
		noise := math.Exp(ln)

		return func(left, right *matrix.Dense) ([]*matrix.Dense, error) {
			dkr, err := matrix.Mul(dK, right)
			if err != nil {
				return nil, fmt.Errorf("RBF derivative: %w", err)
			}
			gl, err := matrix.SumProduct(left, dkr)
			if err != nil {
				return nil, fmt.Errorf("RBF derivative: %w", err)
			}
			gn, _ := matrix.SumProduct(left, right)

			return Hyper(gl, noise*gn), nil
		}, nil
	}
}
