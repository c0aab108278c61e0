// SPDX-License-Identifier: MIT

package functions

import (
	"fmt"

	"github.com/katalvlaran/lazygp/cg"
	"github.com/katalvlaran/lazygp/config"
	"github.com/katalvlaran/lazygp/matrix"
	"github.com/katalvlaran/lazygp/slq"
)

// MatmulClosureFactory builds the closure X ↦ A·X from closure arguments.
type MatmulClosureFactory func(args ...*matrix.Dense) (matrix.MatmulClosure, error)

// QuadFormGradient returns, for each closure argument, ∂/∂arg Σ_i L_iᵗ A R_i
// where L_i, R_i are the columns of left and right. Gradients are shaped like
// their argument.
type QuadFormGradient func(left, right *matrix.Dense) ([]*matrix.Dense, error)

// DerivativeQuadraticFormFactory builds a QuadFormGradient from closure arguments.
type DerivativeQuadraticFormFactory func(args ...*matrix.Dense) (QuadFormGradient, error)

// Function is a node of a reverse-mode computation graph.
type Function interface {
	// Forward computes the output and saves what Backward needs.
	Forward(inputs ...*matrix.Dense) (*matrix.Dense, error)
	// Backward returns one gradient per Forward input (nil where not needed).
	Backward(gradOutput *matrix.Dense) ([]*matrix.Dense, error)
}

// Option customizes a Factory.
type Option func(*Factory)

// WithoutDerivative removes the derivative factory, including the dense
// default. Every Backward then fails with ErrNotImplemented.
func WithoutDerivative() Option {
	return func(f *Factory) { f.deriv = nil }
}

// WithNumArgs fixes the number of closure arguments (fixed plus input args)
// the closure factories expect; Forward fails with ErrInputCount otherwise.
// Panics if n<0.
func WithNumArgs(n int) Option {
	if n < 0 {
		panic("functions: WithNumArgs: n must be >= 0")
	}

	return func(f *Factory) { f.numArgs = n }
}

// Factory produces Function nodes sharing one pair of closure factories and
// one Config.
type Factory struct {
	matmul  MatmulClosureFactory
	deriv   DerivativeQuadraticFormFactory
	cfg     *config.Config
	numArgs int // -1: any
}

// NewFactory returns a Factory.
//
// When matmul is nil the dense default is used: argument 0 is the explicit
// matrix A, and (unless deriv is given) the derivative factory returns L Rᵗ.
// A custom matmul without deriv leaves the Factory without derivatives.
// nil cfg means config.Default().
func NewFactory(matmul MatmulClosureFactory, deriv DerivativeQuadraticFormFactory, cfg *config.Config, opts ...Option) *Factory {
	f := &Factory{matmul: matmul, deriv: deriv, cfg: config.OrDefault(cfg), numArgs: -1}
	if matmul == nil {
		f.matmul = DenseMatmulClosureFactory
		f.numArgs = 1
		if deriv == nil {
			f.deriv = DenseDerivativeQuadraticFormFactory
		}
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Config returns the Factory's configuration.
func (f *Factory) Config() *config.Config { return f.cfg }

// DenseMatmulClosureFactory treats args[0] as an explicit square matrix.
func DenseMatmulClosureFactory(args ...*matrix.Dense) (matrix.MatmulClosure, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("DenseMatmulClosureFactory: %d args: %w", len(args), ErrInputCount)
	}
	if err := matrix.ValidateSquare(args[0]); err != nil {
		return nil, fmt.Errorf("DenseMatmulClosureFactory: %w", err)
	}

	return matrix.DenseClosure(args[0]), nil
}

// DenseDerivativeQuadraticFormFactory returns the gradient of Σ L_iᵗ A R_i
// with respect to a dense A, which is L Rᵗ.
func DenseDerivativeQuadraticFormFactory(args ...*matrix.Dense) (QuadFormGradient, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("DenseDerivativeQuadraticFormFactory: %d args: %w", len(args), ErrInputCount)
	}

	return func(left, right *matrix.Dense) ([]*matrix.Dense, error) {
		if err := matrix.ValidateBinarySameShape(left, right); err != nil {
			return nil, fmt.Errorf("dense quadratic form gradient: %w", err)
		}
		g, err := matrix.Mul(left, matrix.Transpose(right))
		if err != nil {
			return nil, err
		}

		return []*matrix.Dense{g}, nil
	}, nil
}

// closure builds the matmul closure, enforcing WithNumArgs.
func (f *Factory) closure(args []*matrix.Dense) (matrix.MatmulClosure, error) {
	if f.numArgs >= 0 && len(args) != f.numArgs {
		return nil, fmt.Errorf("%d closure args, want %d: %w", len(args), f.numArgs, ErrInputCount)
	}

	return f.matmul(args...)
}

// quadFormGradient builds the derivative closure and checks its arity.
func (f *Factory) quadFormGradient(args []*matrix.Dense) (QuadFormGradient, error) {
	if f.deriv == nil {
		return nil, ErrNotImplemented
	}
	qf, err := f.deriv(args...)
	if err != nil {
		return nil, err
	}

	return func(left, right *matrix.Dense) ([]*matrix.Dense, error) {
		grads, err := qf(left, right)
		if err != nil {
			return nil, err
		}
		if len(grads) != len(args) {
			return nil, fmt.Errorf("%d gradients for %d closure args: %w", len(grads), len(args), ErrInputCount)
		}

		return grads, nil
	}, nil
}

// logDet returns log|A|: SLQ in fastest mode, dense Cholesky otherwise.
func (f *Factory) logDet(op matrix.MatmulClosure, n int) (float64, error) {
	if f.cfg.Fastest {
		return slq.New(f.cfg).LogDet(op, n)
	}

	return slq.ExactLogDet(op, n)
}

// solve runs CG under the Factory's configuration.
func (f *Factory) solve(op matrix.MatmulClosure, rhs *matrix.Dense) (*matrix.Dense, error) {
	return cg.Solve(op, rhs, f.cfg)
}

var (
	_ Function = (*InvMatmulNode)(nil)
	_ Function = (*MatmulNode)(nil)
	_ Function = (*TraceLogDetQuadFormNode)(nil)
	_ Function = (*ExactGPMLLNode)(nil)
	_ Function = (*AddDiagNode)(nil)
	_ Function = (*DSMMNode)(nil)
)
