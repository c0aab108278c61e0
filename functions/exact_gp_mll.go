// SPDX-License-Identifier: MIT

package functions

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lazygp/matrix"
	"github.com/katalvlaran/lazygp/slq"
)

const opExactGPMLL = "ExactGPMLL"

// ExactGPMLLNode computes the exact GP marginal log-likelihood
// −½(yᵗK⁻¹y + log|K| + n log 2π). Inputs: K closure args..., y (n×1).
type ExactGPMLLNode struct {
	node
	args  []*matrix.Dense
	op    matrix.MatmulClosure
	alpha *matrix.Dense // K⁻¹y
}

// ExactGPMLL returns a new node. fixed args precede the K inputs.
func (f *Factory) ExactGPMLL(fixed ...*matrix.Dense) *ExactGPMLLNode {
	return &ExactGPMLLNode{node: node{f: f, fixed: fixed}}
}

// Forward returns the 1×1 log-likelihood.
func (e *ExactGPMLLNode) Forward(inputs ...*matrix.Dense) (*matrix.Dense, error) {
	if err := checkInputs(opExactGPMLL, inputs, 1); err != nil {
		return nil, err
	}
	args, y := inputs[:len(inputs)-1], inputs[len(inputs)-1]
	if !y.IsVector() {
		return nil, fmt.Errorf("%s: labels are %dx%d: %w", opExactGPMLL, y.Rows(), y.Cols(), matrix.ErrDimensionMismatch)
	}
	n := y.Rows()
	op, err := e.f.closure(e.closureArgs(args))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, err)
	}
	alpha, err := e.f.solve(op, y)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, err)
	}
	quad, _ := matrix.SumProduct(y, alpha)
	logDet, err := e.f.logDet(op, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, err)
	}

	e.args, e.op, e.alpha = args, op, alpha
	e.nInput, e.ready = len(inputs), true

	return scalar(-0.5 * (quad + logDet + float64(n)*math.Log(2*math.Pi))), nil
}

// Backward returns K arg grads ½g·(deriv(α, α) − deriv(K⁻¹Z, Z)) and y grad −g·α.
func (e *ExactGPMLLNode) Backward(g *matrix.Dense) ([]*matrix.Dense, error) {
	if !e.ready {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, ErrNoForward)
	}
	if e.f.deriv == nil {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, ErrNotImplemented)
	}
	gv, err := scalarGrad(opExactGPMLL, g)
	if err != nil {
		return nil, err
	}
	grads := make([]*matrix.Dense, e.nInput)
	nArgs := len(e.args)
	if e.needsGrad(nArgs) {
		grads[nArgs] = matrix.Scale(e.alpha, -gv)
	}
	if !e.anyNeeds(0, nArgs) {
		return grads, nil
	}

	z, err := slq.SampleMatrix(e.alpha.Rows(), e.f.cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, err)
	}
	kinvZ, err := e.f.solve(e.op, z)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, err)
	}
	qf, err := e.f.quadFormGradient(e.closureArgs(e.args))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, err)
	}
	quadGrads, err := qf(e.alpha, e.alpha)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, err)
	}
	traceGrads, err := qf(kinvZ, z)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, err)
	}
	argGrads, err := combineGrads(quadGrads, traceGrads)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opExactGPMLL, err)
	}
	e.assignArgGrads(grads, argGrads, 0, 0.5*gv)

	return grads, nil
}
