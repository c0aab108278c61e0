// SPDX-License-Identifier: MIT

package functions

import (
	"fmt"

	"github.com/katalvlaran/lazygp/matrix"
	"github.com/katalvlaran/lazygp/slq"
)

const opTraceLogDetQuadForm = "TraceLogDetQuadForm"

// TraceLogDetQuadFormNode computes log|K2| + tr(K2⁻¹ K1) + μᵗ K2⁻¹ μ with
// K1 = L Lᵗ. Inputs: μ (n×1), L (n×r), K2 closure args...
//
// This is the KL-type term of variational GP objectives, where μ and L are the
// variational mean and covariance factor and K2 the prior covariance.
type TraceLogDetQuadFormNode struct {
	node
	args  []*matrix.Dense
	op    matrix.MatmulClosure
	l     *matrix.Dense
	alpha *matrix.Dense // K2⁻¹μ
	kinvL *matrix.Dense // K2⁻¹L
}

// TraceLogDetQuadForm returns a new node. fixed args precede the K2 inputs.
func (f *Factory) TraceLogDetQuadForm(fixed ...*matrix.Dense) *TraceLogDetQuadFormNode {
	return &TraceLogDetQuadFormNode{node: node{f: f, fixed: fixed}}
}

// Forward returns the 1×1 value.
func (t *TraceLogDetQuadFormNode) Forward(inputs ...*matrix.Dense) (*matrix.Dense, error) {
	if err := checkInputs(opTraceLogDetQuadForm, inputs, 2); err != nil {
		return nil, err
	}
	mu, l, args := inputs[0], inputs[1], inputs[2:]
	if !mu.IsVector() || mu.Rows() != l.Rows() {
		return nil, fmt.Errorf("%s: mu %dx%d vs L %dx%d: %w", opTraceLogDetQuadForm,
			mu.Rows(), mu.Cols(), l.Rows(), l.Cols(), matrix.ErrDimensionMismatch)
	}
	n := mu.Rows()
	op, err := t.f.closure(t.closureArgs(args))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, err)
	}

	block, err := matrix.HStack(mu, l)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, err)
	}
	sol, err := t.f.solve(op, block)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, err)
	}
	alpha, _ := matrix.SliceCols(sol, 0, 1)
	kinvL, _ := matrix.SliceCols(sol, 1, sol.Cols())

	quad, _ := matrix.SumProduct(mu, alpha)
	trace, _ := matrix.SumProduct(l, kinvL)
	logDet, err := t.f.logDet(op, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, err)
	}

	t.args, t.op, t.l, t.alpha, t.kinvL = args, op, l.Copy(), alpha, kinvL
	t.nInput, t.ready = len(inputs), true

	return scalar(logDet + trace + quad), nil
}

// Backward returns μ grad 2g·K2⁻¹μ, L grad 2g·K2⁻¹L and K2 arg grads
// g·(deriv(K2⁻¹Z, Z − K2⁻¹K1 Z) − deriv(K2⁻¹μ, K2⁻¹μ)).
func (t *TraceLogDetQuadFormNode) Backward(g *matrix.Dense) ([]*matrix.Dense, error) {
	if !t.ready {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, ErrNoForward)
	}
	if t.f.deriv == nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, ErrNotImplemented)
	}
	gv, err := scalarGrad(opTraceLogDetQuadForm, g)
	if err != nil {
		return nil, err
	}
	grads := make([]*matrix.Dense, t.nInput)
	if t.needsGrad(0) {
		grads[0] = matrix.Scale(t.alpha, 2*gv)
	}
	if t.needsGrad(1) {
		grads[1] = matrix.Scale(t.kinvL, 2*gv)
	}
	if !t.anyNeeds(2, t.nInput) {
		return grads, nil
	}

	n := t.alpha.Rows()
	z, err := slq.SampleMatrix(n, t.f.cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, err)
	}
	ltz, _ := matrix.Mul(matrix.Transpose(t.l), z)
	k1z, _ := matrix.Mul(t.l, ltz)
	block, _ := matrix.HStack(z, k1z)
	sol, err := t.f.solve(t.op, block)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, err)
	}
	s := z.Cols()
	kinvZ, _ := matrix.SliceCols(sol, 0, s)
	kinvK1Z, _ := matrix.SliceCols(sol, s, 2*s)
	right, _ := matrix.Sub(z, kinvK1Z)

	qf, err := t.f.quadFormGradient(t.closureArgs(t.args))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, err)
	}
	traceGrads, err := qf(kinvZ, right)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, err)
	}
	quadGrads, err := qf(t.alpha, t.alpha)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, err)
	}
	argGrads, err := combineGrads(traceGrads, quadGrads)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opTraceLogDetQuadForm, err)
	}
	t.assignArgGrads(grads, argGrads, 2, gv)

	return grads, nil
}
