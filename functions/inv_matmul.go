// SPDX-License-Identifier: MIT

package functions

import (
	"fmt"

	"github.com/katalvlaran/lazygp/matrix"
)

const opInvMatmul = "InvMatmul"

// InvMatmulNode computes A⁻¹·rhs. Inputs: closure args..., rhs.
type InvMatmulNode struct {
	node
	args []*matrix.Dense
	op   matrix.MatmulClosure
	x    *matrix.Dense
}

// InvMatmul returns a node solving A x = rhs with CG, where A is built from
// fixed followed by the Forward inputs minus the last one.
func (f *Factory) InvMatmul(fixed ...*matrix.Dense) *InvMatmulNode {
	return &InvMatmulNode{node: node{f: f, fixed: fixed}}
}

// Forward returns x ≈ A⁻¹·rhs (rhs is the last input).
func (m *InvMatmulNode) Forward(inputs ...*matrix.Dense) (*matrix.Dense, error) {
	if err := checkInputs(opInvMatmul, inputs, 1); err != nil {
		return nil, err
	}
	args, rhs := inputs[:len(inputs)-1], inputs[len(inputs)-1]
	op, err := m.f.closure(m.closureArgs(args))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opInvMatmul, err)
	}
	x, err := m.f.solve(op, rhs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opInvMatmul, err)
	}
	m.args, m.op, m.x = args, op, x
	m.nInput, m.ready = len(inputs), true

	return x.Copy(), nil
}

// Backward returns arg grads deriv(−A⁻¹g, x) and rhs grad A⁻¹g.
func (m *InvMatmulNode) Backward(g *matrix.Dense) ([]*matrix.Dense, error) {
	if !m.ready {
		return nil, fmt.Errorf("%s: %w", opInvMatmul, ErrNoForward)
	}
	if m.f.deriv == nil {
		return nil, fmt.Errorf("%s: %w", opInvMatmul, ErrNotImplemented)
	}
	if err := matrix.ValidateBinarySameShape(g, m.x); err != nil {
		return nil, fmt.Errorf("%s: grad: %w", opInvMatmul, err)
	}
	grads := make([]*matrix.Dense, m.nInput)
	nArgs := len(m.args)
	if !m.anyNeeds(0, m.nInput) {
		return grads, nil
	}
	gInv, err := m.f.solve(m.op, g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opInvMatmul, err)
	}
	if m.needsGrad(nArgs) {
		grads[nArgs] = gInv
	}
	if m.anyNeeds(0, nArgs) {
		qf, err := m.f.quadFormGradient(m.closureArgs(m.args))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opInvMatmul, err)
		}
		argGrads, err := qf(matrix.Scale(gInv, -1), m.x)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opInvMatmul, err)
		}
		m.assignArgGrads(grads, argGrads, 0, 1)
	}

	return grads, nil
}
