// SPDX-License-Identifier: MIT

package functions

import (
	"fmt"

	"github.com/katalvlaran/lazygp/matrix"
)

const opMatmul = "Matmul"

// MatmulNode computes A·rhs. Inputs: closure args..., rhs.
type MatmulNode struct {
	node
	args []*matrix.Dense
	op   matrix.MatmulClosure
	rhs  *matrix.Dense
	out  *matrix.Dense
}

// Matmul returns a node multiplying by A built from fixed plus input args.
func (f *Factory) Matmul(fixed ...*matrix.Dense) *MatmulNode {
	return &MatmulNode{node: node{f: f, fixed: fixed}}
}

// Forward returns A·rhs (rhs is the last input).
func (m *MatmulNode) Forward(inputs ...*matrix.Dense) (*matrix.Dense, error) {
	if err := checkInputs(opMatmul, inputs, 1); err != nil {
		return nil, err
	}
	args, rhs := inputs[:len(inputs)-1], inputs[len(inputs)-1]
	op, err := m.f.closure(m.closureArgs(args))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opMatmul, err)
	}
	out, err := matrix.Apply(op, rhs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opMatmul, err)
	}
	m.args, m.op, m.rhs, m.out = args, op, rhs.Copy(), out
	m.nInput, m.ready = len(inputs), true

	return out.Copy(), nil
}

// Backward returns arg grads deriv(g, rhs) and rhs grad A·g (A symmetric).
func (m *MatmulNode) Backward(g *matrix.Dense) ([]*matrix.Dense, error) {
	if !m.ready {
		return nil, fmt.Errorf("%s: %w", opMatmul, ErrNoForward)
	}
	if m.f.deriv == nil {
		return nil, fmt.Errorf("%s: %w", opMatmul, ErrNotImplemented)
	}
	if err := matrix.ValidateBinarySameShape(g, m.out); err != nil {
		return nil, fmt.Errorf("%s: grad: %w", opMatmul, err)
	}
	grads := make([]*matrix.Dense, m.nInput)
	nArgs := len(m.args)
	if m.needsGrad(nArgs) {
		ag, err := matrix.Apply(m.op, g)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opMatmul, err)
		}
		grads[nArgs] = ag
	}
	if m.anyNeeds(0, nArgs) {
		qf, err := m.f.quadFormGradient(m.closureArgs(m.args))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opMatmul, err)
		}
		argGrads, err := qf(g, m.rhs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opMatmul, err)
		}
		m.assignArgGrads(grads, argGrads, 0, 1)
	}

	return grads, nil
}
