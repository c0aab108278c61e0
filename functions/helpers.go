// SPDX-License-Identifier: MIT

package functions

import (
	"fmt"

	"github.com/katalvlaran/lazygp/matrix"
	"github.com/katalvlaran/lazygp/toeplitz"
)

const (
	opAddDiag = "AddDiag"
	opDSMM    = "DSMM"
)

// AddDiagNode computes A + d·I. Inputs: A (n×n), d (1×1).
type AddDiagNode struct {
	node
	n int
}

// AddDiag returns a new node. It needs no closure factories.
func (f *Factory) AddDiag() *AddDiagNode {
	return &AddDiagNode{node: node{f: f}}
}

// Forward returns A + d·I.
func (a *AddDiagNode) Forward(inputs ...*matrix.Dense) (*matrix.Dense, error) {
	if err := checkInputs(opAddDiag, inputs, 2); err != nil {
		return nil, err
	}
	if len(inputs) != 2 {
		return nil, fmt.Errorf("%s: %d inputs: %w", opAddDiag, len(inputs), ErrInputCount)
	}
	if err := matrix.ValidateSquare(inputs[0]); err != nil {
		return nil, fmt.Errorf("%s: %w", opAddDiag, err)
	}
	d, err := scalarGrad(opAddDiag, inputs[1])
	if err != nil {
		return nil, err
	}
	out := inputs[0].Copy()
	n := out.Rows()
	data := out.RawData()
	for i := 0; i < n; i++ {
		data[i*n+i] += d
	}
	a.n, a.nInput, a.ready = n, 2, true

	return out, nil
}

// Backward returns g for A and tr(g) for d.
func (a *AddDiagNode) Backward(g *matrix.Dense) ([]*matrix.Dense, error) {
	if !a.ready {
		return nil, fmt.Errorf("%s: %w", opAddDiag, ErrNoForward)
	}
	if err := matrix.ValidateSquare(g); err != nil {
		return nil, fmt.Errorf("%s: grad: %w", opAddDiag, err)
	}
	if g.Rows() != a.n {
		return nil, fmt.Errorf("%s: grad: %w", opAddDiag, matrix.ErrDimensionMismatch)
	}
	grads := make([]*matrix.Dense, 2)
	if a.needsGrad(0) {
		grads[0] = g.Copy()
	}
	if a.needsGrad(1) {
		tr, _ := matrix.Trace(g)
		grads[1] = scalar(tr)
	}

	return grads, nil
}

// DSMMNode multiplies a fixed sparse interpolation matrix S by a dense input.
type DSMMNode struct {
	node
	s *toeplitz.Interp
}

// DSMM returns a node computing S·X for the fixed S.
func (f *Factory) DSMM(s *toeplitz.Interp) *DSMMNode {
	return &DSMMNode{node: node{f: f}, s: s}
}

// Forward returns S·X for the single input X.
func (d *DSMMNode) Forward(inputs ...*matrix.Dense) (*matrix.Dense, error) {
	if err := checkInputs(opDSMM, inputs, 1); err != nil {
		return nil, err
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("%s: %d inputs: %w", opDSMM, len(inputs), ErrInputCount)
	}
	out, err := d.s.Apply(inputs[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opDSMM, err)
	}
	d.nInput, d.ready = 1, true

	return out, nil
}

// Backward returns Sᵗ·g.
func (d *DSMMNode) Backward(g *matrix.Dense) ([]*matrix.Dense, error) {
	if !d.ready {
		return nil, fmt.Errorf("%s: %w", opDSMM, ErrNoForward)
	}
	grads := make([]*matrix.Dense, 1)
	if !d.needsGrad(0) {
		return grads, nil
	}
	gt, err := d.s.ApplyT(g)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opDSMM, err)
	}
	grads[0] = gt

	return grads, nil
}
