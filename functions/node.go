// SPDX-License-Identifier: MIT

package functions

import (
	"fmt"

	"github.com/katalvlaran/lazygp/matrix"
)

// node carries what every primitive shares: its Factory, fixed closure
// arguments, the input-gradient mask and the "forward ran" flag.
type node struct {
	f      *Factory
	fixed  []*matrix.Dense
	needs  []bool
	nInput int
	ready  bool
}

// SetNeedsInputGrad marks which Forward inputs need a gradient. Inputs beyond
// len(mask) need one. Call before Backward.
func (n *node) SetNeedsInputGrad(mask ...bool) {
	n.needs = append([]bool(nil), mask...)
}

func (n *node) needsGrad(i int) bool {
	if i >= len(n.needs) {
		return true
	}

	return n.needs[i]
}

// anyNeeds reports whether any input in [lo, hi) needs a gradient.
func (n *node) anyNeeds(lo, hi int) bool {
	for i := lo; i < hi; i++ {
		if n.needsGrad(i) {
			return true
		}
	}

	return false
}

// closureArgs returns fixed followed by args.
func (n *node) closureArgs(args []*matrix.Dense) []*matrix.Dense {
	all := make([]*matrix.Dense, 0, len(n.fixed)+len(args))
	all = append(all, n.fixed...)

	return append(all, args...)
}

// checkInputs validates the input count and rejects nil inputs.
func checkInputs(tag string, inputs []*matrix.Dense, want int) error {
	if len(inputs) < want {
		return fmt.Errorf("%s: %d inputs, want at least %d: %w", tag, len(inputs), want, ErrInputCount)
	}
	for i, in := range inputs {
		if err := matrix.ValidateNotNil(in); err != nil {
			return fmt.Errorf("%s: input %d: %w", tag, i, err)
		}
	}

	return nil
}

// scalarGrad extracts g from a 1×1 gradient.
func scalarGrad(tag string, g *matrix.Dense) (float64, error) {
	if err := matrix.ValidateNotNil(g); err != nil {
		return 0, fmt.Errorf("%s: %w", tag, err)
	}
	if g.Rows() != 1 || g.Cols() != 1 {
		return 0, fmt.Errorf("%s: grad is %dx%d, want 1x1: %w", tag, g.Rows(), g.Cols(), matrix.ErrDimensionMismatch)
	}

	return g.RawData()[0], nil
}

// scalar wraps v into a 1×1 matrix.
func scalar(v float64) *matrix.Dense {
	out, _ := matrix.NewDenseFrom(1, 1, []float64{v})

	return out
}

// assignArgGrads copies the input-arg part of closure gradients into grads,
// scaled by alpha. Input args start at input index inputOff; the closure
// gradients list fixed args first. Masked inputs stay nil.
func (n *node) assignArgGrads(grads, argGrads []*matrix.Dense, inputOff int, alpha float64) {
	off := len(n.fixed)
	for i := 0; off+i < len(argGrads) && inputOff+i < len(grads); i++ {
		if !n.needsGrad(inputOff + i) {
			continue
		}
		grads[inputOff+i] = matrix.Scale(argGrads[off+i], alpha)
	}
}

// combineGrads returns a_i − b_i for two gradient lists of one closure.
func combineGrads(a, b []*matrix.Dense) ([]*matrix.Dense, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("combineGrads: %d vs %d: %w", len(a), len(b), ErrInputCount)
	}
	out := make([]*matrix.Dense, len(a))
	var err error
	for i := range a {
		if out[i], err = matrix.Sub(a[i], b[i]); err != nil {
			return nil, fmt.Errorf("combineGrads: arg %d: %w", i, err)
		}
	}

	return out, nil
}
