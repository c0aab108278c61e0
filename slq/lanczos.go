// SPDX-License-Identifier: MIT

package slq

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/lazygp/matrix"
)

// breakdownTol bounds β_k relative to the probe scale; below it the Krylov
// space is invariant and the recurrence stops for that probe.
const breakdownTol = 1e-12

// tridiag is the Lanczos output for one probe.
type tridiag struct {
	alpha []float64 // diagonal, len m
	beta  []float64 // off-diagonal, len m-1
	norm2 float64   // ‖z‖²
}

// lanczosState tracks one probe's recurrence.
type lanczosState struct {
	basis  [][]float64 // orthonormal Lanczos vectors so far
	q      []float64   // current vector
	t      tridiag
	active bool
}

// lanczos runs at most steps Lanczos iterations for every column of probes,
// sharing one closure call per step. Full reorthogonalization against the
// stored basis keeps T accurate for the small step counts used here.
func lanczos(op matrix.MatmulClosure, probes [][]float64, n, steps int) ([]tridiag, int, error) {
	states := make([]lanczosState, len(probes))
	var p int
	for p = range probes {
		z := probes[p]
		norm := floats.Norm(z, 2)
		st := &states[p]
		st.t.norm2 = norm * norm
		if norm == 0 {
			continue
		}
		st.q = make([]float64, n)
		floats.ScaleTo(st.q, 1/norm, z)
		st.active = true
	}

	block, err := matrix.NewDense(n, len(probes))
	if err != nil {
		return nil, 0, err
	}
	breakdowns := 0
	var step int
	for step = 0; step < steps; step++ {
		live := false
		for p = range states {
			if states[p].active {
				_ = block.SetCol(p, states[p].q)
				live = true
			} else {
				_ = block.SetCol(p, make([]float64, n))
			}
		}
		if !live {
			break
		}
		aq, err := matrix.Apply(op, block)
		if err != nil {
			return nil, 0, fmt.Errorf("lanczos step %d: %w", step, err)
		}

		for p = range states {
			st := &states[p]
			if !st.active {
				continue
			}
			w, _ := aq.Col(p)
			a := floats.Dot(w, st.q)
			st.basis = append(st.basis, st.q)
			// w ⟂ every basis vector (covers the three-term recurrence terms).
			for _, v := range st.basis {
				floats.AddScaled(w, -floats.Dot(w, v), v)
			}
			st.t.alpha = append(st.t.alpha, a)
			if step == steps-1 || len(st.basis) == n {
				st.active = false
				continue
			}
			b := floats.Norm(w, 2)
			if b <= breakdownTol*math.Max(1, math.Abs(a)) {
				st.active = false
				breakdowns++
				continue
			}
			st.t.beta = append(st.t.beta, b)
			floats.Scale(1/b, w)
			st.q = w
		}
	}

	out := make([]tridiag, len(states))
	for p = range states {
		out[p] = states[p].t
	}

	return out, breakdowns, nil
}
