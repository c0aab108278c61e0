// SPDX-License-Identifier: MIT

package toeplitz

import (
	"fmt"

	"github.com/katalvlaran/lazygp/matrix"
)

// Interp is a sparse rows×m interpolation matrix W stored as per-row index
// and coefficient tables: W[i, J[i][a]] += C[i][a]. Repeated indices within a
// row accumulate. Interp values are immutable once built, so lazy variables
// share them freely.
type Interp struct {
	j [][]int
	c [][]float64
	m int
}

// NewInterp validates and wraps the tables (copying them).
//
// Errors:
//   - matrix.ErrInvalidDimensions when there are no rows or m<=0.
//   - ErrRaggedTable when J and C disagree in shape.
//   - ErrIndexOutOfRange when an index is outside [0, m).
func NewInterp(j [][]int, c [][]float64, m int) (*Interp, error) {
	if len(j) == 0 || m <= 0 {
		return nil, fmt.Errorf("NewInterp: %w", matrix.ErrInvalidDimensions)
	}
	if len(j) != len(c) {
		return nil, fmt.Errorf("NewInterp: %d index rows vs %d coefficient rows: %w", len(j), len(c), ErrRaggedTable)
	}
	w := &Interp{j: make([][]int, len(j)), c: make([][]float64, len(c)), m: m}
	var i, a int
	for i = range j {
		if len(j[i]) != len(c[i]) {
			return nil, fmt.Errorf("NewInterp: row %d: %w", i, ErrRaggedTable)
		}
		for a = range j[i] {
			if j[i][a] < 0 || j[i][a] >= m {
				return nil, fmt.Errorf("NewInterp: J[%d][%d]=%d: %w", i, a, j[i][a], ErrIndexOutOfRange)
			}
		}
		w.j[i] = append([]int(nil), j[i]...)
		w.c[i] = append([]float64(nil), c[i]...)
	}

	return w, nil
}

// IdentityInterp returns the n×n identity as an Interp (one unit entry per row).
func IdentityInterp(n int) *Interp {
	w := &Interp{j: make([][]int, n), c: make([][]float64, n), m: n}
	var i int
	for i = 0; i < n; i++ {
		w.j[i] = []int{i}
		w.c[i] = []float64{1}
	}

	return w
}

// Rows returns the number of rows of W.
func (w *Interp) Rows() int { return len(w.j) }

// Cols returns m, the number of columns of W (the Toeplitz core size).
func (w *Interp) Cols() int { return w.m }

// Entries returns row i's index and coefficient slices (read-only views).
func (w *Interp) Entries(i int) ([]int, []float64) { return w.j[i], w.c[i] }

// SelectRows returns a new Interp made of rows idx of w, in that order.
// The Toeplitz core (m) is unchanged.
func (w *Interp) SelectRows(idx []int) *Interp {
	out := &Interp{j: make([][]int, len(idx)), c: make([][]float64, len(idx)), m: w.m}
	for i, r := range idx {
		out.j[i] = w.j[r]
		out.c[i] = w.c[r]
	}

	return out
}

// Apply returns W·x for x of shape m×k (result rows×k).
func (w *Interp) Apply(x *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(x); err != nil {
		return nil, fmt.Errorf("Interp.Apply: %w", err)
	}
	if x.Rows() != w.m {
		return nil, fmt.Errorf("Interp.Apply: operand has %d rows, want %d: %w", x.Rows(), w.m, matrix.ErrDimensionMismatch)
	}
	k := x.Cols()
	out, err := matrix.NewDense(len(w.j), k)
	if err != nil {
		return nil, err
	}
	src, dst := x.RawData(), out.RawData()
	var i, a, col, base int
	var coef float64
	for i = range w.j {
		for a = range w.j[i] {
			coef, base = w.c[i][a], w.j[i][a]*k
			for col = 0; col < k; col++ {
				dst[i*k+col] += coef * src[base+col]
			}
		}
	}

	return out, nil
}

// ApplyT returns Wᵗ·x for x of shape rows×k (result m×k).
func (w *Interp) ApplyT(x *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(x); err != nil {
		return nil, fmt.Errorf("Interp.ApplyT: %w", err)
	}
	if x.Rows() != len(w.j) {
		return nil, fmt.Errorf("Interp.ApplyT: operand has %d rows, want %d: %w", x.Rows(), len(w.j), matrix.ErrDimensionMismatch)
	}
	k := x.Cols()
	out, err := matrix.NewDense(w.m, k)
	if err != nil {
		return nil, err
	}
	src, dst := x.RawData(), out.RawData()
	var i, a, col, base int
	var coef float64
	for i = range w.j {
		for a = range w.j[i] {
			coef, base = w.c[i][a], w.j[i][a]*k
			for col = 0; col < k; col++ {
				dst[base+col] += coef * src[i*k+col]
			}
		}
	}

	return out, nil
}

// Dense materializes W as a rows×m matrix.
func (w *Interp) Dense() (*matrix.Dense, error) {
	out, err := matrix.NewDense(len(w.j), w.m)
	if err != nil {
		return nil, err
	}
	data := out.RawData()
	var i, a int
	for i = range w.j {
		for a = range w.j[i] {
			data[i*w.m+w.j[i][a]] += w.c[i][a]
		}
	}

	return out, nil
}

// IndexCoefToSparse materializes the interpolation matrix described by J, C
// over a core of size m. It is the dense reference used to check lazy results.
func IndexCoefToSparse(j [][]int, c [][]float64, m int) (*matrix.Dense, error) {
	w, err := NewInterp(j, c, m)
	if err != nil {
		return nil, err
	}

	return w.Dense()
}
