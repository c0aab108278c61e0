// SPDX-License-Identifier: MIT

package lazy

import (
	"fmt"

	"github.com/katalvlaran/lazygp/matrix"
)

// LazyVariable is a matrix known through its products.
type LazyVariable interface {
	// Size returns (rows, cols).
	Size() (int, int)
	// Evaluate materializes the matrix.
	Evaluate() (*matrix.Dense, error)
	// Diag returns the main diagonal of a square variable.
	Diag() ([]float64, error)
	// Matmul returns M·rhs.
	Matmul(rhs *matrix.Dense) (*matrix.Dense, error)
}

var (
	_ LazyVariable = (*Dense)(nil)
	_ LazyVariable = (*Toeplitz)(nil)
)

// Dense is a LazyVariable backed by an explicit matrix.
type Dense struct {
	m *matrix.Dense
}

// NewDense wraps m (not copied).
func NewDense(m *matrix.Dense) (*Dense, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, fmt.Errorf("lazy.NewDense: %w", err)
	}

	return &Dense{m: m}, nil
}

// Size returns (rows, cols).
func (d *Dense) Size() (int, int) { return d.m.Shape() }

// Evaluate returns a copy of the wrapped matrix.
func (d *Dense) Evaluate() (*matrix.Dense, error) { return d.m.Copy(), nil }

// Diag returns the main diagonal.
func (d *Dense) Diag() ([]float64, error) { return matrix.Diag(d.m) }

// Matmul returns M·rhs.
func (d *Dense) Matmul(rhs *matrix.Dense) (*matrix.Dense, error) { return matrix.Mul(d.m, rhs) }

// Slice returns rows [r0, r1) and columns [c0, c1) as a new Dense.
func (d *Dense) Slice(r0, r1, c0, c1 int) (*Dense, error) {
	rows, cols := d.m.Shape()
	if err := checkRange(r0, r1, rows); err != nil {
		return nil, err
	}
	if err := checkRange(c0, c1, cols); err != nil {
		return nil, err
	}
	w := c1 - c0
	buf := make([]float64, 0, (r1-r0)*w)
	src := d.m.RawData()
	for i := r0; i < r1; i++ {
		buf = append(buf, src[i*cols+c0:i*cols+c1]...)
	}
	out, err := matrix.NewDenseFrom(r1-r0, w, buf)
	if err != nil {
		return nil, err
	}

	return &Dense{m: out}, nil
}

// MatmulClosure returns the closure X ↦ M·X.
func MatmulClosure(v LazyVariable) matrix.MatmulClosure {
	return v.Matmul
}

func checkRange(lo, hi, n int) error {
	if lo < 0 || hi > n || lo >= hi {
		return fmt.Errorf("[%d:%d] of %d: %w", lo, hi, n, ErrSliceRange)
	}

	return nil
}
