// SPDX-License-Identifier: MIT

// Package matrix: bridges to gonum/mat.
// Factorizations (Cholesky, symmetric eigendecomposition) are delegated to
// gonum; these helpers convert without sharing storage so neither side can
// mutate the other.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	opToSym     = "ToSym"
	opFromGonum = "FromGonum"
)

// ToGonum copies m into a new *mat.Dense.
func ToGonum(m *Dense) *mat.Dense {
	buf := make([]float64, len(m.data))
	copy(buf, m.data)

	return mat.NewDense(m.r, m.c, buf)
}

// FromGonum copies any gonum matrix into a new Dense.
// Errors: ErrInvalidDimensions for empty inputs.
func FromGonum(g mat.Matrix) (*Dense, error) {
	r, c := g.Dims()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(opFromGonum, err)
	}
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			out.data[i*c+j] = g.At(i, j)
		}
	}

	return out, nil
}

// ToSym converts a square m into a *mat.SymDense using (m + mᵗ)/2, which
// removes round-off asymmetry introduced by iterative closures. Entries that
// differ by more than tol are rejected with ErrAsymmetry.
func ToSym(m *Dense, tol float64) (*mat.SymDense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, matrixErrorf(opToSym, err)
	}
	n := m.r
	sym := mat.NewSymDense(n, nil)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(m.data[i*n+j]+m.data[j*n+i]))
		}
	}

	return sym, nil
}

// CholeskyLogDet returns log|A| for a symmetric positive-definite m.
// Errors: ErrAsymmetry, ErrNotPositiveDefinite.
func CholeskyLogDet(m *Dense, tol float64) (float64, error) {
	sym, err := ToSym(m, tol)
	if err != nil {
		return 0, err
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return 0, fmt.Errorf("CholeskyLogDet: %w", ErrNotPositiveDefinite)
	}

	return chol.LogDet(), nil
}

// CholeskySolve solves A X = B for symmetric positive-definite A.
func CholeskySolve(a, b *Dense, tol float64) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, fmt.Errorf("CholeskySolve: %w", err)
	}
	sym, err := ToSym(a, tol)
	if err != nil {
		return nil, err
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("CholeskySolve: %w", ErrNotPositiveDefinite)
	}
	var x mat.Dense
	if err = chol.SolveTo(&x, ToGonum(b)); err != nil {
		return nil, fmt.Errorf("CholeskySolve: %w", err)
	}

	return FromGonum(&x)
}
