// SPDX-License-Identifier: MIT

// Package matrix: matmul closures.
// A MatmulClosure is the only view of an implicit matrix A that the solver and
// estimator packages ever see; they never form A.

package matrix

import "fmt"

const opApply = "Apply"

// MatmulClosure computes A·rhs for an implicitly represented n×n matrix A.
// rhs is n×k (k≥1); the result must be n×k. Closures must be free of side
// effects so they can be called any number of times.
type MatmulClosure func(rhs *Dense) (*Dense, error)

// Apply calls op on rhs and checks that the result has rhs's shape, failing
// with ErrDimensionMismatch instead of letting a malformed closure broadcast
// or truncate silently.
func Apply(op MatmulClosure, rhs *Dense) (*Dense, error) {
	if op == nil {
		return nil, matrixErrorf(opApply, ErrNilMatrix)
	}
	if err := ValidateNotNil(rhs); err != nil {
		return nil, matrixErrorf(opApply, err)
	}
	out, err := op(rhs)
	if err != nil {
		return nil, matrixErrorf(opApply, err)
	}
	if err = ValidateNotNil(out); err != nil {
		return nil, matrixErrorf(opApply, err)
	}
	if out.r != rhs.r || out.c != rhs.c {
		return nil, matrixErrorf(opApply, fmt.Errorf("closure returned %dx%d for %dx%d input: %w",
			out.r, out.c, rhs.r, rhs.c, ErrDimensionMismatch))
	}

	return out, nil
}

// DenseClosure returns the closure x ↦ a·x for an explicit square matrix.
func DenseClosure(a *Dense) MatmulClosure {
	return func(rhs *Dense) (*Dense, error) { return Mul(a, rhs) }
}

// Densify materializes the n×n matrix behind op by applying it to the identity.
// Costs n closure columns; intended for exact (non-fastest) paths and tests.
func Densify(op MatmulClosure, n int) (*Dense, error) {
	eye, err := Identity(n)
	if err != nil {
		return nil, matrixErrorf("Densify", err)
	}

	return Apply(op, eye)
}
