// SPDX-License-Identifier: MIT

package toeplitz

import "errors"

var (
	// ErrEmptyVector is returned when the generating vector c is empty.
	ErrEmptyVector = errors.New("toeplitz: empty generating vector")

	// ErrIndexOutOfRange is returned when an interpolation index falls outside [0, m).
	ErrIndexOutOfRange = errors.New("toeplitz: interpolation index out of range")

	// ErrRaggedTable is returned when index and coefficient tables disagree in shape.
	ErrRaggedTable = errors.New("toeplitz: index/coefficient tables differ in shape")

	// ErrIrregularGrid is returned when interpolation needs a regular grid and got another.
	ErrIrregularGrid = errors.New("toeplitz: grid is not regular")

	// ErrOutsideGrid is returned when a point is too close to the grid edge for
	// the 4-point cubic stencil.
	ErrOutsideGrid = errors.New("toeplitz: point outside interpolation grid")
)
