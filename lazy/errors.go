// SPDX-License-Identifier: MIT

package lazy

import "errors"

var (
	// ErrBatched is returned by single-matrix operations on a batched variable.
	ErrBatched = errors.New("lazy: operation needs a non-batched variable")

	// ErrNotBatched is returned by batch-axis operations on a non-batched variable.
	ErrNotBatched = errors.New("lazy: variable has no batch axis")

	// ErrBatchMismatch is returned when batch sizes or generating vector lengths disagree.
	ErrBatchMismatch = errors.New("lazy: batch size mismatch")

	// ErrSliceRange is returned for empty or out-of-range slices.
	ErrSliceRange = errors.New("lazy: slice out of range")

	// ErrDiagLength is returned when an added diagonal does not match the row count.
	ErrDiagLength = errors.New("lazy: added diagonal length mismatch")
)
