// SPDX-License-Identifier: MIT

// Package lazy provides structured covariance matrices that are never formed
// densely unless asked to.
//
// The central type is Toeplitz, representing
//
//	M = W_left · T(c) · W_rightᵗ + diag(d)
//
// where T(c) is the symmetric Toeplitz matrix generated by c, W_left and
// W_right are sparse interpolation matrices (identity when absent) and d is an
// optional added diagonal. Products with M cost one Toeplitz product (FFT for
// large cores) plus two sparse passes.
//
// Toeplitz values are immutable: Mul, Slice, Rows, Index, BatchSlice and Repeat
// return new values sharing the generating vectors and interpolation tables.
// Slicing reinterprets the interpolation tables and leaves T(c) untouched, so
//
//	Evaluate(M)[r0:r1, c0:c1] == Evaluate(M.Slice(r0, r1, c0, c1))
//
// holds for every valid range, including batched and non-square slices.
package lazy
