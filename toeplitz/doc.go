// Package toeplitz provides the numeric building blocks of structured
// (KISS-GP style) covariance matrices:
//
//   - SymToeplitz: the dense symmetric Toeplitz matrix T[i,j] = c[|i-j|].
//   - Matmul: T(c)·X in O(k m log m) via circulant embedding and a real FFT,
//     or directly in O(k m²) for small m.
//   - Interp: sparse interpolation tables (row → (index, coefficient) pairs)
//     with W·X, Wᵗ·X and dense materialization (IndexCoefToSparse).
//   - CubicInterpolation: Keys cubic-convolution weights onto a regular grid.
//   - DerivQuadForm: ∂/∂c Σ_i l_iᵗ T(c) r_i.
//
// Quick ASCII example (c = [1,2,3]):
//
//	┌ 1 2 3 ┐
//	│ 2 1 2 │
//	└ 3 2 1 ┘
package toeplitz
