// SPDX-License-Identifier: MIT

// Package kernel provides reference covariance closures for package functions.
//
// RBF materializes the squared-exponential kernel plus a noise diagonal and is
// the dense baseline. GridInterpolation approximates the same kernel as
// W·T(c)·Wᵗ + σ²I on a regular grid with cubic interpolation (structured
// kernel interpolation), returning a *lazy.Toeplitz.
//
// Both take the hyperparameters as 1×1 closure arguments, in order:
// log lengthscale, log noise.
package kernel
