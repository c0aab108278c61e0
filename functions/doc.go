// SPDX-License-Identifier: MIT

// Package functions defines differentiable primitives for Gaussian Process
// inference on implicitly represented covariance matrices.
//
// A Factory is built from two user-supplied factories:
//   - a MatmulClosureFactory, which turns closure arguments (kernel
//     hyperparameters, Toeplitz generating vectors, dense matrices) into a
//     matrix.MatmulClosure computing A·X;
//   - a DerivativeQuadraticFormFactory, which turns the same arguments into a
//     QuadFormGradient returning ∂/∂arg Σ_i L_iᵗ A R_i for every argument.
//
// From these the Factory produces Function nodes (InvMatmul, Matmul,
// TraceLogDetQuadForm, ExactGPMLL) with a forward value and a matrix-free
// backward pass, suitable for an external reverse-mode autodiff engine.
// Solves go through package cg; log-determinants and trace probes through
// package slq.
//
// Nodes are single-use: Forward saves what Backward needs, and a node must not
// be shared across goroutines.
package functions
