// Package lazygp is a toolkit for scalable Gaussian Process inference on
// implicitly represented covariance matrices.
//
// 🚀 What is lazygp?
//
//	Covariance operations are expressed as matmul closures and structured lazy
//	variables, paired with differentiable primitives for solves, log-determinants
//	and trace terms:
//		• Iterative solves: preconditioner-free Conjugate Gradients
//		• Log-determinants: stochastic Lanczos quadrature
//		• Differentiable primitives: InvMatmul, Matmul, TraceLogDetQuadForm, ExactGPMLL
//		• Structured kernels: interpolated Toeplitz lazy variables (KISS-GP)
//
// Under the hood, everything is organized into subpackages:
//
//	matrix/    - row-major Dense, kernels, validators, matmul closures, gonum bridges
//	config/    - tunables, functional options, LAZYGP_* environment overrides, RNG policy
//	cg/        - Conjugate Gradients over matmul closures
//	slq/       - stochastic Lanczos quadrature, exact log-det, trace probes
//	functions/ - forward/backward primitives built from closure factories
//	toeplitz/  - Toeplitz products (direct and FFT), interpolation tables
//	lazy/      - LazyVariable interface and the Toeplitz lazy variable
//	kernel/    - RBF and grid-interpolated RBF closure providers
//
// Quick start:
//
//	f := functions.NewFactory(nil, nil, config.New(config.WithSeed(1)))
//	x, err := f.InvMatmul().Forward(a, b) // x ≈ a⁻¹ b
//
// See cmd/lazygp for an end-to-end hyperparameter fit.
package lazygp
