// Package slq estimates tr(f(A)) for a symmetric positive-definite A known
// only through a matmul closure, using Stochastic Lanczos Quadrature.
//
// For each Rademacher probe z, a few Lanczos steps build a tridiagonal T with
// z/‖z‖ as the first basis vector; then zᵗ f(A) z ≈ ‖z‖² Σ_k τ_k² f(θ_k) where
// θ_k, τ_k are T's eigenvalues and the first components of its eigenvectors.
// Averaging over probes gives the trace estimate.
//
// The estimator is Monte-Carlo: results depend on cfg.Rand. Fix the seed with
// config.WithSeed for reproducible runs.
//
// The package also provides TraceComponents, the probe sampler used to build
// unbiased estimators of tr(Lᵗ R)-type expressions, and ExactLogDet, the
// dense reference used when approximation mode is off.
package slq
