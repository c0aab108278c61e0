// Package cg solves A x = b for symmetric positive-definite A given only a
// matmul closure, using preconditioner-free Conjugate Gradients.
//
// 🚀 Contract
//
//	x, err := cg.Solve(op, rhs, cfg)   // op(x) ≈ rhs
//
// rhs may hold several columns; each column runs its own CG recurrence while
// sharing one closure call per iteration. Iteration stops when every column's
// relative residual falls below cfg.CGTolerance or after cfg.MaxCGIterations.
//
// Non-convergence is not an error: CG always returns its best iterate. Use
// SolveWithInfo to inspect iteration counts and residuals.
package cg
