// Package matrix provides the dense storage and linear-algebra kernels shared by
// the solver, estimator, lazy-variable and differentiable-primitive packages.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix; vectors are n×1 Dense values.
//   - Kernels (Add, Sub, Mul, Hadamard, Transpose, Scale, SumProduct, Trace)
//     with strict fail-fast validation and sentinel errors.
//   - AllClose for tolerance-based comparisons in tests and diagnostics.
//   - Bridges to gonum (ToGonum, FromGonum, ToSym) for factorizations.
//
// All kernels allocate fresh results and never mutate their operands, except
// the explicitly in-place helpers (AddScaledInPlace, ScaleInPlace).
package matrix
