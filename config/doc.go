// Package config holds the tunables shared by the solver, estimator and
// differentiable-primitive packages.
//
// A Config is an explicit value threaded into every call; there is no
// process-wide mutable state. Defaults match the documented constants
// (10 trace probes, 15 CG iterations, approximation mode on).
//
//	cfg := config.New(config.WithSeed(42), config.WithMaxCGIterations(50))
//	x, err := cg.Solve(op, rhs, cfg)
//
// FromEnv layers LAZYGP_* environment variables over the defaults before
// applying explicit options, which always win.
package config
