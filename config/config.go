// SPDX-License-Identifier: MIT

// Package config: functional configuration with documented defaults.
// This file defines:
//   - documented defaults (constants),
//   - Config (resolved configuration) and Option setters,
//   - WithX constructors with strong validation (panic on nonsensical values).
//
// Design goals:
//   - Deterministic behavior: randomness only through Config.Rand, seeded explicitly.
//   - No dead switches: each field impacts solver/estimator behavior.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package config

import (
	"log/slog"
	"math"
	"math/rand"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultNumTraceSamples is the number of random probes used by SLQ and the
	// stochastic trace estimator.
	DefaultNumTraceSamples = 10

	// DefaultMaxCGIterations caps Conjugate Gradients. The cap trades exactness for
	// bounded cost; downstream uses are gradient estimates.
	DefaultMaxCGIterations = 15

	// DefaultNumLanczosSteps caps the Lanczos tridiagonalization per probe.
	DefaultNumLanczosSteps = 15

	// DefaultCGTolerance is the relative residual ‖Ax−b‖/‖b‖ at which CG stops early.
	DefaultCGTolerance = 1e-10

	// DefaultFastest selects stochastic/iterative approximations. When false,
	// log-determinants and traces are computed exactly (dense, O(n³)).
	DefaultFastest = true

	// DefaultSeed is the seed used when callers pass seed==0.
	DefaultSeed int64 = 1
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicTraceSamplesInvalid = "config: WithNumTraceSamples: n must be > 0"
	panicCGIterationsInvalid = "config: WithMaxCGIterations: n must be > 0"
	panicLanczosInvalid      = "config: WithNumLanczosSteps: n must be > 0"
	panicToleranceInvalid    = "config: WithCGTolerance: tol must be finite, non-negative"
	panicRandNil             = "config: WithRand: rng must be non-nil"
	panicLoggerNil           = "config: WithLogger: logger must be non-nil"
)

// Config is the resolved configuration consumed by cg, slq and functions.
// The zero value is not meaningful; obtain one from New, Default or FromEnv.
//
// Rand is a *rand.Rand and is NOT goroutine-safe: do not share one Config
// across goroutines while calls are in flight.
type Config struct {
	NumTraceSamples int          // probes for SLQ and trace estimation (>0)
	MaxCGIterations int          // CG iteration cap (>0)
	NumLanczosSteps int          // Lanczos steps per probe (>0), capped by the dimension
	CGTolerance     float64      // relative residual stopping threshold (>=0)
	Fastest         bool         // approximation mode flag
	Rand            *rand.Rand   // probe source
	Logger          *slog.Logger // structured diagnostics
}

// Option mutates a Config under construction.
type Option func(*Config)

// Default returns a fresh Config with documented defaults and a
// deterministic RNG seeded with DefaultSeed.
func Default() *Config {
	return &Config{
		NumTraceSamples: DefaultNumTraceSamples,
		MaxCGIterations: DefaultMaxCGIterations,
		NumLanczosSteps: DefaultNumLanczosSteps,
		CGTolerance:     DefaultCGTolerance,
		Fastest:         DefaultFastest,
		Rand:            RandFromSeed(DefaultSeed),
		Logger:          slog.Default(),
	}
}

// New returns Default() with opts applied in order.
func New(opts ...Option) *Config {
	cfg := Default()
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// OrDefault returns cfg, or Default() when cfg is nil.
func OrDefault(cfg *Config) *Config {
	if cfg == nil {
		return Default()
	}

	return cfg
}

// ---------- Constructors (WithX) ----------

// WithNumTraceSamples sets the number of random probes. Panics if n<=0.
func WithNumTraceSamples(n int) Option {
	if n <= 0 {
		panic(panicTraceSamplesInvalid)
	}

	return func(c *Config) { c.NumTraceSamples = n }
}

// WithMaxCGIterations sets the CG iteration cap. Panics if n<=0.
func WithMaxCGIterations(n int) Option {
	if n <= 0 {
		panic(panicCGIterationsInvalid)
	}

	return func(c *Config) { c.MaxCGIterations = n }
}

// WithNumLanczosSteps sets the Lanczos step cap per probe. Panics if n<=0.
func WithNumLanczosSteps(n int) Option {
	if n <= 0 {
		panic(panicLanczosInvalid)
	}

	return func(c *Config) { c.NumLanczosSteps = n }
}

// WithCGTolerance sets the relative residual threshold.
// Panics on NaN, ±Inf or negative values.
func WithCGTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicToleranceInvalid)
	}

	return func(c *Config) { c.CGTolerance = tol }
}

// WithFastest toggles approximation mode.
func WithFastest(on bool) Option {
	return func(c *Config) { c.Fastest = on }
}

// WithSeed installs a fresh deterministic RNG (seed==0 ⇒ DefaultSeed).
func WithSeed(seed int64) Option {
	return func(c *Config) { c.Rand = RandFromSeed(seed) }
}

// WithRand installs a caller-owned RNG. Panics on nil.
func WithRand(rng *rand.Rand) Option {
	if rng == nil {
		panic(panicRandNil)
	}

	return func(c *Config) { c.Rand = rng }
}

// WithLogger sets the structured logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(c *Config) { c.Logger = l }
}
