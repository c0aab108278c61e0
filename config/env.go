// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvNumTraceSamples = "LAZYGP_NUM_TRACE_SAMPLES"
	EnvMaxCGIterations = "LAZYGP_MAX_CG_ITERATIONS"
	EnvNumLanczosSteps = "LAZYGP_NUM_LANCZOS_STEPS"
	EnvCGTolerance     = "LAZYGP_CG_TOLERANCE"
	EnvFastest         = "LAZYGP_FASTEST"
	EnvSeed            = "LAZYGP_SEED"
)

// envVar returns the trimmed value of key with surrounding quotes removed.
func envVar(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// positiveInt parses key as a positive int, falling back to def with a warning.
func positiveInt(key string, def int) int {
	s := envVar(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", def)
		return def
	}

	return n
}

// FromEnv returns Default() overridden by LAZYGP_* variables, then opts.
// Invalid values are ignored with a slog warning; explicit opts always win.
func FromEnv(opts ...Option) *Config {
	cfg := Default()
	cfg.NumTraceSamples = positiveInt(EnvNumTraceSamples, cfg.NumTraceSamples)
	cfg.MaxCGIterations = positiveInt(EnvMaxCGIterations, cfg.MaxCGIterations)
	cfg.NumLanczosSteps = positiveInt(EnvNumLanczosSteps, cfg.NumLanczosSteps)

	if s := envVar(EnvCGTolerance); s != "" {
		if tol, err := strconv.ParseFloat(s, 64); err == nil && tol >= 0 {
			cfg.CGTolerance = tol
		} else {
			slog.Warn("invalid environment variable, using default", "key", EnvCGTolerance, "value", s, "default", cfg.CGTolerance)
		}
	}
	if s := envVar(EnvFastest); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			cfg.Fastest = b
		} else {
			slog.Warn("invalid environment variable, using default", "key", EnvFastest, "value", s, "default", cfg.Fastest)
		}
	}
	if s := envVar(EnvSeed); s != "" {
		if seed, err := strconv.ParseInt(s, 10, 64); err == nil {
			cfg.Rand = RandFromSeed(seed)
		} else {
			slog.Warn("invalid environment variable, using default", "key", EnvSeed, "value", s, "default", DefaultSeed)
		}
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}
