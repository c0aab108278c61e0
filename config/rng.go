// SPDX-License-Identifier: MIT

// Package config - RNG utilities shared by the stochastic estimators.
//
// Goals:
//   - Determinism: same seed ⇒ identical probe vectors across runs.
//   - Encapsulation: a single RNG factory; no time-based sources hidden anywhere.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Use DeriveRand to create independent
//     streams if probes are ever drawn from several goroutines.
package config

import "math/rand"

// RandFromSeed returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ use DefaultSeed; otherwise use the provided seed verbatim.
func RandFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed
// with a SplitMix64-style finalizer so that neighbouring stream ids decorrelate.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// DeriveRand creates an independent deterministic stream from base and a
// stream id. base.Int63() is consumed once; base==nil uses DefaultSeed.
func DeriveRand(base *rand.Rand, stream uint64) *rand.Rand {
	parent := DefaultSeed
	if base != nil {
		parent = base.Int63()
	}

	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}

// Rademacher fills dst with independent ±1 draws from rng.
func Rademacher(rng *rand.Rand, dst []float64) {
	var i int
	for i = range dst {
		if rng.Int63()&1 == 0 {
			dst[i] = -1
		} else {
			dst[i] = 1
		}
	}
}
