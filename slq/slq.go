// SPDX-License-Identifier: MIT

package slq

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lazygp/config"
	"github.com/katalvlaran/lazygp/matrix"
)

// ErrNoFunctions is returned when Evaluate is called without any f.
var ErrNoFunctions = errors.New("slq: no matrix functions given")

const (
	opEvaluate = "Evaluate"
	opLogDet   = "LogDet"
)

// Estimator is a Stochastic Lanczos Quadrature estimator bound to a Config.
// It holds no per-call state; every Evaluate draws fresh probes from cfg.Rand.
type Estimator struct {
	cfg *config.Config
}

// New returns an Estimator; nil cfg means config.Default().
func New(cfg *config.Config) *Estimator {
	return &Estimator{cfg: config.OrDefault(cfg)}
}

// Evaluate returns estimates of tr(f_i(A)) for each f_i.
//
// Implementation:
//   - Stage 1: draw cfg.NumTraceSamples Rademacher probes of length n.
//   - Stage 2: run min(n, cfg.NumLanczosSteps) Lanczos steps per probe.
//   - Stage 3: eigendecompose each tridiagonal T (gonum EigenSym) and average
//     ‖z‖² Σ_k τ_k² f_i(θ_k) over probes.
//
// Errors:
//   - matrix.ErrInvalidDimensions when n<=0; ErrNoFunctions when fs is empty.
//   - matrix.ErrDimensionMismatch when op does not preserve n×s shapes.
//   - matrix.ErrEigenFailed if a tridiagonal eigendecomposition fails.
//
// Complexity:
//   - Time O(m * (cost(op on n×s) + s*m*n)) for m Lanczos steps and s probes.
func (e *Estimator) Evaluate(op matrix.MatmulClosure, n int, fs ...func(float64) float64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%s: %w", opEvaluate, matrix.ErrInvalidDimensions)
	}
	if len(fs) == 0 {
		return nil, fmt.Errorf("%s: %w", opEvaluate, ErrNoFunctions)
	}
	s := e.cfg.NumTraceSamples
	probes := make([][]float64, s)
	var p int
	for p = range probes {
		probes[p] = make([]float64, n)
		config.Rademacher(e.cfg.Rand, probes[p])
	}
	steps := min(n, e.cfg.NumLanczosSteps)

	ts, breakdowns, err := lanczos(op, probes, n, steps)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opEvaluate, err)
	}
	if breakdowns > 0 {
		e.cfg.Logger.Debug("slq: lanczos breakdown", "probes", breakdowns, "n", n)
	}

	out := make([]float64, len(fs))
	for p = range ts {
		theta, tau2, err := quadratureNodes(ts[p])
		if err != nil {
			return nil, fmt.Errorf("%s: probe %d: %w", opEvaluate, p, err)
		}
		for i, f := range fs {
			acc := 0.0
			for k := range theta {
				acc += tau2[k] * f(theta[k])
			}
			out[i] += ts[p].norm2 * acc
		}
	}
	for i := range out {
		out[i] /= float64(s)
	}

	return out, nil
}

// LogDet estimates log|A|.
func (e *Estimator) LogDet(op matrix.MatmulClosure, n int) (float64, error) {
	res, err := e.Evaluate(op, n, math.Log)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", opLogDet, err)
	}

	return res[0], nil
}

// quadratureNodes returns Gauss quadrature nodes θ_k and squared first
// eigenvector components τ_k² of the Lanczos tridiagonal matrix.
func quadratureNodes(t tridiag) ([]float64, []float64, error) {
	m := len(t.alpha)
	if m == 0 {
		return nil, nil, nil
	}
	sym := mat.NewSymDense(m, nil)
	var i int
	for i = 0; i < m; i++ {
		sym.SetSym(i, i, t.alpha[i])
		if i+1 < m {
			sym.SetSym(i, i+1, t.beta[i])
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return nil, nil, matrix.ErrEigenFailed
	}
	theta := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	tau2 := make([]float64, m)
	for i = 0; i < m; i++ {
		v := vecs.At(0, i)
		tau2[i] = v * v
	}

	return theta, tau2, nil
}
