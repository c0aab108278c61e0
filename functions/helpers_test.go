package functions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lazygp/config"
	"github.com/katalvlaran/lazygp/functions"
	"github.com/katalvlaran/lazygp/internal/testutil"
	"github.com/katalvlaran/lazygp/matrix"
)

// family is A(θ) = θ0·I + θ1·S for a fixed SPD S; θ0, θ1 are 1×1 closure args.
type family struct {
	s *matrix.Dense
}

func newFamily(t *testing.T, n int, seed int64) family {
	return family{s: testutil.RandomSPD(t, n, seed)}
}

func theta(v0, v1 float64) []*matrix.Dense {
	a, _ := matrix.NewDenseFrom(1, 1, []float64{v0})
	b, _ := matrix.NewDenseFrom(1, 1, []float64{v1})

	return []*matrix.Dense{a, b}
}

func (f family) dense(v0, v1 float64) *matrix.Dense {
	n := f.s.Rows()
	out := matrix.Scale(f.s, v1)
	data := out.RawData()
	for i := 0; i < n; i++ {
		data[i*n+i] += v0
	}

	return out
}

func (f family) matmul(args ...*matrix.Dense) (matrix.MatmulClosure, error) {
	if len(args) != 2 {
		return nil, functions.ErrInputCount
	}
	a := f.dense(args[0].RawData()[0], args[1].RawData()[0])

	return matrix.DenseClosure(a), nil
}

func (f family) deriv(args ...*matrix.Dense) (functions.QuadFormGradient, error) {
	if len(args) != 2 {
		return nil, functions.ErrInputCount
	}

	return func(left, right *matrix.Dense) ([]*matrix.Dense, error) {
		g0, err := matrix.SumProduct(left, right)
		if err != nil {
			return nil, err
		}
		sr, err := matrix.Mul(f.s, right)
		if err != nil {
			return nil, err
		}
		g1, _ := matrix.SumProduct(left, sr)

		return theta(g0, g1), nil
	}, nil
}

func exactCfg() *config.Config {
	return config.New(
		config.WithFastest(false),
		config.WithMaxCGIterations(100),
		config.WithCGTolerance(1e-12),
	)
}

// loss runs a fresh node and returns Σ g ⊙ Forward(inputs).
func loss(t *testing.T, mk func() functions.Function, g *matrix.Dense, inputs []*matrix.Dense) float64 {
	t.Helper()
	out, err := mk().Forward(inputs...)
	require.NoError(t, err)
	v, err := matrix.SumProduct(g, out)
	require.NoError(t, err)

	return v
}

// checkGrad compares grads[k] against central differences of loss w.r.t. every
// entry of inputs[k].
func checkGrad(t *testing.T, mk func() functions.Function, g *matrix.Dense, inputs []*matrix.Dense, grads []*matrix.Dense, k int, tol float64) {
	t.Helper()
	require.NotNil(t, grads[k], "input %d", k)
	data := inputs[k].RawData()
	for idx := range data {
		orig := data[idx]
		fd := testutil.CentralDiff(func(v float64) float64 {
			perturbed := make([]*matrix.Dense, len(inputs))
			copy(perturbed, inputs)
			perturbed[k] = inputs[k].Copy()
			perturbed[k].RawData()[idx] = v
			return loss(t, mk, g, perturbed)
		}, orig)
		require.InDelta(t, fd, grads[k].RawData()[idx], tol*(1+abs(fd)), "input %d entry %d", k, idx)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
