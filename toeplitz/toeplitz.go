// SPDX-License-Identifier: MIT

package toeplitz

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/katalvlaran/lazygp/matrix"
)

// DirectThreshold is the largest m for which Matmul uses the O(m²) loop;
// above it the FFT path wins.
const DirectThreshold = 64

// SymToeplitz returns the dense m×m matrix T[i,j] = c[|i-j|].
func SymToeplitz(c []float64) (*matrix.Dense, error) {
	if len(c) == 0 {
		return nil, ErrEmptyVector
	}
	m := len(c)
	t, err := matrix.NewDense(m, m)
	if err != nil {
		return nil, err
	}
	data := t.RawData()
	var i, j int
	for i = 0; i < m; i++ {
		for j = 0; j < m; j++ {
			data[i*m+j] = c[absInt(i-j)]
		}
	}

	return t, nil
}

// Matmul returns T(c)·x for x of shape m×k, picking MatmulDirect or MatmulFFT by size.
func Matmul(c []float64, x *matrix.Dense) (*matrix.Dense, error) {
	if len(c) <= DirectThreshold {
		return MatmulDirect(c, x)
	}

	return MatmulFFT(c, x)
}

// MatmulDirect computes T(c)·x with the O(k m²) double loop.
func MatmulDirect(c []float64, x *matrix.Dense) (*matrix.Dense, error) {
	if err := checkOperand(c, x); err != nil {
		return nil, fmt.Errorf("MatmulDirect: %w", err)
	}
	m, k := x.Shape()
	out, _ := matrix.NewDense(m, k)
	src, dst := x.RawData(), out.RawData()
	var i, j, col int
	var tij float64
	for i = 0; i < m; i++ {
		for j = 0; j < m; j++ {
			tij = c[absInt(i-j)]
			if tij == 0 {
				continue
			}
			for col = 0; col < k; col++ {
				dst[i*k+col] += tij * src[j*k+col]
			}
		}
	}

	return out, nil
}

// MatmulFFT computes T(c)·x by embedding T into the 2m×2m circulant matrix
// with first column [c_0 … c_{m-1}, 0, c_{m-1} … c_1] and multiplying in the
// Fourier domain. gonum's Sequence is unnormalized, hence the 1/(2m) factor.
//
// Complexity: O(k m log m) time, O(m) extra space per column.
func MatmulFFT(c []float64, x *matrix.Dense) (*matrix.Dense, error) {
	if err := checkOperand(c, x); err != nil {
		return nil, fmt.Errorf("MatmulFFT: %w", err)
	}
	m, k := x.Shape()
	size := 2 * m
	fft := fourier.NewFFT(size)

	embed := make([]float64, size)
	copy(embed, c)
	var i int
	for i = 1; i < m; i++ {
		embed[size-i] = c[i]
	}
	spectrum := fft.Coefficients(nil, embed)

	out, _ := matrix.NewDense(m, k)
	var (
		col    int
		seq    = make([]float64, size)
		coeffs = make([]complex128, len(spectrum))
		res    = make([]float64, size)
		scale  = 1 / float64(size)
	)
	for col = 0; col < k; col++ {
		for i = range seq {
			seq[i] = 0
		}
		for i = 0; i < m; i++ {
			seq[i], _ = x.At(i, col)
		}
		coeffs = fft.Coefficients(coeffs, seq)
		for i = range coeffs {
			coeffs[i] *= spectrum[i]
		}
		res = fft.Sequence(res, coeffs)
		for i = 0; i < m; i++ {
			_ = out.Set(i, col, res[i]*scale)
		}
	}

	return out, nil
}

// DerivQuadForm returns g with g[d] = ∂/∂c_d Σ_i l_iᵗ T(c) r_i
// = Σ_i Σ_{|p-q|=d} l_i[p] r_i[q], for left and right of shape m×k.
//
// Complexity: O(k m²).
func DerivQuadForm(left, right *matrix.Dense) ([]float64, error) {
	if err := matrix.ValidateBinarySameShape(left, right); err != nil {
		return nil, fmt.Errorf("DerivQuadForm: %w", err)
	}
	m, k := left.Shape()
	l, r := left.RawData(), right.RawData()
	g := make([]float64, m)
	var p, q, col int
	var acc float64
	for p = 0; p < m; p++ {
		for q = 0; q < m; q++ {
			acc = 0
			for col = 0; col < k; col++ {
				acc += l[p*k+col] * r[q*k+col]
			}
			g[absInt(p-q)] += acc
		}
	}

	return g, nil
}

func checkOperand(c []float64, x *matrix.Dense) error {
	if len(c) == 0 {
		return ErrEmptyVector
	}
	if err := matrix.ValidateNotNil(x); err != nil {
		return err
	}
	if x.Rows() != len(c) {
		return fmt.Errorf("operand has %d rows, want %d: %w", x.Rows(), len(c), matrix.ErrDimensionMismatch)
	}

	return nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
