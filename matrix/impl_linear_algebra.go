// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on Dense values: element-wise
// addition and subtraction, matrix multiplication, transpose, scalar scaling,
// Hadamard products and reductions. All functions perform strict fail-fast
// validation and return clear errors on dimension mismatches.
//
// Notes:
//   - Kernels allocate fresh results; operands are read-only.
//   - Loop orders are fixed (i→k→j for Mul) so results are bitwise reproducible.

package matrix

import "fmt"

// ZeroSum is the initial sum value for accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd        = "Add"
	opSub        = "Sub"
	opMul        = "Mul"
	opHadamard   = "Hadamard"
	opSumProduct = "SumProduct"
	opTrace      = "Trace"
	opDiag       = "Diag"
	opFromDiag   = "FromDiag"
	opAddScaled  = "AddScaledInPlace"
	opHStack     = "HStack"
	opSliceCols  = "SliceCols"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes elementwise out = a + sign*b for sign ∈ {+1, -1}.
// Inputs must have identical shapes. A fresh Dense is allocated.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the new result.
func addSub(a, b *Dense, sign float64, opTag string) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	res := &Dense{r: a.r, c: a.c, data: make([]float64, len(a.data))}
	var idx int
	for idx = range a.data {
		res.data[idx] = a.data[idx] + sign*b.data[idx]
	}

	return res, nil
}

// Add returns a + b.
// Errors: ErrNilMatrix, ErrDimensionMismatch (wrapped with "Add").
func Add(a, b *Dense) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub returns a - b.
// Errors: ErrNilMatrix, ErrDimensionMismatch (wrapped with "Sub").
func Sub(a, b *Dense) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul computes the matrix product a×b.
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b).
//   - Stage 2: i→k→j loop over flat buffers; the inner j loop is contiguous in
//     both b and the result, and zero a(i,k) entries are skipped.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	rows, inner, cols := a.r, a.c, b.c
	res := &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}
	var (
		i, k, j    int
		aik        float64
		rowA, rowB int
		rowOut     int
	)
	for i = 0; i < rows; i++ {
		rowA = i * inner
		rowOut = i * cols
		for k = 0; k < inner; k++ {
			aik = a.data[rowA+k]
			if aik == 0 {
				continue
			}
			rowB = k * cols
			for j = 0; j < cols; j++ {
				res.data[rowOut+j] += aik * b.data[rowB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵗ. m must be non-nil.
// Complexity: O(r*c).
func Transpose(m *Dense) *Dense {
	res := &Dense{r: m.c, c: m.r, data: make([]float64, len(m.data))}
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res
}

// Scale returns alpha*m as a fresh matrix. m must be non-nil.
func Scale(m *Dense, alpha float64) *Dense {
	res := m.Copy()
	ScaleInPlace(res, alpha)

	return res
}

// ScaleInPlace multiplies every element of m by alpha.
func ScaleInPlace(m *Dense, alpha float64) {
	var idx int
	for idx = range m.data {
		m.data[idx] *= alpha
	}
}

// AddScaledInPlace performs dst += alpha*src.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func AddScaledInPlace(dst *Dense, alpha float64, src *Dense) error {
	if err := ValidateBinarySameShape(dst, src); err != nil {
		return matrixErrorf(opAddScaled, err)
	}
	var idx int
	for idx = range dst.data {
		dst.data[idx] += alpha * src.data[idx]
	}

	return nil
}

// Hadamard returns the element-wise product a⊙b.
func Hadamard(a, b *Dense) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	res := &Dense{r: a.r, c: a.c, data: make([]float64, len(a.data))}
	var idx int
	for idx = range a.data {
		res.data[idx] = a.data[idx] * b.data[idx]
	}

	return res, nil
}

// SumProduct returns Σ a⊙b, i.e. the Frobenius inner product tr(aᵗ b).
// For n×1 operands this is the ordinary dot product.
func SumProduct(a, b *Dense) (float64, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return 0, matrixErrorf(opSumProduct, err)
	}
	acc := ZeroSum
	var idx int
	for idx = range a.data {
		acc += a.data[idx] * b.data[idx]
	}

	return acc, nil
}

// Trace returns Σ m[i,i] for a square m.
func Trace(m *Dense) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opTrace, err)
	}
	acc := ZeroSum
	var i int
	for i = 0; i < m.r; i++ {
		acc += m.data[i*m.c+i]
	}

	return acc, nil
}

// Diag returns the main diagonal of a square m.
func Diag(m *Dense) ([]float64, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opDiag, err)
	}
	out := make([]float64, m.r)
	var i int
	for i = 0; i < m.r; i++ {
		out[i] = m.data[i*m.c+i]
	}

	return out, nil
}

// FromDiag returns the len(d)×len(d) diagonal matrix diag(d).
func FromDiag(d []float64) (*Dense, error) {
	m, err := NewDense(len(d), len(d))
	if err != nil {
		return nil, matrixErrorf(opFromDiag, err)
	}
	var i int
	for i = range d {
		m.data[i*m.c+i] = d[i]
	}

	return m, nil
}

// HStack concatenates column blocks that share a row count.
func HStack(blocks ...*Dense) (*Dense, error) {
	if len(blocks) == 0 {
		return nil, matrixErrorf(opHStack, ErrInvalidDimensions)
	}
	var b, i int
	rows, cols := -1, 0
	for b = range blocks {
		if err := ValidateNotNil(blocks[b]); err != nil {
			return nil, matrixErrorf(opHStack, err)
		}
		if rows >= 0 && blocks[b].r != rows {
			return nil, matrixErrorf(opHStack, ErrDimensionMismatch)
		}
		rows = blocks[b].r
		cols += blocks[b].c
	}
	res := &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}
	off := 0
	for b = range blocks {
		for i = 0; i < rows; i++ {
			copy(res.data[i*cols+off:i*cols+off+blocks[b].c], blocks[b].data[i*blocks[b].c:(i+1)*blocks[b].c])
		}
		off += blocks[b].c
	}

	return res, nil
}

// SliceCols returns a copy of columns [c0, c1) of m.
func SliceCols(m *Dense, c0, c1 int) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSliceCols, err)
	}
	if c0 < 0 || c1 > m.c || c0 >= c1 {
		return nil, matrixErrorf(opSliceCols, ErrOutOfRange)
	}
	w := c1 - c0
	res := &Dense{r: m.r, c: w, data: make([]float64, m.r*w)}
	var i int
	for i = 0; i < m.r; i++ {
		copy(res.data[i*w:(i+1)*w], m.data[i*m.c+c0:i*m.c+c1])
	}

	return res, nil
}
