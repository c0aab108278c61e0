// SPDX-License-Identifier: MIT

package lazy

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lazygp/matrix"
	"github.com/katalvlaran/lazygp/toeplitz"
)

// Toeplitz is the lazy variable W_left · T(c) · W_rightᵗ + diag(d), with an
// optional leading batch axis (one c and one d per batch entry; interpolation
// tables are shared).
type Toeplitz struct {
	cs          [][]float64
	left, right *toeplitz.Interp
	diag        [][]float64 // nil: no added diagonal; indexed by unsliced row
	rowOff      int         // unsliced index of current row 0
	colOff      int         // unsliced index of current column 0
	batched     bool
}

// ToeplitzOption configures NewToeplitz and NewToeplitzBatch.
type ToeplitzOption func(*toeplitzOptions)

type toeplitzOptions struct {
	jLeft, jRight [][]int
	cLeft, cRight [][]float64
	tables        bool
	left, right   *toeplitz.Interp
	diag          []float64
}

// WithInterpolation sets W_left and W_right from index/coefficient tables:
// row i of W_left has coefficient cLeft[i][a] at column jLeft[i][a].
func WithInterpolation(jLeft [][]int, cLeft [][]float64, jRight [][]int, cRight [][]float64) ToeplitzOption {
	return func(o *toeplitzOptions) {
		o.jLeft, o.cLeft, o.jRight, o.cRight = jLeft, cLeft, jRight, cRight
		o.tables = true
	}
}

// WithInterpolators sets W_left and W_right from prebuilt Interp values.
func WithInterpolators(left, right *toeplitz.Interp) ToeplitzOption {
	return func(o *toeplitzOptions) { o.left, o.right = left, right }
}

// WithAddedDiag adds diag(d) to every batch entry. M must be square and
// len(d) must equal its row count.
func WithAddedDiag(d []float64) ToeplitzOption {
	return func(o *toeplitzOptions) { o.diag = d }
}

// NewToeplitz builds a non-batched Toeplitz lazy variable from c.
func NewToeplitz(c []float64, opts ...ToeplitzOption) (*Toeplitz, error) {
	t, err := NewToeplitzBatch([][]float64{c}, opts...)
	if err != nil {
		return nil, err
	}
	t.batched = false

	return t, nil
}

// NewToeplitzBatch builds a batched Toeplitz lazy variable, one generating
// vector per batch entry (all of the same length).
//
// Errors:
//   - toeplitz.ErrEmptyVector for an empty batch or empty c.
//   - ErrBatchMismatch when generating vectors differ in length.
//   - toeplitz.ErrRaggedTable, toeplitz.ErrIndexOutOfRange for bad tables.
//   - matrix.ErrNonSquare, ErrDiagLength for a bad added diagonal.
func NewToeplitzBatch(cs [][]float64, opts ...ToeplitzOption) (*Toeplitz, error) {
	if len(cs) == 0 || len(cs[0]) == 0 {
		return nil, fmt.Errorf("NewToeplitz: %w", toeplitz.ErrEmptyVector)
	}
	m := len(cs[0])
	t := &Toeplitz{cs: make([][]float64, len(cs)), batched: true}
	for b := range cs {
		if len(cs[b]) != m {
			return nil, fmt.Errorf("NewToeplitz: c[%d] has %d entries, want %d: %w", b, len(cs[b]), m, ErrBatchMismatch)
		}
		t.cs[b] = append([]float64(nil), cs[b]...)
	}

	var o toeplitzOptions
	for _, opt := range opts {
		opt(&o)
	}
	var err error
	switch {
	case o.tables:
		if t.left, err = toeplitz.NewInterp(o.jLeft, o.cLeft, m); err != nil {
			return nil, fmt.Errorf("NewToeplitz: left: %w", err)
		}
		if t.right, err = toeplitz.NewInterp(o.jRight, o.cRight, m); err != nil {
			return nil, fmt.Errorf("NewToeplitz: right: %w", err)
		}
	case o.left != nil && o.right != nil:
		if o.left.Cols() != m || o.right.Cols() != m {
			return nil, fmt.Errorf("NewToeplitz: interpolation over %d/%d points, core has %d: %w",
				o.left.Cols(), o.right.Cols(), m, matrix.ErrDimensionMismatch)
		}
		t.left, t.right = o.left, o.right
	default:
		t.left, t.right = toeplitz.IdentityInterp(m), toeplitz.IdentityInterp(m)
	}

	if o.diag != nil {
		rows, cols := t.Size()
		if rows != cols {
			return nil, fmt.Errorf("NewToeplitz: added diagonal on %dx%d: %w", rows, cols, matrix.ErrNonSquare)
		}
		if len(o.diag) != rows {
			return nil, fmt.Errorf("NewToeplitz: diagonal has %d entries, want %d: %w", len(o.diag), rows, ErrDiagLength)
		}
		d := append([]float64(nil), o.diag...)
		t.diag = make([][]float64, len(cs))
		for b := range t.diag {
			t.diag[b] = d
		}
	}

	return t, nil
}

// Size returns (rows, cols) of one batch entry.
func (t *Toeplitz) Size() (int, int) { return t.left.Rows(), t.right.Rows() }

// BatchSize returns the batch length (1 when not batched).
func (t *Toeplitz) BatchSize() int { return len(t.cs) }

// Batched reports whether t has a leading batch axis.
func (t *Toeplitz) Batched() bool { return t.batched }

// CoreSize returns m = len(c).
func (t *Toeplitz) CoreSize() int { return len(t.cs[0]) }

// C returns a copy of the generating vector of batch entry b.
func (t *Toeplitz) C(b int) []float64 { return append([]float64(nil), t.cs[b]...) }

// with returns a shallow copy of t.
func (t *Toeplitz) with() *Toeplitz {
	cp := *t

	return &cp
}

// Mul returns s·M: c and the added diagonal are scaled, index tables shared.
func (t *Toeplitz) Mul(s float64) *Toeplitz {
	out := t.with()
	out.cs = scaleAll(t.cs, s)
	if t.diag != nil {
		out.diag = scaleAll(t.diag, s)
	}

	return out
}

func scaleAll(src [][]float64, s float64) [][]float64 {
	out := make([][]float64, len(src))
	for b := range src {
		out[b] = make([]float64, len(src[b]))
		for i, v := range src[b] {
			out[b][i] = s * v
		}
	}

	return out
}

// Slice returns rows [r0, r1) and columns [c0, c1) of every batch entry.
func (t *Toeplitz) Slice(r0, r1, c0, c1 int) (*Toeplitz, error) {
	rows, cols := t.Size()
	if err := checkRange(r0, r1, rows); err != nil {
		return nil, fmt.Errorf("Toeplitz.Slice: rows: %w", err)
	}
	if err := checkRange(c0, c1, cols); err != nil {
		return nil, fmt.Errorf("Toeplitz.Slice: cols: %w", err)
	}
	out := t.with()
	out.left = t.left.SelectRows(span(r0, r1))
	out.right = t.right.SelectRows(span(c0, c1))
	out.rowOff += r0
	out.colOff += c0

	return out, nil
}

// Rows returns rows [r0, r1) and all columns.
func (t *Toeplitz) Rows(r0, r1 int) (*Toeplitz, error) {
	_, cols := t.Size()

	return t.Slice(r0, r1, 0, cols)
}

func span(lo, hi int) []int {
	idx := make([]int, hi-lo)
	for i := range idx {
		idx[i] = lo + i
	}

	return idx
}

// Index returns batch entry b without the batch axis.
func (t *Toeplitz) Index(b int) (*Toeplitz, error) {
	out, err := t.BatchSlice(b, b+1)
	if err != nil {
		return nil, err
	}
	out.batched = false

	return out, nil
}

// BatchSlice returns batch entries [b0, b1), keeping the batch axis.
func (t *Toeplitz) BatchSlice(b0, b1 int) (*Toeplitz, error) {
	if !t.batched {
		return nil, fmt.Errorf("Toeplitz.BatchSlice: %w", ErrNotBatched)
	}
	if err := checkRange(b0, b1, len(t.cs)); err != nil {
		return nil, fmt.Errorf("Toeplitz.BatchSlice: %w", err)
	}
	out := t.with()
	out.cs = t.cs[b0:b1:b1]
	if t.diag != nil {
		out.diag = t.diag[b0:b1:b1]
	}

	return out, nil
}

// Repeat stacks n copies of t along a leading batch axis. A batched t is
// tiled: the result has n·BatchSize() entries.
func (t *Toeplitz) Repeat(n int) (*Toeplitz, error) {
	if n <= 0 {
		return nil, fmt.Errorf("Toeplitz.Repeat: n=%d: %w", n, matrix.ErrInvalidDimensions)
	}
	out := t.with()
	out.cs = make([][]float64, 0, n*len(t.cs))
	for r := 0; r < n; r++ {
		out.cs = append(out.cs, t.cs...)
	}
	if t.diag != nil {
		out.diag = make([][]float64, 0, n*len(t.diag))
		for r := 0; r < n; r++ {
			out.diag = append(out.diag, t.diag...)
		}
	}
	out.batched = true

	return out, nil
}

// matmulAt returns entry b's product with rhs.
func (t *Toeplitz) matmulAt(b int, rhs *matrix.Dense) (*matrix.Dense, error) {
	if err := matrix.ValidateNotNil(rhs); err != nil {
		return nil, err
	}
	rows, cols := t.Size()
	if rhs.Rows() != cols {
		return nil, fmt.Errorf("operand has %d rows, want %d: %w", rhs.Rows(), cols, matrix.ErrDimensionMismatch)
	}
	u, err := t.right.ApplyT(rhs)
	if err != nil {
		return nil, err
	}
	v, err := toeplitz.Matmul(t.cs[b], u)
	if err != nil {
		return nil, err
	}
	out, err := t.left.Apply(v)
	if err != nil {
		return nil, err
	}
	if t.diag == nil {
		return out, nil
	}

	k := rhs.Cols()
	d, src, dst := t.diag[b], rhs.RawData(), out.RawData()
	var i, j, col int
	for i = 0; i < rows; i++ {
		j = i + t.rowOff - t.colOff
		if j < 0 || j >= cols {
			continue
		}
		for col = 0; col < k; col++ {
			dst[i*k+col] += d[t.rowOff+i] * src[j*k+col]
		}
	}

	return out, nil
}

// Matmul returns M·rhs for a non-batched variable.
func (t *Toeplitz) Matmul(rhs *matrix.Dense) (*matrix.Dense, error) {
	if t.batched {
		return nil, fmt.Errorf("Toeplitz.Matmul: %w", ErrBatched)
	}
	out, err := t.matmulAt(0, rhs)
	if err != nil {
		return nil, fmt.Errorf("Toeplitz.Matmul: %w", err)
	}

	return out, nil
}

// BatchMatmul returns M_b·rhs[b] for every batch entry. Entries are
// independent and are multiplied concurrently.
func (t *Toeplitz) BatchMatmul(rhs []*matrix.Dense) ([]*matrix.Dense, error) {
	if len(rhs) != len(t.cs) {
		return nil, fmt.Errorf("Toeplitz.BatchMatmul: %d operands for %d entries: %w", len(rhs), len(t.cs), ErrBatchMismatch)
	}
	out := make([]*matrix.Dense, len(rhs))
	err := t.forEachEntry(func(b int) error {
		m, err := t.matmulAt(b, rhs[b])
		if err != nil {
			return fmt.Errorf("Toeplitz.BatchMatmul: entry %d: %w", b, err)
		}
		out[b] = m

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// forEachEntry runs fn once per batch entry on a bounded errgroup and
// returns the first error.
func (t *Toeplitz) forEachEntry(fn func(b int) error) error {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for b := range t.cs {
		b := b
		g.Go(func() error { return fn(b) })
	}

	return g.Wait()
}

// Evaluate materializes a non-batched variable.
func (t *Toeplitz) Evaluate() (*matrix.Dense, error) {
	if t.batched {
		return nil, fmt.Errorf("Toeplitz.Evaluate: %w", ErrBatched)
	}

	return t.evaluateAt(0)
}

// EvaluateBatch materializes every batch entry.
func (t *Toeplitz) EvaluateBatch() ([]*matrix.Dense, error) {
	out := make([]*matrix.Dense, len(t.cs))
	err := t.forEachEntry(func(b int) error {
		m, err := t.evaluateAt(b)
		out[b] = m

		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (t *Toeplitz) evaluateAt(b int) (*matrix.Dense, error) {
	_, cols := t.Size()
	eye, err := matrix.Identity(cols)
	if err != nil {
		return nil, err
	}
	out, err := t.matmulAt(b, eye)
	if err != nil {
		return nil, fmt.Errorf("Toeplitz.Evaluate: %w", err)
	}

	return out, nil
}

// Diag returns the diagonal of a square non-batched variable in
// O(rows · nnz²) without materializing M.
func (t *Toeplitz) Diag() ([]float64, error) {
	if t.batched {
		return nil, fmt.Errorf("Toeplitz.Diag: %w", ErrBatched)
	}

	return t.diagAt(0)
}

// DiagBatch returns the diagonal of every batch entry.
func (t *Toeplitz) DiagBatch() ([][]float64, error) {
	out := make([][]float64, len(t.cs))
	err := t.forEachEntry(func(b int) error {
		d, err := t.diagAt(b)
		out[b] = d

		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (t *Toeplitz) diagAt(b int) ([]float64, error) {
	rows, cols := t.Size()
	if rows != cols {
		return nil, fmt.Errorf("Toeplitz.Diag: %dx%d: %w", rows, cols, matrix.ErrNonSquare)
	}
	c := t.cs[b]
	out := make([]float64, rows)
	var i, a, q, d int
	for i = 0; i < rows; i++ {
		jl, cl := t.left.Entries(i)
		jr, cr := t.right.Entries(i)
		acc := 0.0
		for a = range jl {
			for q = range jr {
				d = jl[a] - jr[q]
				if d < 0 {
					d = -d
				}
				acc += cl[a] * cr[q] * c[d]
			}
		}
		if t.diag != nil && t.rowOff == t.colOff {
			acc += t.diag[b][t.rowOff+i]
		}
		out[i] = acc
	}

	return out, nil
}
