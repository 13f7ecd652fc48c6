package gocas

import (
	"fmt"
	"sort"

	"github.com/njchilds90/gocas/internal/casterr"
)

// ============================================================
// Matrix: symbolic matrix with structured storage
// ============================================================

type MatrixStorage uint8

const (
	DenseStorage MatrixStorage = iota
	SparseStorage
	SymmetricStorage
	DiagonalStorage
	IdentityStorage
)

var storageNames = [...]string{"dense", "sparse", "symmetric", "diagonal", "identity"}

func (s MatrixStorage) String() string { return storageNames[s] }

// ParseMatrixStorage is the inverse of MatrixStorage.String.
func ParseMatrixStorage(s string) (MatrixStorage, bool) {
	for i, n := range storageNames {
		if n == s {
			return MatrixStorage(i), true
		}
	}
	return 0, false
}

// MatrixEntry is a (row, col, value) triple of sparse storage.
type MatrixEntry struct {
	Row, Col int
	Value    Expr
}

// Matrix entries are addressed through At regardless of storage. Equality
// is by dimensions and entries, so a dense identity equals IdentityMatrix.
type Matrix struct {
	storage    MatrixStorage
	rows, cols int
	data       []Expr
	sparse     []MatrixEntry
	h          uint64
}

func (m *Matrix) seal() *Matrix {
	h := newHasher(KindMatrix).u64(uint64(m.rows)).u64(uint64(m.cols))
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			h.expr(m.At(i, j))
		}
	}
	m.h = h.sum()
	return m
}

func errDims(op string, r1, c1, r2, c2 int) error {
	return casterr.New(casterr.KindDimensionMismatch, op, "incompatible dimensions").
		WithValue(fmt.Sprintf("%dx%d vs %dx%d", r1, c1, r2, c2))
}

// MatrixOf builds a dense matrix from equal-length rows.
func MatrixOf(rows [][]Expr) (*Matrix, error) {
	r := len(rows)
	c := 0
	if r > 0 {
		c = len(rows[0])
	}
	data := make([]Expr, 0, r*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, casterr.New(casterr.KindDimensionMismatch, "matrix",
				"rows must have equal length").WithValue(fmt.Sprintf("row %d has %d entries, want %d", i, len(row), c))
		}
		data = append(data, row...)
	}
	return (&Matrix{storage: DenseStorage, rows: r, cols: c, data: data}).seal(), nil
}

// NewMatrix builds a dense rows×cols matrix from row-major entries.
func NewMatrix(rows, cols int, entries []Expr) (*Matrix, error) {
	if rows < 0 || cols < 0 || len(entries) != rows*cols {
		return nil, casterr.New(casterr.KindDimensionMismatch, "matrix", "entry count does not match dimensions").
			WithValue(fmt.Sprintf("%d entries for %dx%d", len(entries), rows, cols))
	}
	return (&Matrix{storage: DenseStorage, rows: rows, cols: cols, data: append([]Expr(nil), entries...)}).seal(), nil
}

// SparseMatrixOf stores only non-zero triples; a repeated position keeps
// the last value.
func SparseMatrixOf(rows, cols int, entries []MatrixEntry) (*Matrix, error) {
	byPos := map[[2]int]Expr{}
	for _, e := range entries {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, casterr.New(casterr.KindDimensionMismatch, "sparse_matrix", "entry out of range").
				WithValue(fmt.Sprintf("(%d,%d) in %dx%d", e.Row, e.Col, rows, cols))
		}
		byPos[[2]int{e.Row, e.Col}] = e.Value
	}
	out := make([]MatrixEntry, 0, len(byPos))
	for pos, v := range byPos {
		if !isZero(v) {
			out = append(out, MatrixEntry{Row: pos[0], Col: pos[1], Value: v})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return (&Matrix{storage: SparseStorage, rows: rows, cols: cols, sparse: out}).seal(), nil
}

// SymmetricMatrixOf stores the upper triangle of a square symmetric matrix.
func SymmetricMatrixOf(rows [][]Expr) (*Matrix, error) {
	n := len(rows)
	for i, row := range rows {
		if len(row) != n {
			return nil, casterr.New(casterr.KindDimensionMismatch, "symmetric_matrix", "matrix must be square")
		}
		for j := 0; j < i; j++ {
			if !row[j].Equal(rows[j][i]) {
				return nil, casterr.New(casterr.KindInvalidArgument, "symmetric_matrix", "matrix is not symmetric").
					WithValue(fmt.Sprintf("(%d,%d)", i, j))
			}
		}
	}
	data := make([]Expr, 0, n*(n+1)/2)
	for i := 0; i < n; i++ {
		data = append(data, rows[i][i:]...)
	}
	return (&Matrix{storage: SymmetricStorage, rows: n, cols: n, data: data}).seal(), nil
}

func DiagonalMatrixOf(diag ...Expr) *Matrix {
	n := len(diag)
	return (&Matrix{storage: DiagonalStorage, rows: n, cols: n, data: append([]Expr(nil), diag...)}).seal()
}

func IdentityMatrix(n int) *Matrix {
	return (&Matrix{storage: IdentityStorage, rows: n, cols: n}).seal()
}

// ZeroMatrix is an empty sparse matrix.
func ZeroMatrix(rows, cols int) *Matrix {
	return (&Matrix{storage: SparseStorage, rows: rows, cols: cols}).seal()
}

func (*Matrix) Kind() Kind               { return KindMatrix }
func (m *Matrix) Hash() uint64           { return m.h }
func (m *Matrix) Rows() int              { return m.rows }
func (m *Matrix) Cols() int              { return m.cols }
func (m *Matrix) Storage() MatrixStorage { return m.storage }
func (m *Matrix) IsSquare() bool         { return m.rows == m.cols }
func (*Matrix) isExpr()                  {}

func (m *Matrix) At(i, j int) Expr {
	switch m.storage {
	case DenseStorage:
		return m.data[i*m.cols+j]
	case SparseStorage:
		k := sort.Search(len(m.sparse), func(k int) bool {
			e := m.sparse[k]
			return e.Row > i || (e.Row == i && e.Col >= j)
		})
		if k < len(m.sparse) && m.sparse[k].Row == i && m.sparse[k].Col == j {
			return m.sparse[k].Value
		}
		return zero
	case SymmetricStorage:
		if i > j {
			i, j = j, i
		}
		return m.data[i*m.rows-i*(i-1)/2+(j-i)]
	case DiagonalStorage:
		if i == j {
			return m.data[i]
		}
		return zero
	}
	if i == j {
		return one
	}
	return zero
}

// ToRows returns the entries as a fresh row slice.
func (m *Matrix) ToRows() [][]Expr {
	out := make([][]Expr, m.rows)
	for i := range out {
		out[i] = make([]Expr, m.cols)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

// SparseEntries returns the non-zero triples of any storage.
func (m *Matrix) SparseEntries() []MatrixEntry {
	if m.storage == SparseStorage {
		return append([]MatrixEntry(nil), m.sparse...)
	}
	var out []MatrixEntry
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if v := m.At(i, j); !isZero(v) {
				out = append(out, MatrixEntry{Row: i, Col: j, Value: v})
			}
		}
	}
	return out
}

// Diagonal returns the main diagonal.
func (m *Matrix) Diagonal() []Expr {
	n := min(m.rows, m.cols)
	out := make([]Expr, n)
	for i := range out {
		out[i] = m.At(i, i)
	}
	return out
}

func (m *Matrix) Equal(other Expr) bool {
	o, ok := other.(*Matrix)
	if !ok || o.h != m.h || o.rows != m.rows || o.cols != m.cols {
		return false
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if !m.At(i, j).Equal(o.At(i, j)) {
				return false
			}
		}
	}
	return true
}

// Map applies f to every stored entry, keeping the storage layout. Identity
// storage becomes diagonal.
func (m *Matrix) Map(f func(Expr) Expr) *Matrix {
	switch m.storage {
	case SparseStorage:
		out := make([]MatrixEntry, len(m.sparse))
		for k, e := range m.sparse {
			out[k] = MatrixEntry{Row: e.Row, Col: e.Col, Value: f(e.Value)}
		}
		r, _ := SparseMatrixOf(m.rows, m.cols, out)
		return r
	case IdentityStorage:
		d := make([]Expr, m.rows)
		for i := range d {
			d[i] = f(one)
		}
		return DiagonalMatrixOf(d...)
	}
	data := make([]Expr, len(m.data))
	for i, e := range m.data {
		data[i] = f(e)
	}
	return (&Matrix{storage: m.storage, rows: m.rows, cols: m.cols, data: data}).seal()
}

func diagonalClass(m *Matrix) bool {
	return m.storage == DiagonalStorage || m.storage == IdentityStorage
}

func symmetricClass(m *Matrix) bool {
	return m.storage == SymmetricStorage || diagonalClass(m)
}

// zip combines two equally sized matrices entry by entry, choosing the
// narrowest storage both operands share.
func zip(a, b *Matrix, f func(x, y Expr) Expr) *Matrix {
	switch {
	case diagonalClass(a) && diagonalClass(b):
		d := make([]Expr, a.rows)
		for i := range d {
			d[i] = f(a.At(i, i), b.At(i, i))
		}
		return DiagonalMatrixOf(d...)
	case symmetricClass(a) && symmetricClass(b):
		rows := make([][]Expr, a.rows)
		for i := range rows {
			rows[i] = make([]Expr, a.cols)
			for j := range rows[i] {
				if j < i {
					rows[i][j] = rows[j][i]
					continue
				}
				rows[i][j] = f(a.At(i, j), b.At(i, j))
			}
		}
		m, _ := SymmetricMatrixOf(rows)
		return m
	case a.storage == SparseStorage && b.storage == SparseStorage:
		pos := map[[2]int]bool{}
		var entries []MatrixEntry
		for _, e := range append(a.SparseEntries(), b.SparseEntries()...) {
			k := [2]int{e.Row, e.Col}
			if pos[k] {
				continue
			}
			pos[k] = true
			entries = append(entries, MatrixEntry{Row: e.Row, Col: e.Col, Value: f(a.At(e.Row, e.Col), b.At(e.Row, e.Col))})
		}
		m, _ := SparseMatrixOf(a.rows, a.cols, entries)
		return m
	}
	data := make([]Expr, 0, a.rows*a.cols)
	for i := 0; i < a.rows; i++ {
		for j := 0; j < a.cols; j++ {
			data = append(data, f(a.At(i, j), b.At(i, j)))
		}
	}
	return (&Matrix{storage: DenseStorage, rows: a.rows, cols: a.cols, data: data}).seal()
}

func MatAdd(a, b *Matrix) (*Matrix, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, errDims("mat_add", a.rows, a.cols, b.rows, b.cols)
	}
	return zip(a, b, func(x, y Expr) Expr { return AddOf(x, y) }), nil
}

func MatSub(a, b *Matrix) (*Matrix, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, errDims("mat_sub", a.rows, a.cols, b.rows, b.cols)
	}
	return zip(a, b, SubOf), nil
}

func MatMul(a, b *Matrix) (*Matrix, error) {
	if a.cols != b.rows {
		return nil, errDims("mat_mul", a.rows, a.cols, b.rows, b.cols)
	}
	if diagonalClass(a) && diagonalClass(b) {
		d := make([]Expr, a.rows)
		for i := range d {
			d[i] = MulOf(a.At(i, i), b.At(i, i))
		}
		return DiagonalMatrixOf(d...), nil
	}
	if a.storage == IdentityStorage {
		return b, nil
	}
	if b.storage == IdentityStorage {
		return a, nil
	}
	data := make([]Expr, 0, a.rows*b.cols)
	for i := 0; i < a.rows; i++ {
		for j := 0; j < b.cols; j++ {
			terms := make([]Expr, 0, a.cols)
			for k := 0; k < a.cols; k++ {
				x, y := a.At(i, k), b.At(k, j)
				if isZero(x) || isZero(y) {
					continue
				}
				terms = append(terms, MulOf(x, y))
			}
			data = append(data, AddOf(terms...))
		}
	}
	return (&Matrix{storage: DenseStorage, rows: a.rows, cols: b.cols, data: data}).seal(), nil
}

// MatScale multiplies every entry by s on the left.
func MatScale(m *Matrix, s Expr) *Matrix {
	return m.Map(func(e Expr) Expr { return MulOf(s, e) })
}

func Transpose(m *Matrix) *Matrix {
	switch m.storage {
	case SymmetricStorage, DiagonalStorage, IdentityStorage:
		return m
	case SparseStorage:
		out := make([]MatrixEntry, len(m.sparse))
		for k, e := range m.sparse {
			out[k] = MatrixEntry{Row: e.Col, Col: e.Row, Value: e.Value}
		}
		r, _ := SparseMatrixOf(m.cols, m.rows, out)
		return r
	}
	data := make([]Expr, 0, len(m.data))
	for j := 0; j < m.cols; j++ {
		for i := 0; i < m.rows; i++ {
			data = append(data, m.At(i, j))
		}
	}
	return (&Matrix{storage: DenseStorage, rows: m.cols, cols: m.rows, data: data}).seal()
}

func Trace(m *Matrix) (Expr, error) {
	if !m.IsSquare() {
		return nil, errDims("trace", m.rows, m.cols, m.cols, m.rows)
	}
	return AddOf(m.Diagonal()...), nil
}

// Det computes the determinant by fraction-free Bareiss elimination with
// rational-function cancellation of each exact quotient.
func Det(m *Matrix) (Expr, error) {
	if !m.IsSquare() {
		return nil, errDims("det", m.rows, m.cols, m.cols, m.rows)
	}
	n := m.rows
	switch {
	case n == 0:
		return one, nil
	case diagonalClass(m):
		return MulOf(m.Diagonal()...), nil
	case n == 1:
		return m.At(0, 0), nil
	case n == 2:
		return SubOf(MulOf(m.At(0, 0), m.At(1, 1)), MulOf(m.At(0, 1), m.At(1, 0))), nil
	}
	a := m.ToRows()
	sign := 1
	prev := Expr(one)
	for k := 0; k < n-1; k++ {
		if isZeroRational(a[k][k]) {
			swap := -1
			for i := k + 1; i < n; i++ {
				if !isZeroRational(a[i][k]) {
					swap = i
					break
				}
			}
			if swap < 0 {
				return zero, nil
			}
			a[k], a[swap] = a[swap], a[k]
			sign = -sign
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				num := SubOf(MulOf(a[k][k], a[i][j]), MulOf(a[i][k], a[k][j]))
				a[i][j] = Cancel(DivOf(num, prev))
			}
		}
		prev = a[k][k]
	}
	d := a[n-1][n-1]
	if sign < 0 {
		d = Neg(d)
	}
	return d, nil
}

// Inverse runs Gauss-Jordan elimination on [m | I].
func Inverse(m *Matrix) (*Matrix, error) {
	if !m.IsSquare() {
		return nil, errDims("inverse", m.rows, m.cols, m.cols, m.rows)
	}
	n := m.rows
	singular := func() error {
		return casterr.New(casterr.KindSingularMatrix, "inverse", "determinant is zero")
	}
	if diagonalClass(m) {
		d := m.Diagonal()
		for i, e := range d {
			if isZeroRational(e) {
				return nil, singular()
			}
			d[i] = PowOf(e, negOne)
		}
		return DiagonalMatrixOf(d...), nil
	}
	a := m.ToRows()
	inv := IdentityMatrix(n).ToRows()
	for k := 0; k < n; k++ {
		p := -1
		for i := k; i < n; i++ {
			if !isZeroRational(a[i][k]) {
				p = i
				break
			}
		}
		if p < 0 {
			return nil, singular()
		}
		a[k], a[p] = a[p], a[k]
		inv[k], inv[p] = inv[p], inv[k]
		piv := a[k][k]
		for j := 0; j < n; j++ {
			a[k][j] = Cancel(DivOf(a[k][j], piv))
			inv[k][j] = Cancel(DivOf(inv[k][j], piv))
		}
		for i := 0; i < n; i++ {
			if i == k || isZero(a[i][k]) {
				continue
			}
			f := a[i][k]
			for j := 0; j < n; j++ {
				a[i][j] = Cancel(SubOf(a[i][j], MulOf(f, a[k][j])))
				inv[i][j] = Cancel(SubOf(inv[i][j], MulOf(f, inv[k][j])))
			}
		}
	}
	return MatrixOf(inv)
}

// MatPow raises a square matrix to a non-negative integer power.
func MatPow(m *Matrix, k int) (*Matrix, error) {
	if !m.IsSquare() {
		return nil, errDims("mat_pow", m.rows, m.cols, m.cols, m.rows)
	}
	if k < 0 {
		inv, err := Inverse(m)
		if err != nil {
			return nil, err
		}
		return MatPow(inv, -k)
	}
	result := IdentityMatrix(m.rows)
	base := m
	for k > 0 {
		var err error
		if k&1 == 1 {
			if result, err = MatMul(result, base); err != nil {
				return nil, err
			}
		}
		if k >>= 1; k > 0 {
			if base, err = MatMul(base, base); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}
