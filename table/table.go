// Package table provides Table, a generic row-major two-dimensional container of a
// single element type, together with delimited-text ingestion and export, typed
// column selection and conversion, structural transforms, null handling for text
// tables and a descriptive-statistics adapter.
//
// Every transform allocates and returns a new Table unless an in-place flag is
// given. A Table is not safe for concurrent mutation.
package table

import (
	"slices"

	"github.com/YuminosukeSato/scitable/pkg/errors"
)

// Element is the set of cell types a Table can hold.
type Element interface {
	string | int | int8 | int16 | int32 | int64 | uint | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Number is the numeric subset of Element. Statistics and matrix bridges accept
// only numeric tables.
type Number interface {
	int | int8 | int16 | int32 | int64 | uint | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Table は単一の要素型を持つ行優先の2次元コンテナです。
// セル (r, c) は data[r*columns+c] に格納されます。
type Table[T Element] struct {
	rows       int
	columns    int
	data       []T
	names      []string
	hasHeaders bool
}

// New returns a zero-filled rows x columns table without column names.
// Negative sizes are treated as zero.
func New[T Element](rows, columns int) *Table[T] {
	t := &Table[T]{}
	t.Resize(rows, columns)
	return t
}

// FromRows builds a table from row slices. All rows must have the same length.
// names may be nil; otherwise it must contain one unique name per column.
func FromRows[T Element](rows [][]T, names []string) (*Table[T], error) {
	columns := 0
	if len(rows) > 0 {
		columns = len(rows[0])
	} else {
		columns = len(names)
	}
	for _, row := range rows {
		if len(row) != columns {
			return nil, errors.NewDimensionError("FromRows", columns, len(row), 1)
		}
	}

	t := New[T](len(rows), columns)
	for r, row := range rows {
		copy(t.data[r*columns:(r+1)*columns], row)
	}
	if err := t.SetColumnNames(names); err != nil {
		return nil, err
	}
	return t, nil
}

// FromColumn builds a single-column table from a vector.
func FromColumn[T Element](values []T, name string) *Table[T] {
	t := New[T](len(values), 1)
	copy(t.data, values)
	if name != "" {
		t.names = []string{name}
		t.hasHeaders = true
	}
	return t
}

// FromSlice builds a rows x columns table over a copy of row-major data.
func FromSlice[T Element](data []T, rows, columns int, names []string) (*Table[T], error) {
	if rows < 0 || columns < 0 {
		return nil, errors.NewValidationError("rows/columns", "must be non-negative", [2]int{rows, columns})
	}
	if len(data) != rows*columns {
		return nil, errors.NewDimensionError("FromSlice", rows*columns, len(data), 0)
	}
	t := New[T](rows, columns)
	copy(t.data, data)
	if err := t.SetColumnNames(names); err != nil {
		return nil, err
	}
	return t, nil
}

// Resize reallocates storage to rows*columns zero values. Previous contents are
// discarded. Column names are kept only while they still match the column count.
func (t *Table[T]) Resize(rows, columns int) {
	rows = max(rows, 0)
	columns = max(columns, 0)
	t.rows = rows
	t.columns = columns
	t.data = make([]T, rows*columns)
	if len(t.names) != columns {
		t.names = nil
		t.hasHeaders = false
	}
}

// Rows returns the number of rows.
func (t *Table[T]) Rows() int { return t.rows }

// Columns returns the number of columns.
func (t *Table[T]) Columns() int { return t.columns }

// Len returns the number of cells.
func (t *Table[T]) Len() int { return len(t.data) }

// Shape returns (rows, columns).
func (t *Table[T]) Shape() (int, int) { return t.rows, t.columns }

// HasHeaders reports whether the table carries column names from a header or constructor.
func (t *Table[T]) HasHeaders() bool { return t.hasHeaders }

// At returns the cell at (r, c).
func (t *Table[T]) At(r, c int) (T, error) {
	if err := t.checkCell("Table.At", r, c); err != nil {
		var zero T
		return zero, err
	}
	return t.data[r*t.columns+c], nil
}

// MustAt returns the cell at (r, c) without bounds checking against the logical
// shape. Out-of-range coordinates may address a neighbouring cell or panic.
func (t *Table[T]) MustAt(r, c int) T {
	return t.data[r*t.columns+c]
}

// Set stores v at (r, c).
func (t *Table[T]) Set(r, c int, v T) error {
	if err := t.checkCell("Table.Set", r, c); err != nil {
		return err
	}
	t.data[r*t.columns+c] = v
	return nil
}

// Row returns a copy of row r.
func (t *Table[T]) Row(r int) ([]T, error) {
	if r < 0 || r >= t.rows {
		return nil, errors.NewIndexError("Table.Row", r, t.rows, 0)
	}
	return slices.Clone(t.data[r*t.columns : (r+1)*t.columns]), nil
}

// Column returns a copy of column c.
func (t *Table[T]) Column(c int) ([]T, error) {
	if c < 0 || c >= t.columns {
		return nil, errors.NewIndexError("Table.Column", c, t.columns, 1)
	}
	out := make([]T, t.rows)
	for r := range out {
		out[r] = t.data[r*t.columns+c]
	}
	return out, nil
}

// SetRow overwrites row r. values must have one entry per column.
func (t *Table[T]) SetRow(r int, values []T) error {
	if r < 0 || r >= t.rows {
		return errors.NewIndexError("Table.SetRow", r, t.rows, 0)
	}
	if len(values) != t.columns {
		return errors.NewDimensionError("Table.SetRow", t.columns, len(values), 1)
	}
	copy(t.data[r*t.columns:(r+1)*t.columns], values)
	return nil
}

// SetColumn overwrites column c. values must have one entry per row.
func (t *Table[T]) SetColumn(c int, values []T) error {
	if c < 0 || c >= t.columns {
		return errors.NewIndexError("Table.SetColumn", c, t.columns, 1)
	}
	if len(values) != t.rows {
		return errors.NewDimensionError("Table.SetColumn", t.rows, len(values), 0)
	}
	for r, v := range values {
		t.data[r*t.columns+c] = v
	}
	return nil
}

// Take returns a new table holding the given rows in the given order.
// Indices may repeat.
func (t *Table[T]) Take(indices []int) (*Table[T], error) {
	for _, r := range indices {
		if r < 0 || r >= t.rows {
			return nil, errors.NewIndexError("Table.Take", r, t.rows, 0)
		}
	}
	return t.takeRows(indices), nil
}

// takeRows copies rows without validating indices.
func (t *Table[T]) takeRows(indices []int) *Table[T] {
	out := t.emptyLike(len(indices), t.columns)
	for i, r := range indices {
		copy(out.data[i*t.columns:(i+1)*t.columns], t.data[r*t.columns:(r+1)*t.columns])
	}
	return out
}

// ColumnNames returns a copy of the column names. It is empty when the table has none.
func (t *Table[T]) ColumnNames() []string {
	return slices.Clone(t.names)
}

// SetColumnNames replaces the column names. An empty slice removes them.
func (t *Table[T]) SetColumnNames(names []string) error {
	if len(names) == 0 {
		t.names = nil
		t.hasHeaders = false
		return nil
	}
	if len(names) != t.columns {
		return errors.NewDimensionError("Table.SetColumnNames", t.columns, len(names), 1)
	}
	if dup := duplicateNames(names); len(dup) > 0 {
		return errors.NewDuplicateColumnError("Table.SetColumnNames", dup)
	}
	t.names = slices.Clone(names)
	t.hasHeaders = true
	return nil
}

// ColumnIndices resolves column names to positions in the order given.
func (t *Table[T]) ColumnIndices(names []string) ([]int, error) {
	indices := make([]int, len(names))
	for i, name := range names {
		idx := slices.Index(t.names, name)
		if idx < 0 {
			return nil, errors.NewColumnNotFoundError(name)
		}
		indices[i] = idx
	}
	return indices, nil
}

// Clone returns a deep copy.
func (t *Table[T]) Clone() *Table[T] {
	return &Table[T]{
		rows:       t.rows,
		columns:    t.columns,
		data:       slices.Clone(t.data),
		names:      slices.Clone(t.names),
		hasHeaders: t.hasHeaders,
	}
}

// Equal reports whether both tables have the same shape, column names and cells.
func (t *Table[T]) Equal(other *Table[T]) bool {
	if other == nil {
		return false
	}
	return t.rows == other.rows &&
		t.columns == other.columns &&
		slices.Equal(t.names, other.names) &&
		slices.Equal(t.data, other.data)
}

// Values returns a copy of the row-major cell storage.
func (t *Table[T]) Values() []T {
	return slices.Clone(t.data)
}

func (t *Table[T]) checkCell(op string, r, c int) error {
	if r < 0 || r >= t.rows {
		return errors.NewIndexError(op, r, t.rows, 0)
	}
	if c < 0 || c >= t.columns {
		return errors.NewIndexError(op, c, t.columns, 1)
	}
	return nil
}

// emptyLike allocates a rows x columns table carrying the receiver's names when
// the column count is unchanged.
func (t *Table[T]) emptyLike(rows, columns int) *Table[T] {
	out := New[T](rows, columns)
	if columns == t.columns && len(t.names) > 0 {
		out.names = slices.Clone(t.names)
		out.hasHeaders = t.hasHeaders
	}
	return out
}

// assign replaces the receiver's contents with src, used by in-place operations.
func (t *Table[T]) assign(src *Table[T]) {
	t.rows = src.rows
	t.columns = src.columns
	t.data = src.data
	t.names = src.names
	t.hasHeaders = src.hasHeaders
}

// duplicateNames returns every name that occurs more than once, sorted.
func duplicateNames(names []string) []string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	if len(slices.Compact(slices.Clone(sorted))) == len(sorted) {
		return nil
	}
	var dup []string
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] && (len(dup) == 0 || dup[len(dup)-1] != sorted[i]) {
			dup = append(dup, sorted[i])
		}
	}
	return dup
}
