package table

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitable/pkg/errors"
)

// ToDense copies a numeric table into a gonum matrix. Row-major storage maps
// directly onto mat.NewDense.
func ToDense[T Number](t *Table[T]) (*mat.Dense, error) {
	if t.rows == 0 || t.columns == 0 {
		return nil, errors.NewModelError("ToDense", "empty table", errors.ErrEmptyData)
	}
	data := make([]float64, len(t.data))
	for i, v := range t.data {
		data[i] = float64(v)
	}
	return mat.NewDense(t.rows, t.columns, data), nil
}

// FromDense copies a gonum matrix into a float64 table. names may be nil.
func FromDense(m mat.Matrix, names []string) (*Table[float64], error) {
	r, c := m.Dims()
	t := New[float64](r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			t.data[i*c+j] = m.At(i, j)
		}
	}
	if err := t.SetColumnNames(names); err != nil {
		return nil, err
	}
	return t, nil
}

// ToVec copies one column of a numeric table into a gonum vector.
func ToVec[T Number](t *Table[T], column int) (*mat.VecDense, error) {
	if column < 0 || column >= t.columns {
		return nil, errors.NewIndexError("ToVec", column, t.columns, 1)
	}
	if t.rows == 0 {
		return nil, errors.NewModelError("ToVec", "empty table", errors.ErrEmptyData)
	}
	return mat.NewVecDense(t.rows, columnFloats(t, column)), nil
}
