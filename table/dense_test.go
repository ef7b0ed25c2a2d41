package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitable/pkg/errors"
)

func TestDenseBridges(t *testing.T) {
	tbl, err := FromRows([][]int{{1, 2}, {3, 4}, {5, 6}}, []string{"x", "y"})
	require.NoError(t, err)

	m, err := ToDense(tbl)
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4.0, m.At(1, 1))

	back, err := FromDense(m, tbl.ColumnNames())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, back.Values())
	assert.Equal(t, []string{"x", "y"}, back.ColumnNames())

	v, err := ToVec(tbl, 1)
	require.NoError(t, err)
	assert.True(t, mat.Equal(v, mat.NewVecDense(3, []float64{2, 4, 6})))

	_, err = ToVec(tbl, 2)
	var idxErr *errors.IndexError
	assert.True(t, errors.As(err, &idxErr))

	_, err = ToDense(New[float64](0, 0))
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = FromDense(m, []string{"only"})
	assert.Error(t, err)
}
