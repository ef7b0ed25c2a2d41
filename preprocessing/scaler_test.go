package preprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/table"
)

func features(t *testing.T) *table.Table[float64] {
	t.Helper()
	X, err := table.FromRows([][]float64{
		{1, 10, 7},
		{2, 20, 7},
		{3, 30, 7},
	}, []string{"a", "b", "const"})
	require.NoError(t, err)
	return X
}

func assertCells(t *testing.T, want []float64, got *table.Table[float64]) {
	t.Helper()
	require.Len(t, got.Values(), len(want))
	for i, v := range got.Values() {
		assert.InDelta(t, want[i], v, 1e-9, "cell %d", i)
	}
}

func TestStandardScaler(t *testing.T) {
	X := features(t)
	s := NewStandardScaler(true, true)

	scaled, err := s.FitTransform(X)
	require.NoError(t, err)

	z := 1 / math.Sqrt(2.0/3.0)
	assertCells(t, []float64{
		-z, -z, 0,
		0, 0, 0,
		z, z, 0,
	}, scaled)
	assert.Equal(t, []float64{2, 20, 7}, s.Mean)
	assert.Equal(t, 1.0, s.Scale[2], "constant column keeps unit scale")
	assert.Equal(t, []string{"a", "b", "const"}, scaled.ColumnNames())
	assert.Equal(t, 1.0, X.MustAt(0, 0), "input is not modified")

	back, err := s.InverseTransform(scaled)
	require.NoError(t, err)
	assertCells(t, X.Values(), back)
}

func TestStandardScalerWithoutMean(t *testing.T) {
	s := NewStandardScaler(false, false)
	scaled, err := s.FitTransform(features(t))
	require.NoError(t, err)
	assertCells(t, features(t).Values(), scaled)
	assert.Contains(t, s.String(), "n_features=3")
}

func TestMinMaxScaler(t *testing.T) {
	X := features(t)
	m, err := NewMinMaxScaler([2]float64{-1, 1})
	require.NoError(t, err)

	scaled, err := m.FitTransform(X)
	require.NoError(t, err)
	assertCells(t, []float64{
		-1, -1, -1,
		0, 0, -1,
		1, 1, -1,
	}, scaled)

	back, err := m.InverseTransform(scaled)
	require.NoError(t, err)
	assertCells(t, X.Values(), back)
}

func TestScalerErrors(t *testing.T) {
	_, err := NewMinMaxScaler([2]float64{1, 1})
	var verr *errors.ValidationError
	assert.True(t, errors.As(err, &verr))

	s := NewStandardScaler(true, true)
	_, err = s.Transform(features(t))
	var nerr *errors.NotFittedError
	assert.True(t, errors.As(err, &nerr))

	require.NoError(t, s.Fit(features(t)))
	narrow, err := table.FromRows([][]float64{{1}}, nil)
	require.NoError(t, err)
	_, err = s.Transform(narrow)
	var derr *errors.DimensionError
	assert.True(t, errors.As(err, &derr))

	err = s.Fit(table.New[float64](0, 2))
	var merr *errors.ModelError
	assert.True(t, errors.As(err, &merr))
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}
