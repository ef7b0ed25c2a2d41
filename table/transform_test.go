package table

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/d4l3k/messagediff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/scitable/pkg/errors"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func rangeTable(t *testing.T, rows int) *Table[int] {
	t.Helper()
	data := make([]int, rows*2)
	for r := 0; r < rows; r++ {
		data[r*2] = r
		data[r*2+1] = r * 10
	}
	tbl, err := FromSlice(data, rows, 2, []string{"id", "value"})
	require.NoError(t, err)
	return tbl
}

func TestFilter(t *testing.T) {
	tbl := sampleTable(t)

	got, err := tbl.Filter(func(row []float64) bool { return row[0] > 3 }, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6, 7, 8, 9, 10, 11, 12}, got.Values())
	assert.Equal(t, []string{"a", "b", "c"}, got.ColumnNames())
	assert.Equal(t, 4, tbl.Rows(), "source untouched")

	none, err := tbl.Filter(func([]float64) bool { return false }, false)
	require.NoError(t, err)
	assert.Equal(t, 0, none.Rows())
	assert.Equal(t, 3, none.Columns())
	assertShapeInvariant(t, none)

	inPlace, err := tbl.Filter(func(row []float64) bool { return row[2] == 12 }, true)
	require.NoError(t, err)
	assert.Same(t, tbl, inPlace)
	assert.Equal(t, 1, tbl.Rows())
}

func TestFilterRowIsCopy(t *testing.T) {
	tbl := sampleTable(t)
	_, err := tbl.Filter(func(row []float64) bool {
		row[0] = -1
		return true
	}, false)
	require.NoError(t, err)
	assert.Equal(t, 1.0, tbl.MustAt(0, 0))
}

func TestFilterRecoversPanic(t *testing.T) {
	tbl := sampleTable(t)
	before := tbl.Clone()

	out, err := tbl.Filter(func(row []float64) bool {
		if row[0] == 7 {
			panic("bad row")
		}
		return true
	}, true)
	require.Error(t, err)
	assert.Nil(t, out)

	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "Table.Filter", panicErr.Operation)
	assert.True(t, tbl.Equal(before), "receiver must be untouched")
}

func TestSample(t *testing.T) {
	tbl := rangeTable(t, 20)

	t.Run("without replacement draws distinct rows", func(t *testing.T) {
		for n := 1; n <= 20; n++ {
			got, err := tbl.Sample(seeded(uint64(n)), n, false)
			require.NoError(t, err)
			ids, err := got.Column(0)
			require.NoError(t, err)
			assert.Len(t, ids, n)
			slices.Sort(ids)
			assert.Len(t, slices.Compact(ids), n, "indices must be distinct")
			assert.Equal(t, []string{"id", "value"}, got.ColumnNames())
		}
	})

	t.Run("rows stay intact", func(t *testing.T) {
		got, err := tbl.Sample(seeded(7), 5, false)
		require.NoError(t, err)
		for r := 0; r < got.Rows(); r++ {
			row := mustRow(t, got, r)
			assert.Equal(t, row[0]*10, row[1])
		}
	})

	t.Run("with replacement may exceed row count", func(t *testing.T) {
		got, err := tbl.Sample(seeded(3), 50, true)
		require.NoError(t, err)
		assert.Equal(t, 50, got.Rows())
	})

	t.Run("deterministic for a seed", func(t *testing.T) {
		a, err := tbl.Sample(seeded(42), 6, false)
		require.NoError(t, err)
		b, err := tbl.Sample(seeded(42), 6, false)
		require.NoError(t, err)
		assert.True(t, a.Equal(b))
	})

	t.Run("nil generator", func(t *testing.T) {
		got, err := tbl.Sample(nil, 3, false)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Rows())
	})

	t.Run("invalid sizes", func(t *testing.T) {
		var valErr *errors.ValidationError
		_, err := tbl.Sample(seeded(1), 0, true)
		assert.True(t, errors.As(err, &valErr))
		_, err = tbl.Sample(seeded(1), 21, false)
		assert.True(t, errors.As(err, &valErr))
		_, err = New[int](0, 2).Sample(seeded(1), 1, true)
		assert.True(t, errors.As(err, &valErr))
	})
}

func TestSplitData(t *testing.T) {
	tests := []struct {
		rows  int
		ratio float64
	}{
		{10, 0.3},
		{10, 0.25},
		{7, 0.5},
		{3, 0.1},
		{100, 0.99},
	}
	for _, tt := range tests {
		tbl := rangeTable(t, tt.rows)
		train, test, err := tbl.SplitData(seeded(11), tt.ratio)
		require.NoError(t, err)

		wantTest := int(tt.ratio * float64(tt.rows))
		assert.Equal(t, wantTest, test.Rows())
		assert.Equal(t, tt.rows, train.Rows()+test.Rows())
		assert.Equal(t, tbl.ColumnNames(), train.ColumnNames())
		assert.Equal(t, tbl.ColumnNames(), test.ColumnNames())

		trainIDs, _ := train.Column(0)
		testIDs, _ := test.Column(0)
		assert.True(t, slices.IsSorted(trainIDs), "train keeps ascending order")

		all := append(slices.Clone(trainIDs), testIDs...)
		slices.Sort(all)
		want := make([]int, tt.rows)
		for i := range want {
			want[i] = i
		}
		if diff, equal := messagediff.PrettyDiff(want, all); !equal {
			t.Errorf("split is not a disjoint cover:\n%s", diff)
		}
	}
}

func TestSplitDataInvalidRatio(t *testing.T) {
	tbl := rangeTable(t, 4)
	for _, ratio := range []float64{0, 1, -0.5, 1.5} {
		_, _, err := tbl.SplitData(seeded(1), ratio)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr), "ratio %v", ratio)
	}
}

func TestAppendColumns(t *testing.T) {
	left, err := FromRows([][]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}}, []string{"a", "b"})
	require.NoError(t, err)
	right, err := FromRows([][]int{{9, 10}, {11, 12}, {13, 14}, {15, 16}}, []string{"c", "d"})
	require.NoError(t, err)

	got, err := left.Append(right, AxisColumns, false)
	require.NoError(t, err)
	rows, columns := got.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 4, columns)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got.ColumnNames())
	assert.Equal(t, []int{1, 2, 9, 10}, mustRow(t, got, 0))
	assert.Equal(t, 2, left.Columns(), "source untouched")
	assertShapeInvariant(t, got)
}

func TestAppendRows(t *testing.T) {
	top := sampleIntTable(t)
	bottom, err := FromRows([][]int{{5, 6}}, []string{"p", "q"})
	require.NoError(t, err)

	got, err := top.Append(bottom, AxisRows, true)
	require.NoError(t, err)
	assert.Same(t, top, got)
	assert.Equal(t, 3, top.Rows())
	assert.Equal(t, []string{"x", "y"}, top.ColumnNames(), "left names kept")
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, top.Values())
}

func TestAppendErrors(t *testing.T) {
	base := sampleIntTable(t)

	t.Run("rows with different column counts", func(t *testing.T) {
		other := New[int](1, 3)
		_, err := base.Append(other, AxisRows, true)
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 2, base.Rows(), "no mutation on failure")
	})

	t.Run("columns with different row counts", func(t *testing.T) {
		_, err := base.Append(New[int](3, 1), AxisColumns, false)
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})

	t.Run("overlapping names", func(t *testing.T) {
		other, err := FromRows([][]int{{0, 0}, {0, 0}}, []string{"y", "z"})
		require.NoError(t, err)
		_, err = base.Append(other, AxisColumns, true)
		var dupErr *errors.DuplicateColumnError
		require.True(t, errors.As(err, &dupErr))
		assert.Equal(t, []string{"y"}, dupErr.Names)
		assert.Equal(t, 2, base.Columns())
	})

	t.Run("invalid axis", func(t *testing.T) {
		_, err := base.Append(base, Axis('x'), false)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr))
	})
}

func TestAppendColumnsWithoutNames(t *testing.T) {
	left := New[int](2, 1)
	right := FromColumn([]int{1, 2}, "y")
	got, err := left.Append(right, AxisColumns, false)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Columns())
	assert.Empty(t, got.ColumnNames())
}

func TestTranspose(t *testing.T) {
	t.Run("full table", func(t *testing.T) {
		tbl, err := FromRows([][]int{{1, 2, 3}, {4, 5, 6}}, []string{"a", "b", "c"})
		require.NoError(t, err)
		got := tbl.Transpose()
		rows, columns := got.Shape()
		assert.Equal(t, 3, rows)
		assert.Equal(t, 2, columns)
		assert.Equal(t, []int{1, 4, 2, 5, 3, 6}, got.Values())
		assert.Equal(t, []string{"col0", "col1"}, got.ColumnNames())
		assert.True(t, tbl.Equal(got.Transpose().withNames(t, "a", "b", "c")))
	})

	t.Run("column vector", func(t *testing.T) {
		got := FromColumn([]int{1, 2, 3}, "y").Transpose()
		rows, columns := got.Shape()
		assert.Equal(t, 1, rows)
		assert.Equal(t, 3, columns)
		assert.Equal(t, []string{"col0", "col1", "col2"}, got.ColumnNames())
	})

	t.Run("row vector", func(t *testing.T) {
		tbl, err := FromRows([][]int{{1, 2, 3}}, []string{"a", "b", "c"})
		require.NoError(t, err)
		got := tbl.Transpose()
		rows, columns := got.Shape()
		assert.Equal(t, 3, rows)
		assert.Equal(t, 1, columns)
		assert.Equal(t, []string{"col0"}, got.ColumnNames())
		assert.Equal(t, []int{1, 2, 3}, got.Values())
	})

	t.Run("empty", func(t *testing.T) {
		got := New[int](0, 3).Transpose()
		rows, columns := got.Shape()
		assert.Equal(t, 3, rows)
		assert.Equal(t, 0, columns)
		assertShapeInvariant(t, got)
	})
}

func (t *Table[T]) withNames(tb testing.TB, names ...string) *Table[T] {
	tb.Helper()
	if err := t.SetColumnNames(names); err != nil {
		tb.Fatal(err)
	}
	return t
}

func TestRename(t *testing.T) {
	tbl := sampleTable(t)

	require.NoError(t, tbl.Rename(map[string]string{"a": "alpha", "missing": "ignored"}))
	assert.Equal(t, []string{"alpha", "b", "c"}, tbl.ColumnNames())

	require.NoError(t, tbl.Rename(map[string]string{"b": "c", "c": "b"}), "swap is allowed")
	assert.Equal(t, []string{"alpha", "c", "b"}, tbl.ColumnNames())

	err := tbl.Rename(map[string]string{"alpha": "b"})
	var dupErr *errors.DuplicateColumnError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, []string{"alpha", "c", "b"}, tbl.ColumnNames(), "names untouched on failure")
}

func TestReplace(t *testing.T) {
	tbl, err := FromRows([][]int{{1, 0, 0}, {0, 2, 0}}, nil)
	require.NoError(t, err)

	limited := tbl.Replace(0, 9, false, 2)
	assert.Equal(t, []int{1, 9, 9, 0, 2, 0}, limited.Values())
	assert.Equal(t, []int{1, 0, 0, 0, 2, 0}, tbl.Values(), "source untouched")

	all := tbl.Replace(0, 9, true, 0)
	assert.Same(t, tbl, all)
	assert.Equal(t, []int{1, 9, 9, 9, 2, 9}, tbl.Values())
}
