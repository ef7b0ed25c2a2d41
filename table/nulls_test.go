package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullTable(t *testing.T) *Table[string] {
	t.Helper()
	tbl, err := FromRows([][]string{
		{"a", "1", "x"},
		{"b", "2", "y"},
		{"", "3", "z"},
		{"d", "4", "w"},
	}, []string{"name", "n", "tag"})
	require.NoError(t, err)
	return tbl
}

func TestCountNA(t *testing.T) {
	tbl := nullTable(t)
	assert.Equal(t, []int{1, 0, 0}, CountNA(tbl))
	assert.True(t, IsNA(""))
	assert.False(t, IsNA(" "))
}

func TestDropNA(t *testing.T) {
	tbl := nullTable(t)

	got := DropNA(tbl, false)
	assert.Equal(t, 3, got.Rows())
	assert.Equal(t, []string{"d", "4", "w"}, mustRow(t, got, 2))
	assert.Equal(t, 4, tbl.Rows(), "source untouched")

	same := DropNA(tbl, true)
	assert.Same(t, tbl, same)
	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, []int{0, 0, 0}, CountNA(tbl))
	assertShapeInvariant(t, tbl)
}

func TestReplaceNA(t *testing.T) {
	tbl := nullTable(t)

	copied := ReplaceNA(tbl, "NA", false)
	assert.Equal(t, "NA", copied.MustAt(2, 0))
	assert.Equal(t, "", tbl.MustAt(2, 0))

	ReplaceNA(tbl, "NA", true)
	assert.Equal(t, 4, tbl.Rows())
	assert.Equal(t, "NA", tbl.MustAt(2, 0))
	assert.Equal(t, []int{0, 0, 0}, CountNA(tbl))
}

func TestPrintNA(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintNA(nullTable(t), &buf))
	want := "column name : null count\n--------------------------\nname : 1\nn : 0\ntag : 0\n"
	assert.Equal(t, want, buf.String())
}
