package table

import (
	"fmt"
	"io"
)

// 欠損値は空文字列のセルです。文字列テーブルでのみ意味を持ちます。

// IsNA reports whether s is a null cell.
func IsNA(s string) bool {
	return s == ""
}

// CountNA returns the number of null cells in each column.
func CountNA(t *Table[string]) []int {
	counts := make([]int, t.columns)
	for i, v := range t.data {
		if IsNA(v) {
			counts[i%t.columns]++
		}
	}
	return counts
}

// PrintNA writes a "column name : null count" report.
func PrintNA(t *Table[string], w io.Writer) error {
	if _, err := fmt.Fprint(w, "column name : null count\n--------------------------\n"); err != nil {
		return err
	}
	names := t.displayNames()
	for c, n := range CountNA(t) {
		if _, err := fmt.Fprintf(w, "%s : %d\n", names[c], n); err != nil {
			return err
		}
	}
	return nil
}

// DropNA removes every row that holds at least one null cell.
func DropNA(t *Table[string], inPlace bool) *Table[string] {
	dropped := 0
	for r := 0; r < t.rows; r++ {
		if rowHasNA(t, r) {
			dropped++
		}
	}

	keep := make([]int, 0, t.rows-dropped)
	for r := 0; r < t.rows; r++ {
		if !rowHasNA(t, r) {
			keep = append(keep, r)
		}
	}

	result := t.takeRows(keep)
	if inPlace {
		t.assign(result)
		return t
	}
	return result
}

// ReplaceNA overwrites every null cell with text.
func ReplaceNA(t *Table[string], text string, inPlace bool) *Table[string] {
	return t.Replace("", text, inPlace, 0)
}

func rowHasNA(t *Table[string], r int) bool {
	for _, v := range t.data[r*t.columns : (r+1)*t.columns] {
		if IsNA(v) {
			return true
		}
	}
	return false
}
