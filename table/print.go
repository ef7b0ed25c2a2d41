package table

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"

	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/stats"
)

// cellWidth is the widest cell printed by Head and Describe.
const cellWidth = 15

// Head renders the first n rows (all rows when n exceeds Rows) as a text table.
// Cells wider than 15 characters are clipped with "...".
func (t *Table[T]) Head(w io.Writer, n int) error {
	if n < 0 {
		return errors.NewValidationError("n", "must be non-negative", n)
	}
	n = min(n, t.rows)

	tw := newWriter(w)
	if len(t.names) > 0 {
		tw.SetHeader(clipAll(t.names))
	}
	format := formatter[T]()
	for r := 0; r < n; r++ {
		record := make([]string, t.columns)
		for c := range record {
			record[c] = clip(format(t.data[r*t.columns+c]))
		}
		tw.Append(record)
	}
	tw.Render()
	return nil
}

// ColumnSummary is the descriptive statistics of one column.
type ColumnSummary struct {
	Name string
	stats.Summary
}

// Summarize computes descriptive statistics for every column.
func Summarize[T Number](t *Table[T]) ([]ColumnSummary, error) {
	if t.rows == 0 {
		return nil, errors.NewModelError("Summarize", "empty table", errors.ErrEmptyData)
	}
	names := t.displayNames()
	out := make([]ColumnSummary, t.columns)
	for c := 0; c < t.columns; c++ {
		s, err := stats.Summarize(columnFloats(t, c))
		if err != nil {
			return nil, errors.Wrapf(err, "summarize column %s", names[c])
		}
		out[c] = ColumnSummary{Name: names[c], Summary: s}
	}
	return out, nil
}

// Describe writes a fixed-width summary with one line per statistic and one
// column per table column.
func Describe[T Number](t *Table[T], w io.Writer) error {
	summaries, err := Summarize(t)
	if err != nil {
		return err
	}

	lines := []struct {
		label string
		value func(stats.Summary) float64
	}{
		{"Sum", func(s stats.Summary) float64 { return s.Sum }},
		{"Min", func(s stats.Summary) float64 { return s.Min }},
		{"Max", func(s stats.Summary) float64 { return s.Max }},
		{"Mean", func(s stats.Summary) float64 { return s.Mean }},
		{"StDev", func(s stats.Summary) float64 { return s.StdDev }},
		{"10th %", func(s stats.Summary) float64 { return s.P10 }},
		{"25th %", func(s stats.Summary) float64 { return s.P25 }},
		{"Median", func(s stats.Summary) float64 { return s.Median }},
		{"75th %", func(s stats.Summary) float64 { return s.P75 }},
		{"90th %", func(s stats.Summary) float64 { return s.P90 }},
	}

	tw := newWriter(w)
	tw.SetHeader(append([]string{""}, clipAll(t.displayNames())...))
	for _, line := range lines {
		record := make([]string, 0, len(summaries)+1)
		record = append(record, line.label)
		for _, s := range summaries {
			record = append(record, clip(strconv.FormatFloat(line.value(s.Summary), 'f', 6, 64)))
		}
		tw.Append(record)
	}
	tw.Render()
	return nil
}

// displayNames returns the column names, or positional placeholders when absent.
func (t *Table[T]) displayNames() []string {
	if len(t.names) == t.columns {
		return t.names
	}
	names := make([]string, t.columns)
	for c := range names {
		names[c] = "col" + strconv.Itoa(c)
	}
	return names
}

func columnFloats[T Number](t *Table[T], c int) []float64 {
	out := make([]float64, t.rows)
	for r := range out {
		out[r] = float64(t.data[r*t.columns+c])
	}
	return out
}

func newWriter(w io.Writer) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	return tw
}

func clip(s string) string {
	if utf8.RuneCountInString(s) <= cellWidth {
		return s
	}
	runes := []rune(s)
	return string(runes[:cellWidth-3]) + "..."
}

func clipAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = clip(v)
	}
	return out
}
