package table

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ptiger10/tablediff"

	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/pkg/log"
)

// csvConfig holds delimited-text options.
type csvConfig struct {
	separator rune
	headers   bool
}

// CSVOption configures Load, LoadReader and WriteCSV.
type CSVOption func(*csvConfig)

// WithSeparator sets the field separator. The default is ','.
func WithSeparator(sep rune) CSVOption {
	return func(c *csvConfig) {
		c.separator = sep
	}
}

// WithHeaders sets whether the first line holds column names. The default is true.
func WithHeaders(headers bool) CSVOption {
	return func(c *csvConfig) {
		c.headers = headers
	}
}

func newCSVConfig(opts []CSVOption) csvConfig {
	cfg := csvConfig{separator: ',', headers: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Load reads a delimited text file into a table of T.
//
// The file is read twice: a first pass counts rows and columns so storage is sized
// once, and a second pass tokenizes every line and converts each field to T.
func Load[T Element](path string, opts ...CSVOption) (*Table[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSourceError(path, err)
	}
	defer f.Close()

	t, err := LoadReader[T](f, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}

	cfg := newCSVConfig(opts)
	log.GetLoggerWithName("table").Debug("csv loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, path,
		log.SeparatorKey, string(cfg.separator),
		log.HeadersKey, cfg.headers,
		log.RowsKey, t.rows,
		log.ColumnsKey, t.columns,
		log.ElementTypeKey, infoOf[T]().name,
	)
	return t, nil
}

// LoadReader is Load over a seekable reader. The reader is rewound between passes.
func LoadReader[T Element](r io.ReadSeeker, opts ...CSVOption) (*Table[T], error) {
	cfg := newCSVConfig(opts)

	rows, columns, err := scanDimensions(r, cfg)
	if err != nil {
		return nil, err
	}

	t := &Table[T]{}
	t.Resize(rows, columns)

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "rewind csv source")
	}
	if err := t.populate(r, cfg); err != nil {
		return nil, err
	}
	return t, nil
}

// scanDimensions is the first pass: it validates field counts and sizes the table.
func scanDimensions(r io.Reader, cfg csvConfig) (rows, columns int, err error) {
	first := true
	err = eachLine(r, func(lineNo int, line string) error {
		n := len(SplitLine(line, cfg.separator))
		if first {
			first = false
			columns = n
			if !cfg.headers {
				rows++
			}
			return nil
		}
		if n != columns {
			return errors.Wrapf(errors.NewDimensionError("Load", columns, n, 1), "line %d", lineNo)
		}
		rows++
		return nil
	})
	return rows, columns, err
}

// populate is the second pass over a table already sized by scanDimensions.
func (t *Table[T]) populate(r io.Reader, cfg csvConfig) error {
	conv, err := newConverter[T, string]("Load")
	if err != nil {
		return err
	}

	first := true
	row := 0
	err = eachLine(r, func(lineNo int, line string) error {
		fields := SplitLine(line, cfg.separator)
		if first && cfg.headers {
			first = false
			if dup := duplicateNames(fields); len(dup) > 0 {
				return errors.NewDuplicateColumnError("Load", dup)
			}
			t.names = fields
			t.hasHeaders = true
			return nil
		}
		first = false
		if len(fields) != t.columns || row >= t.rows {
			// The source changed between passes.
			return errors.Wrapf(errors.NewDimensionError("Load", t.columns, len(fields), 1), "line %d", lineNo)
		}
		for c, field := range fields {
			v, err := conv.fn(field)
			if err != nil {
				return errors.NewParseError(field, conv.dst.name, lineNo, row+1, c+1, err)
			}
			t.data[row*t.columns+c] = v
		}
		row++
		return nil
	})
	if err != nil {
		return err
	}
	if row != t.rows {
		return errors.NewDimensionError("Load", t.rows, row, 0)
	}
	return nil
}

// eachLine calls fn for every line with its 1-based physical line number.
// A trailing carriage return is removed. Empty lines are passed through, only the
// empty remainder after a final newline is not a line.
func eachLine(r io.Reader, fn func(lineNo int, line string) error) error {
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if ferr := fn(lineNo, line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read csv line")
		}
	}
}

// SplitLine tokenizes one line. A double quote toggles quoted mode, in which the
// separator is literal. Quote characters are not part of the field value and there
// is no escape for embedded quotes. The trailing field is always emitted, so a
// line ending in a separator yields an empty last field.
func SplitLine(line string, sep rune) []string {
	var (
		fields  []string
		field   strings.Builder
		inQuote bool
	)
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuote = !inQuote
		case ch == sep && !inQuote:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteRune(ch)
		}
	}
	return append(fields, field.String())
}

// WriteCSV writes the table as delimited text. The header line is written when
// headers are enabled and the table has names. No separator follows the last
// field and no newline follows the last row.
func (t *Table[T]) WriteCSV(w io.Writer, opts ...CSVOption) error {
	cfg := newCSVConfig(opts)
	bw := bufio.NewWriter(w)

	lines := t.records(cfg.headers)
	for i, record := range lines {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return errors.Wrap(err, "write csv")
			}
		}
		for j, field := range record {
			if j > 0 {
				if _, err := bw.WriteRune(cfg.separator); err != nil {
					return errors.Wrap(err, "write csv")
				}
			}
			if _, err := bw.WriteString(quoteField(field, cfg.separator)); err != nil {
				return errors.Wrap(err, "write csv")
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "write csv")
	}
	return nil
}

// ToCSV writes the table to path, replacing any existing file.
func (t *Table[T]) ToCSV(path string, opts ...CSVOption) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewSourceError(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.NewSourceError(path, cerr)
		}
	}()

	if err := t.WriteCSV(f, opts...); err != nil {
		return err
	}
	log.GetLoggerWithName("table").Debug("csv exported",
		log.OperationKey, log.OperationExport,
		log.PathKey, path,
		log.RowsKey, t.rows,
		log.ColumnsKey, t.columns,
	)
	return nil
}

// Records returns the table as text records, headers first when requested and present.
func (t *Table[T]) Records(headers bool) [][]string {
	return t.records(headers)
}

// EqualsRecords compares the table's text form against want. The returned
// differences are nil when the tables match.
func (t *Table[T]) EqualsRecords(want [][]string, headers bool) (bool, *tablediff.Differences) {
	diffs, eq := tablediff.Diff(t.records(headers), want)
	return eq, diffs
}

func (t *Table[T]) records(headers bool) [][]string {
	out := make([][]string, 0, t.rows+1)
	if headers && len(t.names) > 0 {
		out = append(out, append([]string(nil), t.names...))
	}
	format := formatter[T]()
	for r := 0; r < t.rows; r++ {
		record := make([]string, t.columns)
		for c := range record {
			record[c] = format(t.data[r*t.columns+c])
		}
		out = append(out, record)
	}
	return out
}

// formatter returns the canonical text form used by export and printing.
func formatter[T Element]() func(T) string {
	info := infoOf[T]()
	switch {
	case info.kind == kindText:
		return readText[T]
	case info.kind == kindFloat:
		return func(v T) string { return strconv.FormatFloat(readFloat(v), 'f', -1, info.bits) }
	case info.unsigned:
		return func(v T) string { return strconv.FormatUint(readUint(v), 10) }
	default:
		return func(v T) string { return strconv.FormatInt(readInt(v), 10) }
	}
}

// quoteField wraps a field in quotes when it contains the separator.
func quoteField(field string, sep rune) string {
	if strings.ContainsRune(field, sep) {
		return `"` + field + `"`
	}
	return field
}
