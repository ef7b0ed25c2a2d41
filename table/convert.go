package table

import (
	"math"
	"slices"
	"strconv"

	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/pkg/log"
)

// kind は変換行列で使う要素型の分類です。
type kind int

const (
	kindUnknown kind = iota
	kindText
	kindInteger
	kindFloat
)

func (k kind) String() string {
	switch k {
	case kindText:
		return "text"
	case kindInteger:
		return "integer"
	case kindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// elemInfo describes an Element type once per call.
type elemInfo struct {
	kind     kind
	bits     int
	unsigned bool
	name     string
}

func infoOf[T Element]() elemInfo {
	var zero T
	switch any(zero).(type) {
	case string:
		return elemInfo{kind: kindText, name: "string"}
	case int:
		return elemInfo{kind: kindInteger, bits: strconv.IntSize, name: "int"}
	case int8:
		return elemInfo{kind: kindInteger, bits: 8, name: "int8"}
	case int16:
		return elemInfo{kind: kindInteger, bits: 16, name: "int16"}
	case int32:
		return elemInfo{kind: kindInteger, bits: 32, name: "int32"}
	case int64:
		return elemInfo{kind: kindInteger, bits: 64, name: "int64"}
	case uint:
		return elemInfo{kind: kindInteger, bits: strconv.IntSize, unsigned: true, name: "uint"}
	case uint8:
		return elemInfo{kind: kindInteger, bits: 8, unsigned: true, name: "uint8"}
	case uint16:
		return elemInfo{kind: kindInteger, bits: 16, unsigned: true, name: "uint16"}
	case uint32:
		return elemInfo{kind: kindInteger, bits: 32, unsigned: true, name: "uint32"}
	case uint64:
		return elemInfo{kind: kindInteger, bits: 64, unsigned: true, name: "uint64"}
	case float32:
		return elemInfo{kind: kindFloat, bits: 32, name: "float32"}
	case float64:
		return elemInfo{kind: kindFloat, bits: 64, name: "float64"}
	}
	return elemInfo{kind: kindUnknown, name: "unknown"}
}

// converter は (S, D) の組み合わせごとに一度だけ決定される変換計画です。
type converter[D, S Element] struct {
	op        string
	src       elemInfo
	dst       elemInfo
	fn        func(S) (D, error)
	truncated bool
}

// newConverter resolves the conversion plan for S -> D.
func newConverter[D, S Element](op string) (*converter[D, S], error) {
	c := &converter[D, S]{op: op, src: infoOf[S](), dst: infoOf[D]()}

	switch c.src.kind {
	case kindText:
		switch c.dst.kind {
		case kindText:
			c.fn = func(v S) (D, error) { return fromText[D](readText(v)), nil }
		case kindInteger:
			c.fn = c.parseInteger
		case kindFloat:
			c.fn = c.parseFloat
		}
	case kindInteger:
		switch c.dst.kind {
		case kindText:
			c.fn = c.formatInteger
		case kindInteger:
			c.fn = c.convertInteger
		case kindFloat:
			c.fn = func(v S) (D, error) { return fromFloat[D](integerAsFloat(v)), nil }
		}
	case kindFloat:
		switch c.dst.kind {
		case kindText:
			c.fn = func(v S) (D, error) {
				return fromText[D](strconv.FormatFloat(readFloat(v), 'f', -1, c.src.bits)), nil
			}
		case kindInteger:
			c.fn = c.truncateFloat
		case kindFloat:
			c.fn = func(v S) (D, error) { return fromFloat[D](readFloat(v)), nil }
		}
	}

	if c.fn == nil {
		return nil, errors.NewConversionError(c.src.name, c.dst.name, "", "no conversion defined between "+c.src.kind.String()+" and "+c.dst.kind.String())
	}
	return c, nil
}

// convert applies the plan to one cell. row and col locate the cell for parse errors.
func (c *converter[D, S]) convert(v S, row, col int) (D, error) {
	out, err := c.fn(v)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return out, errors.NewParseError(readText(v), c.dst.name, 0, row+1, col+1, numErr)
		}
		return out, err
	}
	return out, nil
}

// finish emits a single DataConversionWarning when any cell lost a fractional part.
func (c *converter[D, S]) finish() {
	if c.truncated {
		errors.Warn(errors.NewDataConversionWarning(c.src.name, c.dst.name,
			c.op+": fractional part truncated toward zero"))
	}
}

func (c *converter[D, S]) parseInteger(v S) (D, error) {
	s := readText(v)
	if c.dst.unsigned {
		u, err := strconv.ParseUint(s, 10, c.dst.bits)
		if err != nil {
			var zero D
			return zero, err
		}
		out, _ := fromUint[D](u)
		return out, nil
	}
	i, err := strconv.ParseInt(s, 10, c.dst.bits)
	if err != nil {
		var zero D
		return zero, err
	}
	out, _ := fromInt[D](i)
	return out, nil
}

func (c *converter[D, S]) parseFloat(v S) (D, error) {
	f, err := strconv.ParseFloat(readText(v), c.dst.bits)
	if err != nil {
		var zero D
		return zero, err
	}
	return fromFloat[D](f), nil
}

func (c *converter[D, S]) formatInteger(v S) (D, error) {
	if c.src.unsigned {
		return fromText[D](strconv.FormatUint(readUint(v), 10)), nil
	}
	return fromText[D](strconv.FormatInt(readInt(v), 10)), nil
}

func (c *converter[D, S]) convertInteger(v S) (D, error) {
	var (
		out D
		ok  bool
	)
	if c.src.unsigned {
		u := readUint(v)
		out, ok = fromUint[D](u)
		if !ok {
			return out, errors.NewConversionError(c.src.name, c.dst.name, strconv.FormatUint(u, 10), "value out of range")
		}
		return out, nil
	}
	i := readInt(v)
	out, ok = fromInt[D](i)
	if !ok {
		return out, errors.NewConversionError(c.src.name, c.dst.name, strconv.FormatInt(i, 10), "value out of range")
	}
	return out, nil
}

func (c *converter[D, S]) truncateFloat(v S) (D, error) {
	var zero D
	f := readFloat(v)
	text := strconv.FormatFloat(f, 'f', -1, c.src.bits)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return zero, errors.NewConversionError(c.src.name, c.dst.name, text, "value is not finite")
	}
	whole := math.Trunc(f)
	if whole != f {
		c.truncated = true
	}

	var (
		out D
		ok  bool
	)
	switch {
	case c.dst.unsigned && whole < 0:
		return zero, errors.NewConversionError(c.src.name, c.dst.name, text, "negative value for unsigned type")
	case c.dst.unsigned:
		if whole >= math.Exp2(64) {
			return zero, errors.NewConversionError(c.src.name, c.dst.name, text, "value out of range")
		}
		out, ok = fromUint[D](uint64(whole))
	default:
		if whole < -math.Exp2(63) || whole >= math.Exp2(63) {
			return zero, errors.NewConversionError(c.src.name, c.dst.name, text, "value out of range")
		}
		out, ok = fromInt[D](int64(whole))
	}
	if !ok {
		return zero, errors.NewConversionError(c.src.name, c.dst.name, text, "value out of range")
	}
	return out, nil
}

// Select returns the requested columns, in the requested order, converted to D.
// Column names are carried over when the source has them.
func Select[D, S Element](t *Table[S], indices []int) (*Table[D], error) {
	return project[D](t, "Select", indices)
}

// SelectNames is Select with columns resolved by name.
func SelectNames[D, S Element](t *Table[S], names []string) (*Table[D], error) {
	indices, err := t.ColumnIndices(names)
	if err != nil {
		return nil, err
	}
	return project[D](t, "Select", indices)
}

// Drop returns every column not listed in indices, in original order, converted to D.
func Drop[D, S Element](t *Table[S], indices []int) (*Table[D], error) {
	if err := checkColumns("Drop", indices, t.columns); err != nil {
		return nil, err
	}
	return project[D](t, "Drop", complement(indices, t.columns))
}

// DropNames is Drop with columns resolved by name.
func DropNames[D, S Element](t *Table[S], names []string) (*Table[D], error) {
	indices, err := t.ColumnIndices(names)
	if err != nil {
		return nil, err
	}
	return project[D](t, "Drop", complement(indices, t.columns))
}

// Cast converts every cell to D. Casting to the identical type is rejected since
// it is always a caller mistake.
func Cast[D, S Element](t *Table[S]) (*Table[D], error) {
	var zero S
	if _, same := any(zero).(D); same {
		return nil, errors.NewValueError("Cast", "identical type cast to "+infoOf[D]().name)
	}
	indices := make([]int, t.columns)
	for i := range indices {
		indices[i] = i
	}
	return project[D](t, "Cast", indices)
}

func project[D, S Element](t *Table[S], op string, indices []int) (*Table[D], error) {
	if err := checkColumns(op, indices, t.columns); err != nil {
		return nil, err
	}
	conv, err := newConverter[D, S](op)
	if err != nil {
		return nil, err
	}

	out := New[D](t.rows, len(indices))
	for r := 0; r < t.rows; r++ {
		for j, c := range indices {
			v, err := conv.convert(t.data[r*t.columns+c], r, c)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", op)
			}
			out.data[r*out.columns+j] = v
		}
	}
	conv.finish()

	log.GetLoggerWithName("table").Debug("columns projected",
		log.OperationKey, log.OperationProject,
		log.ElementTypeKey, conv.src.name,
		log.TargetTypeKey, conv.dst.name,
		log.ColumnsKey, len(indices),
	)

	if len(t.names) > 0 {
		names := make([]string, len(indices))
		for j, c := range indices {
			names[j] = t.names[c]
		}
		// Selecting a column twice yields duplicate names; keep the data, drop the names.
		if duplicateNames(names) == nil {
			out.names = names
			out.hasHeaders = t.hasHeaders
		}
	}
	return out, nil
}

func checkColumns(op string, indices []int, columns int) error {
	for _, c := range indices {
		if c < 0 || c >= columns {
			return errors.NewIndexError(op, c, columns, 1)
		}
	}
	return nil
}

// complement returns the ascending column positions in [0, columns) not in indices.
func complement(indices []int, columns int) []int {
	keep := make([]int, 0, columns)
	for c := 0; c < columns; c++ {
		if !slices.Contains(indices, c) {
			keep = append(keep, c)
		}
	}
	return keep
}

func readText[T Element](v T) string {
	if s, ok := any(v).(string); ok {
		return s
	}
	return ""
}

func readInt[T Element](v T) int64 {
	switch x := any(v).(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	}
	return 0
}

func readUint[T Element](v T) uint64 {
	switch x := any(v).(type) {
	case uint:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	}
	return 0
}

func readFloat[T Element](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

func integerAsFloat[T Element](v T) float64 {
	switch any(v).(type) {
	case uint, uint8, uint16, uint32, uint64:
		return float64(readUint(v))
	}
	return float64(readInt(v))
}

func fromText[D Element](s string) D {
	var out D
	if p, ok := any(&out).(*string); ok {
		*p = s
	}
	return out
}

func fromFloat[D Element](f float64) D {
	var out D
	switch p := any(&out).(type) {
	case *float32:
		*p = float32(f)
	case *float64:
		*p = f
	}
	return out
}

// fromInt stores i in an integer D, reporting false when it does not fit.
func fromInt[D Element](i int64) (D, bool) {
	var out D
	if i < 0 {
		switch p := any(&out).(type) {
		case *int:
			*p = int(i)
			return out, i >= math.MinInt
		case *int8:
			*p = int8(i)
			return out, i >= math.MinInt8
		case *int16:
			*p = int16(i)
			return out, i >= math.MinInt16
		case *int32:
			*p = int32(i)
			return out, i >= math.MinInt32
		case *int64:
			*p = i
			return out, true
		}
		return out, false
	}
	return fromUint[D](uint64(i))
}

// fromUint stores u in an integer D, reporting false when it does not fit.
func fromUint[D Element](u uint64) (D, bool) {
	var out D
	switch p := any(&out).(type) {
	case *int:
		*p = int(u)
		return out, u <= math.MaxInt
	case *int8:
		*p = int8(u)
		return out, u <= math.MaxInt8
	case *int16:
		*p = int16(u)
		return out, u <= math.MaxInt16
	case *int32:
		*p = int32(u)
		return out, u <= math.MaxInt32
	case *int64:
		*p = int64(u)
		return out, u <= math.MaxInt64
	case *uint:
		*p = uint(u)
		return out, u <= math.MaxUint
	case *uint8:
		*p = uint8(u)
		return out, u <= math.MaxUint8
	case *uint16:
		*p = uint16(u)
		return out, u <= math.MaxUint16
	case *uint32:
		*p = uint32(u)
		return out, u <= math.MaxUint32
	case *uint64:
		*p = u
		return out, true
	}
	return out, false
}
