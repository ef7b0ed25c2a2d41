package table

import (
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/pkg/log"
)

// Axis selects the direction of Append.
type Axis rune

const (
	// AxisRows stacks the other table below the receiver.
	AxisRows Axis = 'r'
	// AxisColumns places the other table to the right of the receiver.
	AxisColumns Axis = 'c'
)

// Filter keeps the rows for which pred returns true, in their original order.
// The predicate receives a copy of each row. A panicking predicate is returned as
// a *errors.PanicError and leaves the receiver untouched.
func (t *Table[T]) Filter(pred func(row []T) bool, inPlace bool) (out *Table[T], err error) {
	defer errors.Recover(&err, "Table.Filter")

	if pred == nil {
		return nil, errors.NewValidationError("pred", "predicate must not be nil", nil)
	}

	keep := make([]int, 0, t.rows)
	row := make([]T, t.columns)
	for r := 0; r < t.rows; r++ {
		copy(row, t.data[r*t.columns:(r+1)*t.columns])
		if pred(row) {
			keep = append(keep, r)
		}
	}

	result := t.takeRows(keep)
	if inPlace {
		t.assign(result)
		return t, nil
	}
	return result, nil
}

// Sample draws n rows uniformly at random. Without replacement the rows come from
// n distinct indices, so n may not exceed Rows. A nil rng uses a generator seeded
// from the wall clock.
func (t *Table[T]) Sample(rng *rand.Rand, n int, replace bool) (*Table[T], error) {
	if n < 1 {
		return nil, errors.NewValidationError("n", "sample size must be at least 1", n)
	}
	if !replace && n > t.rows {
		return nil, errors.NewValidationError("n", "sample size exceeds row count ("+strconv.Itoa(t.rows)+") without replacement", n)
	}
	if t.rows == 0 {
		return nil, errors.NewValidationError("n", "cannot sample from an empty table", n)
	}
	rng = source(rng)

	indices := make([]int, 0, n)
	if replace {
		for len(indices) < n {
			indices = append(indices, rng.IntN(t.rows))
		}
	} else {
		indices = drawUnique(rng, t.rows, n)
	}

	log.GetLoggerWithName("table").Debug("rows sampled",
		log.OperationKey, log.OperationSample,
		log.SampleSizeKey, n,
		log.ReplaceKey, replace,
		log.RowsKey, t.rows,
	)
	return t.takeRows(indices), nil
}

// SplitData partitions the rows into a train and a test table. The test table
// receives floor(testRatio*Rows) distinct random rows in draw order and the train
// table receives every other row in ascending order. testRatio must lie in (0, 1).
func (t *Table[T]) SplitData(rng *rand.Rand, testRatio float64) (train, test *Table[T], err error) {
	if !(testRatio > 0 && testRatio < 1) {
		return nil, nil, errors.NewValidationError("test_ratio", "must be strictly between 0 and 1", testRatio)
	}
	rng = source(rng)

	testSize := int(math.Floor(testRatio * float64(t.rows)))
	testIdx := drawUnique(rng, t.rows, testSize)

	inTest := make([]bool, t.rows)
	for _, r := range testIdx {
		inTest[r] = true
	}
	trainIdx := make([]int, 0, t.rows-testSize)
	for r := 0; r < t.rows; r++ {
		if !inTest[r] {
			trainIdx = append(trainIdx, r)
		}
	}

	log.GetLoggerWithName("table").Debug("rows split",
		log.OperationKey, log.OperationSplit,
		log.TestRatioKey, testRatio,
		log.RowsKey, t.rows,
	)
	return t.takeRows(trainIdx), t.takeRows(testIdx), nil
}

// drawUnique rejection-samples n distinct indices in [0, limit).
func drawUnique(rng *rand.Rand, limit, n int) []int {
	seen := make(map[int]struct{}, n)
	indices := make([]int, 0, n)
	for len(indices) < n {
		r := rng.IntN(limit)
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		indices = append(indices, r)
	}
	return indices
}

func source(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed))
}

// Append concatenates other along axis.
//
// AxisRows requires equal column counts and keeps the receiver's names.
// AxisColumns requires equal row counts and disjoint column names; the result's
// names are the receiver's followed by other's, or none when either side has none.
// All checks run before the receiver is modified.
func (t *Table[T]) Append(other *Table[T], axis Axis, inPlace bool) (*Table[T], error) {
	if other == nil {
		return nil, errors.NewValidationError("other", "must not be nil", nil)
	}

	var result *Table[T]
	switch axis {
	case AxisRows:
		if t.columns != other.columns {
			return nil, errors.NewDimensionError("Table.Append", t.columns, other.columns, 1)
		}
		result = t.emptyLike(t.rows+other.rows, t.columns)
		copy(result.data, t.data)
		copy(result.data[len(t.data):], other.data)

	case AxisColumns:
		if t.rows != other.rows {
			return nil, errors.NewDimensionError("Table.Append", t.rows, other.rows, 0)
		}
		if shared := intersect(t.names, other.names); len(shared) > 0 {
			return nil, errors.NewDuplicateColumnError("Table.Append", shared)
		}
		columns := t.columns + other.columns
		result = New[T](t.rows, columns)
		for r := 0; r < t.rows; r++ {
			copy(result.data[r*columns:], t.data[r*t.columns:(r+1)*t.columns])
			copy(result.data[r*columns+t.columns:], other.data[r*other.columns:(r+1)*other.columns])
		}
		if len(t.names) > 0 && len(other.names) > 0 {
			result.names = append(slices.Clone(t.names), other.names...)
			result.hasHeaders = true
		}

	default:
		return nil, errors.NewValidationError("axis", "invalid axis, want 'r' or 'c'", string(axis))
	}

	log.GetLoggerWithName("table").Debug("tables appended",
		log.OperationKey, log.OperationAppend,
		log.RowsKey, result.rows,
		log.ColumnsKey, result.columns,
	)

	if inPlace {
		t.assign(result)
		return t, nil
	}
	return result, nil
}

// intersect returns the sorted names present in both slices.
func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	left := slices.Clone(a)
	right := slices.Clone(b)
	slices.Sort(left)
	slices.Sort(right)

	var shared []string
	for i, j := 0, 0; i < len(left) && j < len(right); {
		switch {
		case left[i] < right[j]:
			i++
		case left[i] > right[j]:
			j++
		default:
			shared = append(shared, left[i])
			i++
			j++
		}
	}
	return shared
}

// Transpose returns a table where cell (i, j) becomes (j, i).
//
// Original column names cannot survive the swap, so the result is named
// positionally col0..col{Rows-1}. A single-row table becomes a column vector
// named col0.
func (t *Table[T]) Transpose() *Table[T] {
	out := New[T](t.columns, t.rows)
	for i := 0; i < t.rows; i++ {
		for j := 0; j < t.columns; j++ {
			out.data[j*t.rows+i] = t.data[i*t.columns+j]
		}
	}
	if out.columns > 0 && out.rows > 0 {
		names := make([]string, out.columns)
		for c := range names {
			names[c] = "col" + strconv.Itoa(c)
		}
		out.names = names
		out.hasHeaders = true
	}
	return out
}

// Rename replaces column names using mapping from old to new name. Names absent
// from the table are ignored. The renamed set must stay unique, otherwise the
// names are left unchanged.
func (t *Table[T]) Rename(mapping map[string]string) error {
	if len(t.names) == 0 || len(mapping) == 0 {
		return nil
	}
	renamed := slices.Clone(t.names)
	for i, name := range t.names {
		if next, ok := mapping[name]; ok {
			renamed[i] = next
		}
	}
	if dup := duplicateNames(renamed); len(dup) > 0 {
		return errors.NewDuplicateColumnError("Table.Rename", dup)
	}
	t.names = renamed
	return nil
}

// Replace overwrites cells equal to old with new, scanning in row-major order.
// maxOccurrences limits the number of replacements; zero or less means all.
func (t *Table[T]) Replace(old, new T, inPlace bool, maxOccurrences int) *Table[T] {
	target := t
	if !inPlace {
		target = t.Clone()
	}
	replaced := 0
	for i, v := range target.data {
		if maxOccurrences > 0 && replaced >= maxOccurrences {
			break
		}
		if v == old {
			target.data[i] = new
			replaced++
		}
	}
	return target
}
