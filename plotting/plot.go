// Package plotting renders numeric table columns as images with gonum/plot.
//
// The output format follows the file extension of the destination path
// (.png, .svg, .pdf, .eps, .jpg, .jpeg, .tif, .tiff).
package plotting

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/pkg/log"
	"github.com/YuminosukeSato/scitable/table"
)

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

var formats = map[string]struct{}{
	".png": {}, ".svg": {}, ".pdf": {}, ".eps": {},
	".jpg": {}, ".jpeg": {}, ".tif": {}, ".tiff": {},
}

// Histogram writes a histogram of one column to path. bins が 0 の場合は
// 行数の平方根を使う。NaN and infinite cells are skipped.
func Histogram[T table.Number](t *table.Table[T], column, bins int, path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	if bins < 0 {
		return errors.NewValidationError("bins", "must not be negative", bins)
	}
	values, err := finiteColumn(t, column)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return errors.NewValueError("Histogram", "column has no finite values")
	}

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return errors.Wrap(err, "Histogram")
	}

	p := plot.New()
	name := columnName(t, column)
	p.Title.Text = name
	p.X.Label.Text = name
	p.Y.Label.Text = "count"
	p.Add(h)
	return save(p, "Histogram", path)
}

// Scatter writes an x/y scatter plot of two columns to path. Rows where either
// cell is not finite are skipped.
func Scatter[T table.Number](t *table.Table[T], xCol, yCol int, path string) error {
	if err := checkPath(path); err != nil {
		return err
	}
	xs, err := table.ToVec(t, xCol)
	if err != nil {
		return err
	}
	ys, err := table.ToVec(t, yCol)
	if err != nil {
		return err
	}

	points := make(plotter.XYs, 0, xs.Len())
	for i := 0; i < xs.Len(); i++ {
		x, y := xs.AtVec(i), ys.AtVec(i)
		if !finite(x) || !finite(y) {
			continue
		}
		points = append(points, plotter.XY{X: x, Y: y})
	}
	if len(points) == 0 {
		return errors.NewValueError("Scatter", "no row has two finite values")
	}

	s, err := plotter.NewScatter(points)
	if err != nil {
		return errors.Wrap(err, "Scatter")
	}

	p := plot.New()
	p.X.Label.Text = columnName(t, xCol)
	p.Y.Label.Text = columnName(t, yCol)
	p.Title.Text = p.Y.Label.Text + " vs " + p.X.Label.Text
	p.Add(s, plotter.NewGrid())
	return save(p, "Scatter", path)
}

func checkPath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := formats[ext]; !ok {
		return errors.NewValidationError("path", "unsupported image format", path)
	}
	return nil
}

func save(p *plot.Plot, op, path string) error {
	if err := p.Save(width, height, path); err != nil {
		return errors.NewSourceError(path, err)
	}
	log.GetLoggerWithName("plotting").Debug("plot saved",
		log.OperationKey, op,
		log.PathKey, path,
	)
	return nil
}

func finiteColumn[T table.Number](t *table.Table[T], column int) ([]float64, error) {
	v, err := table.ToVec(t, column)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		if x := v.AtVec(i); finite(x) {
			out = append(out, x)
		}
	}
	return out, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func columnName[T table.Element](t *table.Table[T], column int) string {
	if names := t.ColumnNames(); len(names) > column {
		return names[column]
	}
	return "col" + strconv.Itoa(column)
}
