package metrics

import (
	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/table"
)

// RMSETable computes RMSE between the first columns of two tables, typically the
// held-out targets and a prediction table.
func RMSETable(actual, predicted *table.Table[float64]) (float64, error) {
	yTrue, err := table.ToVec(actual, 0)
	if err != nil {
		return 0, err
	}
	yPred, err := table.ToVec(predicted, 0)
	if err != nil {
		return 0, err
	}
	return RMSE(yTrue, yPred)
}

// F1Score computes tp/(tp + 0.5*(fp+fn)) for the positive label 1 between the
// first columns of two label tables.
//
// When neither table holds a positive label the score is undefined; 0 is
// returned and an UndefinedMetricWarning is emitted.
func F1Score(actual, predicted *table.Table[int]) (float64, error) {
	if actual.Rows() != predicted.Rows() {
		return 0, errors.NewDimensionError("F1Score", actual.Rows(), predicted.Rows(), 0)
	}
	if actual.Columns() == 0 || predicted.Columns() == 0 {
		return 0, errors.NewValueError("F1Score", "label tables must have a column")
	}

	var tp, fp, fn float64
	for i := 0; i < actual.Rows(); i++ {
		a, p := actual.MustAt(i, 0), predicted.MustAt(i, 0)
		switch {
		case a == 1 && p == 1:
			tp++
		case a != 1 && p == 1:
			fp++
		case a == 1 && p != 1:
			fn++
		}
	}

	denom := tp + 0.5*(fp+fn)
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("F1Score", "no positive labels in actual or predicted", 0))
		return 0, nil
	}
	return tp / denom, nil
}
