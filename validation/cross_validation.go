// Package validation estimates model quality by repeatedly splitting a table
// into random train and test partitions.
package validation

import (
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/YuminosukeSato/scitable/core/model"
	"github.com/YuminosukeSato/scitable/metrics"
	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/pkg/log"
	"github.com/YuminosukeSato/scitable/stats"
	"github.com/YuminosukeSato/scitable/table"
)

// Score は交差検証の結果
type Score struct {
	Folds  []float64 // 各フォールドのスコア
	Mean   float64
	StdDev float64 // 標本標準偏差
}

// foldFunc fits a fresh model on one partition and scores it on the other.
type foldFunc[L table.Element] func(trainX *table.Table[float64], trainY *table.Table[L], testX *table.Table[float64], testY *table.Table[L]) (float64, error)

// MonteCarloCV fits a new classifier on k random train/test splits and reports
// the F1 score of each fold.
func MonteCarloCV(newModel func() model.Classifier, X *table.Table[float64], y *table.Table[int], k int, testRatio float64, rng *rand.Rand) (Score, error) {
	return crossValidate("MonteCarloCV", X, y, k, testRatio, rng,
		func(trainX *table.Table[float64], trainY *table.Table[int], testX *table.Table[float64], testY *table.Table[int]) (float64, error) {
			clf := newModel()
			if err := clf.Fit(trainX, trainY); err != nil {
				return 0, err
			}
			pred, err := clf.Predict(testX)
			if err != nil {
				return 0, err
			}
			return metrics.F1Score(testY, pred)
		})
}

// RepeatedSplitCV fits a new regressor on k random train/test splits and reports
// the RMSE of each fold.
func RepeatedSplitCV(newModel func() model.Regressor, X, y *table.Table[float64], k int, testRatio float64, rng *rand.Rand) (Score, error) {
	return crossValidate("RepeatedSplitCV", X, y, k, testRatio, rng,
		func(trainX, trainY, testX, testY *table.Table[float64]) (float64, error) {
			reg := newModel()
			if err := reg.Fit(trainX, trainY); err != nil {
				return 0, err
			}
			pred, err := reg.Predict(testX)
			if err != nil {
				return 0, err
			}
			return metrics.RMSETable(testY, pred)
		})
}

// crossValidate appends y to X as the last column, then for every fold splits the
// combined table and separates features from labels again.
func crossValidate[L table.Element](op string, X *table.Table[float64], y *table.Table[L], k int, testRatio float64, rng *rand.Rand, fold foldFunc[L]) (Score, error) {
	if k < 2 {
		return Score{}, errors.NewValidationError("k", "must be at least two", k)
	}
	if err := model.CheckFitInput(op, X, y); err != nil {
		return Score{}, err
	}
	if !(testRatio > 0 && testRatio < 1) {
		return Score{}, errors.NewValidationError("test_ratio", "must be strictly between 0 and 1", testRatio)
	}
	if int(math.Floor(testRatio*float64(X.Rows()))) < 1 {
		return Score{}, errors.NewValidationError("test_ratio", "leaves an empty test partition for "+strconv.Itoa(X.Rows())+" rows", testRatio)
	}

	target, err := table.Select[float64](y, []int{0})
	if err != nil {
		return Score{}, err
	}
	if names := X.ColumnNames(); len(names) > 0 {
		if err := target.SetColumnNames([]string{targetName(names)}); err != nil {
			return Score{}, err
		}
	}
	full, err := X.Append(target, table.AxisColumns, false)
	if err != nil {
		return Score{}, err
	}
	last := []int{full.Columns() - 1}

	logger := log.GetLoggerWithName("validation").With(log.OperationKey, op)
	scores := make([]float64, k)
	for i := range scores {
		train, test, err := full.SplitData(rng, testRatio)
		if err != nil {
			return Score{}, err
		}
		trainX, trainY, err := separate[L](train, last)
		if err != nil {
			return Score{}, err
		}
		testX, testY, err := separate[L](test, last)
		if err != nil {
			return Score{}, err
		}

		err = errors.SafeExecute(op, func() error {
			var ferr error
			scores[i], ferr = fold(trainX, trainY, testX, testY)
			return ferr
		})
		if err != nil {
			return Score{}, errors.Wrapf(err, "fold %d", i)
		}
		logger.Debug("fold scored", log.FoldKey, i, log.ScoreKey, scores[i])
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return Score{}, err
	}
	stdev, err := stats.StdDev(scores)
	if err != nil {
		return Score{}, err
	}
	logger.Info("cross validation finished", log.ScoreKey, mean)
	return Score{Folds: scores, Mean: mean, StdDev: stdev}, nil
}

func separate[L table.Element](part *table.Table[float64], last []int) (*table.Table[float64], *table.Table[L], error) {
	x, err := table.Drop[float64](part, last)
	if err != nil {
		return nil, nil, err
	}
	y, err := table.Select[L](part, last)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// targetName returns a label column name that does not clash with names.
func targetName(names []string) string {
	name := "target"
	for slices.Contains(names, name) {
		name += "_"
	}
	return name
}
