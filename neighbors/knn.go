// Package neighbors provides a k-nearest-neighbours classifier over tables.
package neighbors

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/scitable/core/model"
	"github.com/YuminosukeSato/scitable/core/parallel"
	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/pkg/log"
	"github.com/YuminosukeSato/scitable/table"
)

// parallelThreshold 並列処理の閾値（予測する行数）
const parallelThreshold = 256

// KNN はユークリッド距離による多数決の k 近傍分類器
type KNN struct {
	model.BaseEstimator

	k      int
	points [][]float64
	labels []int
}

var _ model.Classifier = (*KNN)(nil)

// NewKNN は新しい KNN を作成する。k は正の整数でなければならない
func NewKNN(k int) (*KNN, error) {
	if k < 1 {
		return nil, errors.NewValidationError("k", "must be a positive integer", k)
	}
	return &KNN{k: k}, nil
}

// K returns the number of neighbours consulted per prediction.
func (m *KNN) K() int { return m.k }

// Fit はモデルを訓練データで学習させる（訓練データを保持する）
func (m *KNN) Fit(X *table.Table[float64], y *table.Table[int]) error {
	if err := model.CheckFitInput("KNN.Fit", X, y); err != nil {
		return err
	}
	if X.Rows() < m.k {
		return errors.NewValidationError("k", "exceeds the number of training rows", m.k)
	}

	points := make([][]float64, X.Rows())
	for i := range points {
		row, err := X.Row(i)
		if err != nil {
			return err
		}
		points[i] = row
	}
	labels, err := y.Column(0)
	if err != nil {
		return err
	}

	m.points = points
	m.labels = labels
	m.SetFitted(X.Columns())

	log.GetLoggerWithName("neighbors").Debug("model fitted",
		log.OperationKey, log.OperationFit,
		log.ModelNameKey, "KNN",
		log.RowsKey, X.Rows(),
		log.ColumnsKey, X.Columns(),
	)
	return nil
}

// Predict は各行について k 近傍の多数決ラベルを返す。同票の場合は小さいラベルを選ぶ
func (m *KNN) Predict(X *table.Table[float64]) (*table.Table[int], error) {
	if X == nil {
		return nil, errors.NewValidationError("X", "must not be nil", nil)
	}
	if err := m.CheckPredict("KNN", X.Columns()); err != nil {
		return nil, err
	}

	predictions := make([]int, X.Rows())
	parallel.ParallelizeWithThreshold(X.Rows(), parallelThreshold, func(start, end int) {
		query := make([]float64, X.Columns())
		for i := start; i < end; i++ {
			for j := range query {
				query[j] = X.MustAt(i, j)
			}
			predictions[i] = m.vote(query)
		}
	})
	return model.Predictions(predictions), nil
}

type neighbor struct {
	index    int
	distance float64
}

func (m *KNN) vote(query []float64) int {
	nearest := make([]neighbor, len(m.points))
	for i, p := range m.points {
		nearest[i] = neighbor{index: i, distance: floats.Distance(query, p, 2)}
	}
	slices.SortStableFunc(nearest, func(a, b neighbor) int {
		return cmp.Compare(a.distance, b.distance)
	})

	counts := make(map[int]int, m.k)
	for _, n := range nearest[:m.k] {
		counts[m.labels[n.index]]++
	}

	best, bestCount := 0, -1
	for label, count := range counts {
		if count > bestCount || (count == bestCount && label < best) {
			best, bestCount = label, count
		}
	}
	return best
}
