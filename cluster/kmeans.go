// Package cluster provides k-means clustering over tables.
package cluster

import (
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/scitable/core/model"
	"github.com/YuminosukeSato/scitable/core/parallel"
	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/pkg/log"
	"github.com/YuminosukeSato/scitable/table"
)

// parallelThreshold 並列処理の閾値（割り当てる行数）
const parallelThreshold = 512

// 初期化方法
const (
	InitKMeansPlusPlus = "k-means++"
	InitRandom         = "random"
)

// KMeans は Lloyd 法による k-means クラスタリング
type KMeans struct {
	model.BaseEstimator

	// ハイパーパラメータ
	k       int
	maxIter int
	init    string
	rng     *rand.Rand

	// 学習パラメータ
	centers [][]float64 // クラスタ中心（k x nFeatures）
	labels  []int       // 各訓練行のクラスタ番号
	inertia float64     // クラスタ内平方和誤差
	nIter   int
	names   []string
}

var _ model.Clusterer = (*KMeans)(nil)

// Option configures a KMeans.
type Option func(*KMeans)

// WithMaxIter sets the iteration limit. The default is 300.
func WithMaxIter(n int) Option {
	return func(m *KMeans) { m.maxIter = n }
}

// WithInit selects InitKMeansPlusPlus (the default) or InitRandom.
func WithInit(init string) Option {
	return func(m *KMeans) { m.init = init }
}

// WithRand fixes the random source used for initial centers.
func WithRand(rng *rand.Rand) Option {
	return func(m *KMeans) { m.rng = rng }
}

// NewKMeans は k 個のクラスタを持つ KMeans を作成する。k は 2 以上
func NewKMeans(k int, opts ...Option) (*KMeans, error) {
	m := &KMeans{k: k, maxIter: 300, init: InitKMeansPlusPlus}
	for _, opt := range opts {
		opt(m)
	}
	if k < 2 {
		return nil, errors.NewValidationError("k", "must be at least two", k)
	}
	if m.maxIter < 1 {
		return nil, errors.NewValidationError("max_iter", "must be at least one", m.maxIter)
	}
	if m.init != InitKMeansPlusPlus && m.init != InitRandom {
		return nil, errors.NewValidationError("init", "must be k-means++ or random", m.init)
	}
	if m.rng == nil {
		seed := uint64(time.Now().UnixNano())
		m.rng = rand.New(rand.NewPCG(seed, seed))
	}
	return m, nil
}

// Fit はクラスタ中心を学習する。割り当てが変化しなくなるか maxIter に達すると終了する
func (m *KMeans) Fit(X *table.Table[float64]) error {
	if X == nil {
		return errors.NewValidationError("X", "must not be nil", nil)
	}
	if X.Rows() == 0 || X.Columns() == 0 {
		return errors.NewModelError("KMeans.Fit", "empty data", errors.ErrEmptyData)
	}
	if X.Rows() < m.k {
		return errors.NewValidationError("k", "exceeds the number of rows", m.k)
	}
	if err := errors.CheckFinite("KMeans.Fit", X.Values()); err != nil {
		return err
	}

	points := rowsOf(X)
	centers := m.initialCenters(points)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	iter := 0
	for iter < m.maxIter {
		iter++
		if !assign(points, centers, labels) {
			break
		}
		centers = means(points, labels, centers)
	}

	m.centers = centers
	m.labels = labels
	m.inertia = inertia(points, centers, labels)
	m.nIter = iter
	m.names = X.ColumnNames()
	m.SetFitted(X.Columns())

	log.GetLoggerWithName("cluster").Debug("kmeans fitted",
		log.ModelNameKey, "KMeans",
		log.RowsKey, X.Rows(),
		log.IterationsKey, iter,
		log.ScoreKey, m.inertia,
	)
	return nil
}

// Predict は各行に最も近いクラスタ番号を返す
func (m *KMeans) Predict(X *table.Table[float64]) (*table.Table[int], error) {
	if X == nil {
		return nil, errors.NewValidationError("X", "must not be nil", nil)
	}
	if err := m.CheckPredict("KMeans", X.Columns()); err != nil {
		return nil, err
	}
	points := rowsOf(X)
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}
	assign(points, m.centers, labels)
	return model.Predictions(labels), nil
}

// Labels returns the cluster of every training row.
func (m *KMeans) Labels() (*table.Table[int], error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Labels")
	}
	return table.FromColumn(slices.Clone(m.labels), "cluster"), nil
}

// Centers returns one row per cluster, named like the training columns.
func (m *KMeans) Centers() (*table.Table[float64], error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("KMeans", "Centers")
	}
	return table.FromRows(m.centers, m.names)
}

// Inertia は各行から所属クラスタ中心までの距離の二乗和
func (m *KMeans) Inertia() float64 { return m.inertia }

// NIter は実行されたイテレーション数
func (m *KMeans) NIter() int { return m.nIter }

func (m *KMeans) initialCenters(points [][]float64) [][]float64 {
	if m.init == InitRandom {
		centers := make([][]float64, m.k)
		for i, idx := range m.rng.Perm(len(points))[:m.k] {
			centers[i] = slices.Clone(points[idx])
		}
		return centers
	}
	return m.kMeansPlusPlus(points)
}

// kMeansPlusPlus picks each further center with probability proportional to the
// squared distance to the nearest center chosen so far.
func (m *KMeans) kMeansPlusPlus(points [][]float64) [][]float64 {
	centers := make([][]float64, 0, m.k)
	centers = append(centers, slices.Clone(points[m.rng.IntN(len(points))]))

	distances := make([]float64, len(points))
	for len(centers) < m.k {
		total := 0.0
		for i, p := range points {
			_, d := nearest(p, centers)
			distances[i] = d * d
			total += distances[i]
		}

		// すべての点が既存の中心と重なる場合は一様に選ぶ
		if total == 0 {
			centers = append(centers, slices.Clone(points[m.rng.IntN(len(points))]))
			continue
		}
		target := m.rng.Float64() * total
		selected := len(points) - 1
		cum := 0.0
		for i, d := range distances {
			cum += d
			if cum >= target && d > 0 {
				selected = i
				break
			}
		}
		centers = append(centers, slices.Clone(points[selected]))
	}
	return centers
}

// assign moves every point to its nearest center and reports whether any label changed.
func assign(points, centers [][]float64, labels []int) bool {
	changed := make([]bool, len(points))
	parallel.ParallelizeWithThreshold(len(points), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			c, _ := nearest(points[i], centers)
			if labels[i] != c {
				labels[i] = c
				changed[i] = true
			}
		}
	})
	return slices.Contains(changed, true)
}

// means recomputes each center as the mean of its points. A cluster that lost
// all of its points keeps its previous center.
func means(points [][]float64, labels []int, previous [][]float64) [][]float64 {
	dim := len(points[0])
	sums := make([][]float64, len(previous))
	counts := make([]int, len(previous))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, p := range points {
		floats.Add(sums[labels[i]], p)
		counts[labels[i]]++
	}
	for c := range sums {
		if counts[c] == 0 {
			sums[c] = previous[c]
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
	}
	return sums
}

func nearest(p []float64, centers [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		if d := floats.Distance(p, center, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

func inertia(points, centers [][]float64, labels []int) float64 {
	total := 0.0
	for i, p := range points {
		d := floats.Distance(p, centers[labels[i]], 2)
		total += d * d
	}
	return total
}

func rowsOf(X *table.Table[float64]) [][]float64 {
	points := make([][]float64, X.Rows())
	for i := range points {
		points[i], _ = X.Row(i)
	}
	return points
}
