// Package preprocessing rescales the columns of float64 tables.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scitable/core/model"
	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/table"
)

// constantTolerance 以下の散らばりは定数列とみなす
const constantTolerance = 1e-8

// StandardScaler はデータを列ごとに平均0、標準偏差1に変換する
type StandardScaler struct {
	model.BaseEstimator

	// Mean は各列の平均値
	Mean []float64

	// Scale は各列の母標準偏差。定数列では 1
	Scale []float64

	WithMean bool
	WithStd  bool
}

var _ model.Transformer = (*StandardScaler)(nil)

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	scaled, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{WithMean: withMean, WithStd: withStd}
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
func (s *StandardScaler) Fit(X *table.Table[float64]) error {
	if err := checkFit("StandardScaler.Fit", X); err != nil {
		return err
	}
	c := X.Columns()
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		col, _ := X.Column(j)
		mean, std := stat.PopMeanStdDev(col, nil)
		if s.WithMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1
		if s.WithStd && std >= constantTolerance {
			s.Scale[j] = std
		}
	}
	s.SetFitted(c)
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X *table.Table[float64]) (*table.Table[float64], error) {
	if err := checkTransform(&s.BaseEstimator, "StandardScaler", X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}), nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X *table.Table[float64]) (*table.Table[float64], error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X *table.Table[float64]) (*table.Table[float64], error) {
	if err := checkTransform(&s.BaseEstimator, "StandardScaler", X); err != nil {
		return nil, err
	}
	return apply(X, func(j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}), nil
}

func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures())
}

// MinMaxScaler はデータを列ごとに指定した範囲（デフォルト[0,1]）にスケーリングする
type MinMaxScaler struct {
	model.BaseEstimator

	// DataMin, DataMax は各列の最小値と最大値
	DataMin []float64
	DataMax []float64

	// Scale は各列の max - min。定数列では 1
	Scale []float64

	FeatureRange [2]float64
}

var _ model.Transformer = (*MinMaxScaler)(nil)

// NewMinMaxScaler は新しいMinMaxScalerを作成する
func NewMinMaxScaler(featureRange [2]float64) (*MinMaxScaler, error) {
	if !(featureRange[0] < featureRange[1]) {
		return nil, errors.NewValidationError("feature_range", "minimum must be less than maximum", featureRange)
	}
	return &MinMaxScaler{FeatureRange: featureRange}, nil
}

// Fit は各列の最小値・最大値を計算する
func (m *MinMaxScaler) Fit(X *table.Table[float64]) error {
	if err := checkFit("MinMaxScaler.Fit", X); err != nil {
		return err
	}
	c := X.Columns()
	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		col, _ := X.Column(j)
		m.DataMin[j], m.DataMax[j] = floats.Min(col), floats.Max(col)
		m.Scale[j] = 1
		if r := m.DataMax[j] - m.DataMin[j]; math.Abs(r) >= constantTolerance {
			m.Scale[j] = r
		}
	}
	m.SetFitted(c)
	return nil
}

// Transform は学習済みの統計情報を使ってデータをスケーリングする
func (m *MinMaxScaler) Transform(X *table.Table[float64]) (*table.Table[float64], error) {
	if err := checkTransform(&m.BaseEstimator, "MinMaxScaler", X); err != nil {
		return nil, err
	}
	span := m.FeatureRange[1] - m.FeatureRange[0]
	return apply(X, func(j int, v float64) float64 {
		// X_scaled = (X - X.min) / (X.max - X.min) * (max - min) + min
		return (v-m.DataMin[j])/m.Scale[j]*span + m.FeatureRange[0]
	}), nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X *table.Table[float64]) (*table.Table[float64], error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元のスケールに戻す
func (m *MinMaxScaler) InverseTransform(X *table.Table[float64]) (*table.Table[float64], error) {
	if err := checkTransform(&m.BaseEstimator, "MinMaxScaler", X); err != nil {
		return nil, err
	}
	span := m.FeatureRange[1] - m.FeatureRange[0]
	return apply(X, func(j int, v float64) float64 {
		return (v-m.FeatureRange[0])/span*m.Scale[j] + m.DataMin[j]
	}), nil
}

func (m *MinMaxScaler) String() string {
	return fmt.Sprintf("MinMaxScaler(feature_range=(%g, %g))", m.FeatureRange[0], m.FeatureRange[1])
}

func checkFit(op string, X *table.Table[float64]) error {
	if X == nil {
		return errors.NewValidationError("X", "must not be nil", nil)
	}
	if X.Rows() == 0 || X.Columns() == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	return nil
}

func checkTransform(e *model.BaseEstimator, name string, X *table.Table[float64]) error {
	if X == nil {
		return errors.NewValidationError("X", "must not be nil", nil)
	}
	return e.CheckPredict(name, X.Columns())
}

// apply returns a copy of X with f applied to every cell; j is the column.
func apply(X *table.Table[float64], f func(j int, v float64) float64) *table.Table[float64] {
	out := X.Clone()
	for i := 0; i < out.Rows(); i++ {
		for j := 0; j < out.Columns(); j++ {
			_ = out.Set(i, j, f(j, out.MustAt(i, j)))
		}
	}
	return out
}
