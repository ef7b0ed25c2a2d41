// Package model defines the seam between tables and learning algorithms.
//
// Algorithms consume a float64 feature table plus a label table and return a
// prediction table with a single column named PredictedColumn.
package model

import (
	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/table"
)

// PredictedColumn は予測結果テーブルの列名
const PredictedColumn = "predicted_y"

// Classifier は整数ラベルを予測するモデルのインターフェース
type Classifier interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X *table.Table[float64], y *table.Table[int]) error
	// Predict は入力データに対する予測を行う
	Predict(X *table.Table[float64]) (*table.Table[int], error)
}

// Regressor は実数値を予測するモデルのインターフェース
type Regressor interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y *table.Table[float64]) error
	// Predict は入力データに対する予測を行う
	Predict(X *table.Table[float64]) (*table.Table[float64], error)
}

// CheckFitInput validates a feature table against a single-column label table.
func CheckFitInput[L table.Element](op string, X *table.Table[float64], y *table.Table[L]) error {
	if X == nil || y == nil {
		return errors.NewValidationError("X/y", "must not be nil", nil)
	}
	rows, columns := X.Shape()
	if rows == 0 || columns == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if y.Rows() != rows {
		return errors.NewDimensionError(op, rows, y.Rows(), 0)
	}
	if y.Columns() != 1 {
		return errors.NewValueError(op, "y must be a single column")
	}
	return nil
}

// Predictions wraps values in a single-column table named PredictedColumn.
func Predictions[T table.Element](values []T) *table.Table[T] {
	return table.FromColumn(values, PredictedColumn)
}
