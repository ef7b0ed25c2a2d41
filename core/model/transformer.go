package model

import "github.com/YuminosukeSato/scitable/table"

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X *table.Table[float64]) error

	// Transform はデータを変換する。入力テーブルは変更しない
	Transform(X *table.Table[float64]) (*table.Table[float64], error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X *table.Table[float64]) (*table.Table[float64], error)
}
