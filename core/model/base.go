package model

import "github.com/YuminosukeSato/scitable/pkg/errors"

// EstimatorState はモデルの学習状態を表す
type EstimatorState int

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// BaseEstimator は全てのモデルの基底となる構造体
type BaseEstimator struct {
	state     EstimatorState
	nFeatures int
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はモデルを学習済み状態に設定し、学習時の特徴量数を記録する
func (e *BaseEstimator) SetFitted(nFeatures int) {
	e.state = Fitted
	e.nFeatures = nFeatures
}

// NFeatures は学習時の特徴量数を返す
func (e *BaseEstimator) NFeatures() int {
	return e.nFeatures
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
	e.nFeatures = 0
}

// CheckPredict は予測前の前提条件（学習済み・特徴量数の一致）を検証する
func (e *BaseEstimator) CheckPredict(modelName string, columns int) error {
	if !e.IsFitted() {
		return errors.NewNotFittedError(modelName, "Predict")
	}
	if columns != e.nFeatures {
		return errors.NewDimensionError(modelName+".Predict", e.nFeatures, columns, 1)
	}
	return nil
}
