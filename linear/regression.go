// Package linear provides ordinary least squares regression over tables.
package linear

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scitable/core/model"
	"github.com/YuminosukeSato/scitable/core/parallel"
	"github.com/YuminosukeSato/scitable/metrics"
	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/pkg/log"
	"github.com/YuminosukeSato/scitable/table"
)

// defaultParallelThreshold 並列処理の閾値（この値以下の行数では逐次処理を使用）
const defaultParallelThreshold = 1000

// LinearRegression は線形回帰モデル
type LinearRegression struct {
	model.BaseEstimator // BaseEstimatorを埋め込み

	weights   *mat.VecDense // 重み（係数）
	intercept float64       // 切片

	fitIntercept      bool
	parallelThreshold int
}

var (
	_ model.Regressor = (*LinearRegression)(nil)
	_ model.Scorer    = (*LinearRegression)(nil)
)

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		fitIntercept:      true,
		parallelThreshold: defaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
// 正規方程式 w = (X^T * X)^(-1) * X^T * y を使用
func (lr *LinearRegression) Fit(X, y *table.Table[float64]) error {
	start := time.Now()
	if err := model.CheckFitInput("LinearRegression.Fit", X, y); err != nil {
		return err
	}
	if err := errors.CheckFinite("LinearRegression.Fit", X.Values()); err != nil {
		return err
	}
	if err := errors.CheckFinite("LinearRegression.Fit", y.Values()); err != nil {
		return err
	}
	r, c := X.Shape()

	// 切片項のために X に 1 の列を追加
	// design = [1, X]
	offset := 0
	if lr.fitIntercept {
		offset = 1
	}
	design := mat.NewDense(r, c+offset, nil)

	parallel.ParallelizeWithThreshold(r, lr.parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if offset == 1 {
				design.Set(i, 0, 1.0) // 切片項
			}
			for j := 0; j < c; j++ {
				design.Set(i, j+offset, X.MustAt(i, j))
			}
		}
	})

	// (X^T * X)^(-1) * X^T * y
	var XTX mat.Dense
	XTX.Mul(design.T(), design)

	var XTXInv mat.Dense
	if err := XTXInv.Inverse(&XTX); err != nil {
		return errors.NewModelError("LinearRegression.Fit", "singular matrix", errors.ErrSingularMatrix)
	}

	yVec, err := table.ToVec(y, 0)
	if err != nil {
		return err
	}
	var XTy mat.VecDense
	XTy.MulVec(design.T(), yVec)

	weights := mat.NewVecDense(c+offset, nil)
	weights.MulVec(&XTXInv, &XTy)

	// 切片と重みを分離
	lr.intercept = 0
	if offset == 1 {
		lr.intercept = weights.AtVec(0)
	}
	lr.weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.weights.SetVec(j, weights.AtVec(j+offset))
	}

	lr.SetFitted(c)

	log.GetLoggerWithName("linear").Debug("model fitted",
		log.OperationKey, log.OperationFit,
		log.ModelNameKey, "LinearRegression",
		log.RowsKey, r,
		log.ColumnsKey, c,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Predict は入力データに対する予測を行う
// y = X * weights + intercept
func (lr *LinearRegression) Predict(X *table.Table[float64]) (*table.Table[float64], error) {
	if X == nil {
		return nil, errors.NewValidationError("X", "must not be nil", nil)
	}
	r, c := X.Shape()
	if err := lr.CheckPredict("LinearRegression", c); err != nil {
		return nil, err
	}

	predictions := make([]float64, r)
	parallel.ParallelizeWithThreshold(r, lr.parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := lr.intercept
			for j := 0; j < c; j++ {
				pred += X.MustAt(i, j) * lr.weights.AtVec(j)
			}
			predictions[i] = pred
		}
	})
	return model.Predictions(predictions), nil
}

// Coefficients は学習された重み（係数）を返す
func (lr *LinearRegression) Coefficients() []float64 {
	if lr.weights == nil {
		return nil
	}
	weights := make([]float64, lr.weights.Len())
	for i := range weights {
		weights[i] = lr.weights.AtVec(i)
	}
	return weights
}

// Intercept は学習された切片を返す
func (lr *LinearRegression) Intercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.intercept
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y *table.Table[float64]) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	yTrue, err := table.ToVec(y, 0)
	if err != nil {
		return 0, err
	}
	predVec, err := table.ToVec(yPred, 0)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yTrue, predVec)
}
