package model

import "github.com/YuminosukeSato/scitable/table"

// Scorer is the interface for regressors that report R² on held-out data.
type Scorer interface {
	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X, y *table.Table[float64]) (float64, error)
}

// Clusterer groups rows without labels and assigns new rows to a group.
type Clusterer interface {
	// Fit learns the groups from X.
	Fit(X *table.Table[float64]) error

	// Predict returns the group of every row in a single-column table.
	Predict(X *table.Table[float64]) (*table.Table[int], error)
}
