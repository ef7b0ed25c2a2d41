package model

import (
	"testing"

	"github.com/YuminosukeSato/scitable/pkg/errors"
	"github.com/YuminosukeSato/scitable/table"
)

func TestBaseEstimatorLifecycle(t *testing.T) {
	var e BaseEstimator
	if e.IsFitted() {
		t.Fatal("new estimator must not be fitted")
	}

	err := e.CheckPredict("KNN", 2)
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}

	e.SetFitted(2)
	if err := e.CheckPredict("KNN", 2); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	var dimErr *errors.DimensionError
	if !errors.As(e.CheckPredict("KNN", 3), &dimErr) {
		t.Error("expected DimensionError for wrong feature count")
	}

	e.Reset()
	if e.IsFitted() || e.NFeatures() != 0 {
		t.Error("Reset must clear fitted state")
	}
}

func TestCheckFitInput(t *testing.T) {
	X, err := table.FromRows([][]float64{{1, 2}, {3, 4}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		y       *table.Table[int]
		wantErr bool
	}{
		{"valid", table.FromColumn([]int{0, 1}, "y"), false},
		{"row mismatch", table.FromColumn([]int{0}, "y"), true},
		{"two columns", table.New[int](2, 2), true},
		{"nil labels", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFitInput("Test.Fit", X, tt.y)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckFitInput() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := CheckFitInput("Test.Fit", table.New[float64](0, 0), table.New[int](0, 1)); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}
}

func TestPredictions(t *testing.T) {
	p := Predictions([]int{1, 0, 1})
	if names := p.ColumnNames(); len(names) != 1 || names[0] != PredictedColumn {
		t.Errorf("prediction column names = %v", names)
	}
	if p.Rows() != 3 || p.Columns() != 1 {
		t.Errorf("shape = %dx%d", p.Rows(), p.Columns())
	}
}
