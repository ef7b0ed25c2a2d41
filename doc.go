// Package scitable provides typed, in-memory tables for Go, loaded from CSV and
// other delimited text, with the reshaping, summary and model-evaluation tools a
// small data pipeline needs.
//
// A table holds cells of a single element type (string, any integer or float
// width) in row-major order with optional column names. Conversions between
// element types happen when columns are selected or dropped, with range checks
// and a DataConversionWarning when fractions are lost.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "log"
//	    "math/rand/v2"
//	    "os"
//
//	    "github.com/YuminosukeSato/scitable/core/model"
//	    "github.com/YuminosukeSato/scitable/neighbors"
//	    "github.com/YuminosukeSato/scitable/table"
//	    "github.com/YuminosukeSato/scitable/validation"
//	)
//
//	func main() {
//	    data, err := table.Load[float64]("iris.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := table.Describe(data, os.Stdout); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    last := []int{data.Columns() - 1}
//	    X, _ := table.Drop[float64](data, last)
//	    y, _ := table.Select[int](data, last)
//
//	    rng := rand.New(rand.NewPCG(1, 1))
//	    score, err := validation.MonteCarloCV(func() model.Classifier {
//	        clf, _ := neighbors.NewKNN(5)
//	        return clf
//	    }, X, y, 10, 0.2, rng)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    log.Printf("F1 %.3f ± %.3f", score.Mean, score.StdDev)
//	}
//
// # Packages
//
//   - table: the Table type, CSV load/export, selection and casting, sampling,
//     splitting, appending, null handling, printing and gonum interop
//   - stats: descriptive statistics behind Describe
//   - core/model: Classifier and Regressor interfaces over tables
//   - linear: ordinary least squares regression
//   - neighbors: k-nearest-neighbours classification
//   - metrics: RMSE, MAE, R², F1
//   - validation: Monte Carlo cross-validation
//   - plotting: histogram and scatter images via gonum/plot
//   - config: YAML and environment configuration
//   - pkg/errors, pkg/log: error taxonomy and structured logging
//
// The scitable command (cmd/scitable) exposes the table operations on the
// command line.
package scitable
