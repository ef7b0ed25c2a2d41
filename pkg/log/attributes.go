// Package log defines standard attribute keys for table operations.
//
// Using these keys keeps records from the loader, the transforms and the model seam
// consistent so they can be filtered by field. Keys follow a dotted hierarchy
// ("table.rows", "csv.path").

package log

// Table shape and identity
const (
	// RowsKey is the number of rows of the table involved in the record.
	RowsKey = "table.rows"

	// ColumnsKey is the number of columns of the table involved in the record.
	ColumnsKey = "table.columns"

	// ElementTypeKey names the Go element type of the table, e.g. "float64".
	ElementTypeKey = "table.element_type"

	// TargetTypeKey names the element type a conversion produces.
	TargetTypeKey = "table.target_type"

	// OperationKey specifies the table operation being performed.
	// Standard values are the Operation* constants below.
	OperationKey = "table.operation"

	// ComponentKey identifies which package is logging.
	// Examples: "table", "validation", "cli"
	ComponentKey = "component"
)

// CSV ingestion and export
const (
	// PathKey is the file path read or written.
	PathKey = "csv.path"

	// SeparatorKey is the field separator in use.
	SeparatorKey = "csv.separator"

	// HeadersKey records whether the first line carries column names.
	HeadersKey = "csv.headers"
)

// Sampling and splitting
const (
	// SampleSizeKey is the number of rows requested from Sample.
	SampleSizeKey = "sample.n"

	// ReplaceKey records whether sampling is done with replacement.
	ReplaceKey = "sample.replace"

	// TestRatioKey is the test fraction passed to SplitData.
	TestRatioKey = "split.test_ratio"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Model seam
const (
	// ModelNameKey identifies the type of model.
	// Examples: "LinearRegression", "KNN"
	ModelNameKey = "model.name"

	// IterationsKey is the number of iterations an iterative fit ran.
	IterationsKey = "model.iterations"

	// FoldKey is the cross-validation fold number.
	FoldKey = "cv.fold"

	// ScoreKey is a metric value such as RMSE or F1.
	ScoreKey = "metrics.score"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error context
const (
	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"

	// WarningKey carries a warning raised through errors.Warn.
	WarningKey = "warning"
)

// Standard attribute values.
const (
	OperationLoad    = "load"
	OperationExport  = "export"
	OperationProject = "project"
	OperationSample  = "sample"
	OperationSplit   = "split"
	OperationAppend  = "append"
	OperationFit     = "fit"
)
