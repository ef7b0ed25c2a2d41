package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	scierrors "github.com/YuminosukeSato/scitable/pkg/errors"
)

func TestTestLoggerCapturesLevels(t *testing.T) {
	testLogger := NewTestLogger(LevelDebug)
	boom := fmt.Errorf("boom")

	testLogger.Debug("debug message", RowsKey, 3, ColumnsKey, 2)
	testLogger.Info("info message", OperationKey, OperationLoad)
	testLogger.Warn("warning message", PathKey, "data.csv")
	testLogger.Error("error message", boom, OperationKey, OperationExport)

	entries := testLogger.Entries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	wantLevels := []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}
	for i, e := range entries {
		if e.Level != wantLevels[i] {
			t.Errorf("entry %d level = %v, want %v", i, e.Level, wantLevels[i])
		}
	}
	if entries[0].Fields[RowsKey] != 3 {
		t.Errorf("%s = %v", RowsKey, entries[0].Fields[RowsKey])
	}
	if entries[3].Fields[ErrAttrKey] != boom {
		t.Error("expected leading error to be recorded")
	}
	if entries[3].Fields[OperationKey] != OperationExport {
		t.Error("expected operation field after error")
	}
}

func TestTestLoggerLevelFilter(t *testing.T) {
	testLogger := NewTestLogger(LevelWarn)
	testLogger.Debug("hidden")
	testLogger.Info("hidden too")
	testLogger.Warn("shown")

	if n := len(testLogger.Entries()); n != 1 {
		t.Fatalf("expected 1 entry, got %d", n)
	}
	if testLogger.Enabled(context.Background(), LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	testLogger.Reset()
	if n := len(testLogger.Entries()); n != 0 {
		t.Errorf("expected no entries after Reset, got %d", n)
	}
}

func TestTestLoggerWith(t *testing.T) {
	testLogger := NewTestLogger(LevelDebug)
	child := testLogger.With(ComponentKey, "table", ElementTypeKey, "float64")
	child.Info("selected", OperationKey, OperationProject)
	testLogger.Info("plain")

	e, ok := testLogger.Find("selected")
	if !ok {
		t.Fatal("child record not shared with parent")
	}
	if e.Fields[ComponentKey] != "table" || e.Fields[ElementTypeKey] != "float64" {
		t.Errorf("context fields missing: %v", e.Fields)
	}
	plain, _ := testLogger.Find("plain")
	if _, ok := plain.Fields[ComponentKey]; ok {
		t.Error("child context leaked into parent")
	}
}

func TestCaptureInstallsAndRestores(t *testing.T) {
	prev := GetLogger()
	t.Run("captured", func(t *testing.T) {
		tl := Capture(t, LevelDebug)
		GetLoggerWithName("csv").Debug("loaded", RowsKey, 2)
		w := scierrors.NewDataConversionWarning("float64", "int", "fractional part discarded")
		scierrors.Warn(w)

		e, ok := tl.Find("loaded")
		if !ok || e.Fields[ComponentKey] != "csv" {
			t.Errorf("named logger record = %+v", e)
		}
		warn, ok := tl.Find(w.Error())
		if !ok || warn.Level != LevelWarn || warn.Fields[WarningKey] != w {
			t.Errorf("warning record = %+v", warn)
		}
	})
	if GetLogger() != prev {
		t.Error("process-wide logger not restored after cleanup")
	}
}

func TestZerologLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug)

	logger.With(ComponentKey, "table").Info("csv loaded", PathKey, "iris.csv", RowsKey, 150)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["message"] != "csv loaded" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry[PathKey] != "iris.csv" {
		t.Errorf("%s = %v", PathKey, entry[PathKey])
	}
	if entry[RowsKey] != 150.0 {
		t.Errorf("%s = %v", RowsKey, entry[RowsKey])
	}
	if entry[ComponentKey] != "table" {
		t.Errorf("%s = %v", ComponentKey, entry[ComponentKey])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestZerologLoggerErrorDetails(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	err := scierrors.NewColumnNotFoundError("age")
	logger.Error("select failed", err, OperationKey, OperationProject)

	var entry map[string]any
	if jerr := json.Unmarshal(buf.Bytes(), &entry); jerr != nil {
		t.Fatalf("output is not JSON: %v", jerr)
	}
	if entry["error"] != err.Error() {
		t.Errorf("error = %v, want %v", entry["error"], err.Error())
	}
	if _, ok := entry["error_detail"]; !ok {
		t.Error("expected structured error_detail")
	}
	if entry[OperationKey] != OperationProject {
		t.Errorf("%s = %v", OperationKey, entry[OperationKey])
	}
}

func TestZerologLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelWarn)
	logger.Info("skipped")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %s", buf.String())
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error should be enabled at warn level")
	}
	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
}

func TestSetupRoutesWarnings(t *testing.T) {
	prev := GetLogger()
	defer func() {
		SetLogger(prev)
		scierrors.SetZerologWarnFunc(nil)
	}()

	var buf bytes.Buffer
	if err := Setup(&buf, "info", "json"); err != nil {
		t.Fatal(err)
	}
	scierrors.Warn(scierrors.NewDataConversionWarning("float64", "int", "fractional part discarded"))

	if !strings.Contains(buf.String(), "fractional part discarded") {
		t.Errorf("warning not routed through logger: %s", buf.String())
	}
}

func TestSetupRejectsUnknownValues(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	if err := Setup(&bytes.Buffer{}, "loud", "json"); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := Setup(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Error("export failed", scierrors.New("disk full"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	st, ok := entry[StacktraceAttrKey].(string)
	if !ok || st == "" {
		t.Errorf("expected stacktrace attribute, got %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"verbose", LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
