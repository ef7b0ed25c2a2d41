package log

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	scierrors "github.com/YuminosukeSato/scitable/pkg/errors"
)

// Entry はTestLoggerが捕捉した1件のログレコードです。
// Fields の値は呼び出し側が渡した値そのままで、JSONを経由しません。
type Entry struct {
	Level   Level
	Message string
	Fields  map[string]any
}

// TestLogger はレコードをメモリに保持するテスト用のLoggerです。
// With で作った子ロガーは親と同じ記録先を共有します。
type TestLogger struct {
	sink   *entrySink
	level  Level
	fields []any
}

type entrySink struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTestLogger returns a logger that keeps records at or above level.
func NewTestLogger(level Level) *TestLogger {
	return &TestLogger{sink: &entrySink{}, level: level}
}

// Capture installs a TestLogger as the process-wide logger for the rest of the test
// and routes errors.Warn into it as warn records under WarningKey.
func Capture(tb testing.TB, level Level) *TestLogger {
	tb.Helper()
	prev := GetLogger()
	tl := NewTestLogger(level)
	SetLogger(tl)
	scierrors.SetZerologWarnFunc(func(w error) {
		tl.Warn(w.Error(), WarningKey, w)
	})
	tb.Cleanup(func() {
		scierrors.SetZerologWarnFunc(nil)
		SetLogger(prev)
	})
	return tl
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.record(LevelDebug, msg, fields) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.record(LevelInfo, msg, fields) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.record(LevelWarn, msg, fields) }

// Error records a leading error field under ErrAttrKey.
func (t *TestLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{ErrAttrKey, err}, fields[1:]...)
		}
	}
	t.record(LevelError, msg, fields)
}

func (t *TestLogger) With(fields ...any) Logger {
	return &TestLogger{
		sink:   t.sink,
		level:  t.level,
		fields: append(slices.Clip(t.fields), pairs(fields)...),
	}
}

func (t *TestLogger) Enabled(_ context.Context, level Level) bool {
	return t.level <= level
}

func (t *TestLogger) record(level Level, msg string, fields []any) {
	if level < t.level {
		return
	}
	e := Entry{Level: level, Message: msg, Fields: make(map[string]any)}
	for _, kv := range [][]any{t.fields, pairs(fields)} {
		for i := 0; i+1 < len(kv); i += 2 {
			e.Fields[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	t.sink.mu.Lock()
	t.sink.entries = append(t.sink.entries, e)
	t.sink.mu.Unlock()
}

// Entries returns a copy of every captured record in order.
func (t *TestLogger) Entries() []Entry {
	t.sink.mu.Lock()
	defer t.sink.mu.Unlock()
	return slices.Clone(t.sink.entries)
}

// Find returns the first record with the given message.
func (t *TestLogger) Find(msg string) (Entry, bool) {
	for _, e := range t.Entries() {
		if e.Message == msg {
			return e, true
		}
	}
	return Entry{}, false
}

// Reset drops every captured record.
func (t *TestLogger) Reset() {
	t.sink.mu.Lock()
	t.sink.entries = nil
	t.sink.mu.Unlock()
}
