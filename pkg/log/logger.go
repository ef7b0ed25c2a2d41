package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	scierrors "github.com/YuminosukeSato/scitable/pkg/errors"
)

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewZerologLogger(io.Discard, LevelInfo)
)

// GetLogger returns the process-wide logger. It discards output until Setup or
// SetLogger is called.
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// GetLoggerWithName returns the process-wide logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// SetLogger replaces the process-wide logger.
func SetLogger(l Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Setup installs a zerolog logger as the process-wide logger and routes
// errors.Warn through it. format is "console" or "json".
func Setup(w io.Writer, level string, format string) error {
	lvl, ok := ParseLevel(level)
	if !ok {
		return scierrors.NewValidationError("log_level", "must be one of debug, info, warn, error", level)
	}

	var zl *ZerologLogger
	switch format {
	case "", "console":
		zl = NewConsoleLogger(w, lvl)
	case "json":
		zl = NewZerologLogger(w, lvl)
	default:
		return scierrors.NewValidationError("log_format", "must be console or json", format)
	}

	SetLogger(zl)
	scierrors.SetZerologWarnFunc(zl.WarnFunc())
	return nil
}

// SetupLogger function setup logger.
// It installs a slog JSON handler using Cloud Logging attribute names as both the
// slog default and the process-wide Logger.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
		// Replace attributes to convert to CloudLogging format.
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			case slog.SourceKey:
				attr = slog.Attr{
					Key:   "logging.googleapis.com/sourceLocation",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
	SetLogger(NewSlogLogger(errFmtHandler))
}

func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// SlogLogger implements Logger on top of a slog.Handler.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps handler. Wrap it with WrapByErrFmtHandler to get stack traces.
func NewSlogLogger(handler slog.Handler) *SlogLogger {
	return &SlogLogger{l: slog.New(handler)}
}

func (s *SlogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...any)  { s.l.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...any)  { s.l.Warn(msg, fields...) }

// Error attaches a leading error field under ErrAttrKey.
func (s *SlogLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{ErrAttr(err)}, fields[1:]...)
		}
	}
	s.l.Error(msg, fields...)
}

func (s *SlogLogger) With(fields ...any) Logger {
	return &SlogLogger{l: s.l.With(fields...)}
}

func (s *SlogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}
