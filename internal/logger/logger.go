// Package logger writes hstools diagnostics: leveled key/value records on
// stderr, kept apart from the change log a command prints on stdout.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is what the rewriters and commands log through
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}

// ParseLevel maps a LOG_LEVEL value to a slog level. Unknown names fall back
// to info and are reported.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// NewText logs records at or above level as slog text lines on w
func NewText(w io.Writer, level slog.Level) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return &textLogger{logger: slog.New(handler)}
}

type textLogger struct {
	logger *slog.Logger
}

func (l *textLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *textLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *textLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }

func (l *textLogger) With(args ...any) Logger {
	return &textLogger{logger: l.logger.With(args...)}
}

// Noop discards everything; library callers that pass no logger get this
func Noop() Logger {
	return noop{}
}

type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) With(...any) Logger   { return noop{} }
