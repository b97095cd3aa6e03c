package observability

import (
	"io"
	"log/slog"
	"os"
)

type Logger struct {
	*slog.Logger
}

// NewLogger writes JSON in production and text in development.
func NewLogger(serviceName string, development bool) *Logger {
	return newLogger(os.Stdout, serviceName, development)
}

func newLogger(w io.Writer, serviceName string, development bool) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if development {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{slog.New(handler).With("service", serviceName)}
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *Logger {
	return newLogger(io.Discard, "test", true)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}
