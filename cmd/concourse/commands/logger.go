package commands

import (
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// slogLogger adapts slog to the client's Logger interface.
type slogLogger struct {
	logger *slog.Logger
}

// newLogger logs warnings and errors to w, and debug output too when verbose.
func newLogger(w io.Writer, verbose bool) concourse.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})

	return &slogLogger{logger: slog.New(handler)}
}

func (l *slogLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, attrs(fields)...)
}

func (l *slogLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, attrs(fields)...)
}

func (l *slogLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, attrs(fields)...)
}

func (l *slogLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, attrs(fields)...)
}

// attrs converts fields to slog attributes in key order.
func attrs(fields map[string]interface{}) []any {
	out := make([]any, 0, len(fields))
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		out = append(out, slog.Any(key, fields[key]))
	}

	return out
}
