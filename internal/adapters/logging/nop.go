// Package logging provides implementations of the ports.Logger interface:
// a ConsoleLogger for text or JSON output and a NopLogger for tests and
// quiet runs.
package logging

import (
	"context"
	"io"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// NopLogger discards all messages.
type NopLogger struct {
	level ports.Level
}

// NewNopLogger creates a new no-op logger.
func NewNopLogger() *NopLogger {
	return &NopLogger{level: ports.LevelInfo}
}

// Debug does nothing.
func (l *NopLogger) Debug(_ context.Context, _ string, _ ...ports.Field) {}

// Info does nothing.
func (l *NopLogger) Info(_ context.Context, _ string, _ ...ports.Field) {}

// Warn does nothing.
func (l *NopLogger) Warn(_ context.Context, _ string, _ ...ports.Field) {}

// Error does nothing.
func (l *NopLogger) Error(_ context.Context, _ string, _ ...ports.Field) {}

// With returns itself.
func (l *NopLogger) With(_ ...ports.Field) ports.Logger {
	return l
}

// Level returns the log level.
func (l *NopLogger) Level() ports.Level {
	return l.level
}

// SetLevel sets the log level.
func (l *NopLogger) SetLevel(level ports.Level) {
	l.level = level
}

var _ ports.Logger = (*NopLogger)(nil)

// Options selects the logger built by New.
type Options struct {
	Verbose bool
	JSON    bool
	Quiet   bool
	// Level names the minimum level (debug, info, warn, error). It wins
	// over Verbose when set.
	Level  string
	Output io.Writer
}

// New builds the process logger from CLI flags. Quiet wins over everything.
func New(opts Options) ports.Logger {
	if opts.Quiet {
		return NewNopLogger()
	}
	level := ports.LevelWarn
	switch {
	case opts.Level != "":
		level = ports.ParseLevel(opts.Level)
	case opts.Verbose:
		level = ports.LevelDebug
	}
	consoleOpts := []ConsoleLoggerOption{
		WithLevel(level),
		WithJSONFormat(opts.JSON),
		WithTimestamp(opts.JSON || opts.Verbose),
	}
	if opts.Output != nil {
		consoleOpts = append(consoleOpts, WithOutput(opts.Output))
	}
	return NewConsoleLogger(consoleOpts...)
}
