package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/clawquant/internal/ports"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestConsoleLogger_TextOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithTimestamp(false))

	logger.Info(context.Background(), "plugin loaded", ports.F("plugin", "web.search"), ports.F("fields", 2))

	assert.Equal(t, "[INFO] plugin loaded plugin=web.search fields=2\n", buf.String())
}

func TestConsoleLogger_TextOutputQuotesWhitespace(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithTimestamp(false), WithLevelLabel(false))

	logger.Warn(context.Background(), "dispatch failed", ports.Err(errors.New("connection refused by peer")))

	assert.Equal(t, "dispatch failed error=\"connection refused by peer\"\n", buf.String())
}

func TestConsoleLogger_TextOutputTimestamp(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf))
	logger.now = fixedClock

	logger.Info(context.Background(), "ready")

	assert.Equal(t, "09:26:53 [INFO] ready\n", buf.String())
}

func TestConsoleLogger_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithJSONFormat(true))
	logger.now = fixedClock

	logger.Error(context.Background(), "task failed",
		ports.F("handler", "notifications.send"),
		ports.Err(errors.New("boom")),
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "task failed", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "2026-03-14T09:26:53Z", entry["time"])
	assert.Equal(t, "notifications.send", entry["handler"])
	assert.Equal(t, "boom", entry["error"])
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithTimestamp(false), WithLevel(ports.LevelWarn))
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"[WARN] warn", "[ERROR] error"}, lines)
}

func TestConsoleLogger_With(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := NewConsoleLogger(WithOutput(&buf), WithTimestamp(false))
	derived := base.With(ports.F("invocation", "abc"))

	derived.Info(context.Background(), "run", ports.F("status", "success"))
	base.Info(context.Background(), "plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[INFO] run invocation=abc status=success", lines[0])
	assert.Equal(t, "[INFO] plain", lines[1])
}

func TestConsoleLogger_SetLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithTimestamp(false))
	assert.Equal(t, ports.LevelInfo, logger.Level())

	logger.SetLevel(ports.LevelDebug)
	logger.Debug(context.Background(), "visible")

	assert.Equal(t, ports.LevelDebug, logger.Level())
	assert.Contains(t, buf.String(), "[DEBUG] visible")
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NewNopLogger()
	ctx := context.Background()

	logger.Debug(ctx, "x")
	logger.Info(ctx, "x")
	logger.Warn(ctx, "x")
	logger.Error(ctx, "x")

	assert.Same(t, logger, logger.With(ports.F("k", "v")))
	logger.SetLevel(ports.LevelError)
	assert.Equal(t, ports.LevelError, logger.Level())
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      Options
		wantLevel ports.Level
		wantNop   bool
	}{
		{name: "default is warn", opts: Options{}, wantLevel: ports.LevelWarn},
		{name: "verbose is debug", opts: Options{Verbose: true}, wantLevel: ports.LevelDebug},
		{name: "level name", opts: Options{Level: "info"}, wantLevel: ports.LevelInfo},
		{name: "level wins over verbose", opts: Options{Verbose: true, Level: "error"}, wantLevel: ports.LevelError},
		{name: "quiet wins", opts: Options{Verbose: true, Quiet: true}, wantLevel: ports.LevelInfo, wantNop: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.opts.Output = &buf
			logger := New(tt.opts)

			_, isNop := logger.(*NopLogger)
			assert.Equal(t, tt.wantNop, isNop)
			assert.Equal(t, tt.wantLevel, logger.Level())
		})
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Options{JSON: true, Output: &buf})
	logger.Warn(context.Background(), "slow", ports.F("ms", 1200))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "slow", entry["msg"])
	assert.InDelta(t, 1200, entry["ms"], 0)
}
