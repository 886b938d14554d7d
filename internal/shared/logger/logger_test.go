package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture returns a logger writing JSON entries into the buffer.
func capture(level string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: level, Format: "json", Output: buf})
	return l, buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewDefaults(t *testing.T) {
	l := New(nil)
	require.NotNil(t, l)
	assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewTextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&Config{Level: "info", Format: "text", Output: buf})

	l.Info("started")

	out := buf.String()
	assert.Contains(t, out, "started")
	assert.False(t, strings.HasPrefix(out, "{"), "text format must not emit JSON")
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		configured string
		emit       func(*Logger)
		kept       bool
	}{
		{"info", func(l *Logger) { l.Debug("m") }, false},
		{"info", func(l *Logger) { l.Info("m") }, true},
		{"warn", func(l *Logger) { l.Info("m") }, false},
		{"warn", func(l *Logger) { l.Warn("m") }, true},
		{"error", func(l *Logger) { l.Warn("m") }, false},
		{"error", func(l *Logger) { l.Error("m") }, true},
		{"debug", func(l *Logger) { l.Debug("m") }, true},
	}

	for _, tt := range tests {
		l, buf := capture(tt.configured)
		tt.emit(l)
		if tt.kept {
			assert.NotEmpty(t, buf.String(), "level %s", tt.configured)
		} else {
			assert.Empty(t, buf.String(), "level %s", tt.configured)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), "input %q", tt.input)
	}
}

func TestWithKeepsWrapperType(t *testing.T) {
	l, buf := capture("info")

	l.With("request_id", "r-1").Info("handled")

	entry := decode(t, buf)
	assert.Equal(t, "r-1", entry["request_id"])
	assert.Equal(t, "handled", entry["msg"])
}

func TestWithGroupNestsAttrs(t *testing.T) {
	l, buf := capture("info")

	l.WithGroup("db").Info("query", "rows", 3)

	entry := decode(t, buf)
	group, ok := entry["db"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), group["rows"])
}

func TestContextRoundTrip(t *testing.T) {
	l, _ := capture("info")
	ctx := ContextWithLogger(context.Background(), l)

	assert.Same(t, l, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()), "missing logger falls back to a default")
}

func TestFieldHelpers(t *testing.T) {
	l, buf := capture("info")

	l.Info("snapshot",
		String("name", "meetgo"),
		Int("count", 7),
		Int64("total", 1<<40),
		Float64("ratio", 0.5),
		Bool("ok", true),
		Duration("took", 250*time.Millisecond),
		Err(assert.AnError),
		Group("req", "method", "GET"),
	)

	entry := decode(t, buf)
	assert.Equal(t, "meetgo", entry["name"])
	assert.Equal(t, float64(7), entry["count"])
	assert.Equal(t, float64(1<<40), entry["total"])
	assert.Equal(t, 0.5, entry["ratio"])
	assert.Equal(t, true, entry["ok"])
	assert.Contains(t, entry["error"], "assert.AnError")

	req, ok := entry["req"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "GET", req["method"])
}
