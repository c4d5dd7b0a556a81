package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Logger = (*ZerologAdapter)(nil)

func jsonLogger(buf *bytes.Buffer) *ZerologAdapter {
	return NewZerologAdapter(zerolog.New(buf).Level(zerolog.DebugLevel))
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log line: %s", buf.String())
	return entry
}

func TestFieldHelpers(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		field Field
		key   string
		value any
	}{
		{String("workload", "fib"), "workload", "fib"},
		{Int("sinks", 3), "sinks", 3},
		{Uint64("items", 1 << 40), "items", uint64(1 << 40)},
		{Float64("rate", 12.5), "rate", 12.5},
		{Duration("eta", time.Second), "eta", time.Second},
		{Bool("done", true), "done", true},
		{Err(boom), "error", boom},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.key, tt.field.Key)
		assert.Equal(t, tt.value, tt.field.Value)
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		log   func(*ZerologAdapter)
	}{
		{"debug", func(l *ZerologAdapter) { l.Debug("msg") }},
		{"info", func(l *ZerologAdapter) { l.Info("msg") }},
		{"warn", func(l *ZerologAdapter) { l.Warn("msg") }},
		{"error", func(l *ZerologAdapter) { l.Error("msg", errors.New("read failed")) }},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.log(jsonLogger(&buf))
			entry := decode(t, &buf)
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "msg", entry["message"])
			if tt.level == "error" {
				assert.Equal(t, "read failed", entry["error"])
			}
		})
	}
}

func TestZerologAdapter_FieldTypes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	jsonLogger(&buf).Info("progress",
		String("workload", "lines"),
		Int("index", 2),
		Uint64("items", 42),
		Float64("percent", 50),
		Bool("done", false),
		Duration("eta", 1500*time.Millisecond),
		Err(errors.New("short read")),
		Field{Key: "stage", Value: struct{ Name string }{"start"}},
	)

	entry := decode(t, &buf)
	assert.Equal(t, "lines", entry["workload"])
	assert.InDelta(t, 2, entry["index"], 0)
	assert.InDelta(t, 42, entry["items"], 0)
	assert.InDelta(t, 50, entry["percent"], 0)
	assert.Equal(t, false, entry["done"])
	assert.InDelta(t, 1500, entry["eta"], 0) // zerolog renders durations in ms
	assert.Equal(t, "short read", entry["error"])
	assert.Equal(t, map[string]any{"Name": "start"}, entry["stage"])
}

func TestZerologAdapter_With(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	child := jsonLogger(&buf).With(String("run_id", "abc"), Int("attempt", 1))
	child.Warn("telemetry sink failed", String("workload", "ticker"))

	entry := decode(t, &buf)
	assert.Equal(t, "abc", entry["run_id"])
	assert.InDelta(t, 1, entry["attempt"], 0)
	assert.Equal(t, "ticker", entry["workload"])
}

func TestNewConsoleLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewConsoleLogger(&buf, true).Info("metrics server started", String("addr", "127.0.0.1:9090"))

	out := buf.String()
	assert.Contains(t, out, "metrics server started")
	assert.Contains(t, out, "addr=127.0.0.1:9090")
	assert.NotContains(t, out, "\x1b[", "no colour codes with noColor")
	assert.False(t, strings.HasPrefix(out, "{"), "console output is not JSON")
}

func TestNop(t *testing.T) {
	t.Parallel()

	l := Nop()
	assert.NotPanics(t, func() {
		l.Debug("d")
		l.Info("i", String("k", "v"))
		l.Warn("w")
		l.Error("e", errors.New("x"))
		l.With(Bool("b", true)).Info("child")
	})
}
