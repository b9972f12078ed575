package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestInitWithWriter_JSONAndCapture(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(LevelInfo, &buf)

	Debug("hidden")
	Info("alert selected", "alert_type", "doorOpen/noEntry")
	Warn("history write failed", "error", "disk full")
	Error("registry mismatch")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "debug must be filtered at info level")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "alert selected", rec["msg"])
	assert.Equal(t, "doorOpen/noEntry", rec["alert_type"])

	warn, errs := GetCounts()
	assert.Equal(t, 1, warn)
	assert.Equal(t, 1, errs)

	entries := GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "history write failed", entries[0].Message)
	assert.Equal(t, "disk full", entries[0].Error)
	assert.Equal(t, slog.LevelError, entries[1].Level)
	assert.Empty(t, entries[1].Error)
}

func TestWith_CarriesErrorIntoEntries(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(LevelInfo, &buf)

	With("component", "ipc", "error", "broken pipe").Warn("write failed")

	entries := GetEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "broken pipe", entries[0].Error)
	assert.Contains(t, buf.String(), `"component":"ipc"`)
}

func TestRecentLogs_KeepsNewest(t *testing.T) {
	r := &recentLogs{limit: 3}
	for i := 0; i < 5; i++ {
		r.record(LogEntry{Level: slog.LevelWarn, Message: string(rune('a' + i))})
	}
	r.record(LogEntry{Level: slog.LevelError, Message: "f"})

	got, warn, errs := r.snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "d", got[0].Message)
	assert.Equal(t, "f", got[2].Message)
	assert.Equal(t, 5, warn)
	assert.Equal(t, 1, errs)
}

func TestInitLogger_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "eventarb.log")
	InitLogger(LevelDebug, path)
	defer Close()

	assert.Equal(t, path, LogPath)
	Debug("started")
	assert.FileExists(t, path)
}

func TestLogEntry_Format(t *testing.T) {
	e := LogEntry{
		Time:    time.Date(2024, 1, 1, 9, 5, 3, 0, time.UTC),
		Level:   slog.LevelWarn,
		Message: "late cycle",
	}
	assert.Equal(t, "09:05:03 WARN  late cycle", e.Format())

	e.Level = slog.LevelError
	e.Error = "disk full"
	assert.Equal(t, "09:05:03 ERROR late cycle: disk full", e.Format())
}
