package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// recentLimit bounds how many WARN+ records the status endpoint can report.
const recentLimit = 100

// LogEntry is a captured WARN or ERROR record, served by the status endpoint.
type LogEntry struct {
	Time    time.Time  `json:"time"`
	Level   slog.Level `json:"level"`
	Message string     `json:"message"`
	Error   string     `json:"error,omitempty"`
}

// Format renders an entry as a single line.
func (e LogEntry) Format() string {
	line := fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level, e.Message)
	if e.Error != "" {
		line += ": " + e.Error
	}
	return line
}

// recentLogs keeps the newest WARN+ entries and running totals per level.
type recentLogs struct {
	mu       sync.Mutex
	entries  []LogEntry
	limit    int
	warnings int
	errors   int
}

func (r *recentLogs) record(e LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == r.limit {
		r.entries = append(r.entries[:0], r.entries[1:]...)
	}
	r.entries = append(r.entries, e)

	if e.Level >= slog.LevelError {
		r.errors++
	} else {
		r.warnings++
	}
}

func (r *recentLogs) snapshot() ([]LogEntry, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), r.entries...), r.warnings, r.errors
}

// statusHandler forwards to inner and copies WARN+ records into recent.
type statusHandler struct {
	inner  slog.Handler
	recent *recentLogs
	// errAttr is an "error" attribute bound through With.
	errAttr string
}

func (h *statusHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *statusHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		e := LogEntry{Time: r.Time, Level: r.Level, Message: r.Message, Error: h.errAttr}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "error" {
				e.Error = a.Value.String()
				return false
			}
			return true
		})
		h.recent.record(e)
	}
	return h.inner.Handle(ctx, r)
}

func (h *statusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.inner = h.inner.WithAttrs(attrs)
	for _, a := range attrs {
		if a.Key == "error" {
			next.errAttr = a.Value.String()
		}
	}
	return &next
}

func (h *statusHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.inner = h.inner.WithGroup(name)
	return &next
}

var (
	current *slog.Logger
	writer  *lumberjack.Logger
	recent  *recentLogs

	// LogPath is the file the logger writes to; empty for InitWithWriter.
	LogPath string
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a configuration level name to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l LogLevel) slogLevel() slog.Level {
	if l < LevelDebug || l > LevelError {
		return slog.LevelInfo
	}
	return [...]slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}[l]
}

// DefaultPath returns ~/.config/eventarb/eventarb.log, falling back to the
// temp directory when there is no home directory.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	return filepath.Join(homeDir, ".config", "eventarb", "eventarb.log")
}

// InitLogger installs a JSON logger writing to a rotated file at logPath,
// or DefaultPath when empty.
func InitLogger(level LogLevel, logPath string) {
	if logPath == "" {
		logPath = DefaultPath()
	}
	_ = os.MkdirAll(filepath.Dir(logPath), 0755)

	w := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}
	install(level, w)
	writer, LogPath = w, logPath
}

// InitWithWriter installs a JSON logger over w. Tests use it to capture output.
func InitWithWriter(level LogLevel, w io.Writer) {
	install(level, w)
	writer, LogPath = nil, ""
}

func install(level LogLevel, w io.Writer) {
	recent = &recentLogs{limit: recentLimit}
	current = slog.New(&statusHandler{
		inner:  slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level.slogLevel()}),
		recent: recent,
	})
	slog.SetDefault(current)
}

// Close closes the log file
func Close() {
	if writer != nil {
		writer.Close()
	}
}

func get() *slog.Logger {
	if current != nil {
		return current
	}
	return slog.Default()
}

func Debug(msg string, args ...any) { get().Debug(msg, args...) }
func Info(msg string, args ...any)  { get().Info(msg, args...) }
func Warn(msg string, args ...any)  { get().Warn(msg, args...) }
func Error(msg string, args ...any) { get().Error(msg, args...) }

// With returns a logger carrying args on every record.
func With(args ...any) *slog.Logger {
	return get().With(args...)
}

// GetCounts returns the number of warnings and errors logged since init.
func GetCounts() (warn, err int) {
	if recent == nil {
		return 0, 0
	}
	_, warn, err = recent.snapshot()
	return warn, err
}

// GetEntries returns the captured WARN/ERROR entries, oldest first.
func GetEntries() []LogEntry {
	if recent == nil {
		return nil
	}
	entries, _, _ := recent.snapshot()
	return entries
}
