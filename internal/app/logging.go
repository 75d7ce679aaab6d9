package app

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// LogOptions resolves the effective log format and level.
// Precedence: flag, DREAMBOARD_LOG_FORMAT / DREAMBOARD_LOG_LEVEL, config.yaml.
// Empty means "not set".
func LogOptions(flagFormat, flagLevel string) (format, level string) {
	format, level = flagFormat, flagLevel
	if format == "" {
		format = os.Getenv("DREAMBOARD_LOG_FORMAT")
	}
	if level == "" {
		level = os.Getenv("DREAMBOARD_LOG_LEVEL")
	}
	if s, err := LoadSettings(); err == nil {
		if format == "" {
			format = s.LogFormat
		}
		if level == "" {
			level = s.LogLevel
		}
	}
	if format == "" {
		format = "auto"
	}
	if level == "" {
		level = "info"
	}
	return format, level
}

// NewLogger builds a slog.Logger for the given format ("json", "text", "auto")
// and level name. "auto" selects colored text output when w is a terminal.
func NewLogger(w io.Writer, format, level string) *slog.Logger {
	lvl := parseLevel(level)

	if strings.EqualFold(format, "auto") {
		format = "json"
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = "text"
		}
	}

	if strings.EqualFold(format, "text") {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// SetupLogger installs the default logger on stderr.
func SetupLogger(format, level string) {
	slog.SetDefault(NewLogger(os.Stderr, format, level))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
