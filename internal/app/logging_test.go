package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogOptions_Precedence(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DREAMBOARD_LOG_FORMAT", "")
	t.Setenv("DREAMBOARD_LOG_LEVEL", "")
	writeUserConfig(t, home, "log_format: text\nlog_level: warn\n")

	format, level := LogOptions("", "")
	require.Equal(t, "text", format)
	require.Equal(t, "warn", level)

	t.Setenv("DREAMBOARD_LOG_LEVEL", "debug")
	format, level = LogOptions("", "")
	require.Equal(t, "text", format)
	require.Equal(t, "debug", level)

	format, level = LogOptions("json", "error")
	require.Equal(t, "json", format)
	require.Equal(t, "error", level)
}

func TestLogOptions_Defaults(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	t.Setenv("HOME", t.TempDir())
	t.Setenv("DREAMBOARD_LOG_FORMAT", "")
	t.Setenv("DREAMBOARD_LOG_LEVEL", "")

	format, level := LogOptions("", "")
	require.Equal(t, "auto", format)
	require.Equal(t, "info", level)
}

func TestNewLogger_AutoIsJSONWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "auto", "info")

	logger.Debug("hidden")
	logger.Info("shown", "resource", "insights")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"resource":"insights"`)
}

func TestNewLogger_TextUsesTint(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "text", "debug")

	logger.Debug("retrying request", "attempt", 2)
	require.Contains(t, buf.String(), "retrying request")
	require.NotContains(t, buf.String(), `"msg"`)
	require.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLevel("warning"))
	require.Equal(t, slog.LevelError, parseLevel(" error "))
	require.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
