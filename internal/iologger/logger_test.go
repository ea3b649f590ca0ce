package iologger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/config"
	"github.com/pazviva/pvdash/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"trace", slog.LevelInfo},
	}
	for _, v := range tests {
		assert.Equal(t, v.want, parseLevel(v.in), v.in)
	}
}

func TestNewHandler(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"msg":"hello"`},
		{"text", "msg=hello"},
		{"tint", "hello"},
		{"unknown", `"msg":"hello"`},
	}
	for _, v := range tests {
		t.Run(v.format, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewHandler(&buf, config.LogConfig{Format: v.format, Level: "info"})
			slog.New(h).Info("hello", "key", 1)
			assert.Contains(t, buf.String(), v.want)
		})
	}
}

func TestNewHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, config.LogConfig{Format: "json", Level: "warn"})
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestInit_File(t *testing.T) {
	dir := t.TempDir()
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}
	require.NoError(t, Init(dir, cfg, false))
	slog.Info("first")

	require.NoError(t, Init(dir, cfg, true))
	slog.Info("second")

	bs, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(bs), "first")
	assert.Contains(t, string(bs), "second")

	require.NoError(t, Init(dir, cfg, false))
	bs, err = os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Empty(t, bs, "fresh log file is truncated")
}

func TestInit_BadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	cfg := config.LogConfig{Format: "json", Destination: "file"}

	err := Init(dir, cfg, true)
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
}

func TestWriter_Streams(t *testing.T) {
	w, err := Writer("", "stdout", false)
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)

	w, err = Writer("", "stderr", false)
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, w)
}

func TestIsTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, isTerminal(&buf), "buffer")

	f, err := os.Create(filepath.Join(t.TempDir(), "log.txt"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f), "regular file")

	// tint output to a file carries no color codes
	h := NewHandler(f, config.LogConfig{Format: "tint", Level: "info"})
	slog.New(h).Info("hello")
	bs, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Contains(t, string(bs), "hello")
	assert.NotContains(t, string(bs), "\x1b[")
}
