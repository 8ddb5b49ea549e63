package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)
	ctx := context.Background()

	log.Debug(ctx, "frame decoded", "n", 1)
	log.Info(ctx, "upload started", "file", "a.jpg")
	log.Warn(ctx, "camera slow", "fps", 12)
	log.Error(ctx, "upload failed", "status", 500)

	out := buf.String()
	assert.NotContains(t, out, "frame decoded")
	assert.NotContains(t, out, "upload started")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "fps=12")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "status=500")
}

func TestSlogLogger_AllLevelsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", &buf)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	for i, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		assert.Contains(t, lines[i], "level="+level)
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)

	child := log.With("component", "scan", "session", "s1")
	child.Info(context.Background(), "started", "camera", "frames/")

	out := buf.String()
	for _, s := range []string{"msg=started", "component=scan", "session=s1", "camera=frames/"} {
		assert.Contains(t, out, s)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop()
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.Warn(ctx, "x")
	log.Error(ctx, "x")
	log.With("k", "v").Info(ctx, "y")
}
