package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := &ConsoleHandler{writer: &buf, level: level, color: true}
	return slog.New(h), &buf
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			logger := NewLogger(level)
			require.NotNil(t, logger)
			logger.Info("test message")
		})
	}
}

func TestConsoleHandler_Colors(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*slog.Logger)
		color string
	}{
		{"info", func(l *slog.Logger) { l.Info("msg") }, colorGreen},
		{"warn", func(l *slog.Logger) { l.Warn("msg") }, colorYellow},
		{"error", func(l *slog.Logger) { l.Error("msg") }, colorRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger(slog.LevelInfo)
			tt.log(logger)
			assert.Contains(t, buf.String(), tt.color+"msg")
			assert.Contains(t, buf.String(), colorReset)
		})
	}
}

func TestConsoleHandler_WithoutColor(t *testing.T) {
	var buf bytes.Buffer
	h := NewConsoleHandler(&buf, slog.LevelInfo).WithoutColor()
	slog.New(h).Error("plain")
	assert.Equal(t, "plain\n", buf.String())
}

func TestConsoleHandler_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     slog.Level
		log       func(*slog.Logger)
		shouldLog bool
	}{
		{"info handler logs info", slog.LevelInfo, func(l *slog.Logger) { l.Info("test") }, true},
		{"info handler filters debug", slog.LevelInfo, func(l *slog.Logger) { l.Debug("test") }, false},
		{"debug handler logs debug", slog.LevelDebug, func(l *slog.Logger) { l.Debug("test") }, true},
		{"error handler filters warn", slog.LevelError, func(l *slog.Logger) { l.Warn("test") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newTestLogger(tt.level)
			tt.log(logger)
			assert.Equal(t, tt.shouldLog, buf.Len() > 0)
		})
	}
}

func TestConsoleHandler_Attributes(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelInfo)

	logger.With("plan", "CONGRESS").Info("scored", "party", "D", "districts", 9)

	out := buf.String()
	assert.Contains(t, out, "scored: plan=CONGRESS party=D districts=9")
}

func TestConsoleHandler_WithAttrsDoesNotLeak(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelInfo)

	_ = logger.With("plan", "A")
	logger.Info("base")
	assert.NotContains(t, buf.String(), "plan=A")
}

func TestConsoleHandler_Groups(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelInfo)

	logger.WithGroup("server").WithGroup("api").Info("hello")
	logger.WithGroup("").Info("no prefix")

	out := buf.String()
	assert.Contains(t, out, "[server.api] hello")
	assert.NotContains(t, out, "] no prefix")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"  debug  ", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}
