package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}

// SlogLogger adapts a slog.Logger to the Logger interface
type SlogLogger struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogLogger returns a Logger writing each Printf call as one record at info level
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger, level: slog.LevelInfo}
}

// WithLevel returns a copy that logs at the given level
func (l *SlogLogger) WithLevel(level slog.Level) *SlogLogger {
	return &SlogLogger{logger: l.logger, level: level}
}

func (l *SlogLogger) Printf(format string, args ...interface{}) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	l.logger.Log(context.Background(), l.level, msg)
}

// ParseLevel maps debug/info/warn/error to a slog level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
