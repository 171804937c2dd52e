package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// Logger -.
type Logger struct {
	*slog.Logger
}

// New builds a logger writing to stdout
func New(level, env string) *Logger {
	return NewWithWriter(os.Stdout, level, env)
}

// NewWithWriter builds a logger writing to w. env "local" gets the colored
// console handler; "dev" and "prod" get JSON, with prod pinned to info.
func NewWithWriter(w io.Writer, level, env string) *Logger {
	lev := ParseLevel(level)

	var logger *slog.Logger
	switch env {
	case envDev:
		logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lev}))
	case envProd:
		logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		logger = slog.New(NewPrettyHandler(w, &slog.HandlerOptions{Level: lev}))
	}

	return &Logger{logger}
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Err builds the "error" attribute for err
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
