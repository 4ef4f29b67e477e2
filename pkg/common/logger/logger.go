package logger

import (
	"io"
	"log/slog"
	"os"
)

// Level selects the minimum severity that gets emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Default is the process-wide logger. The CLI replaces it during startup
// once flags are parsed; library code reaches it through the package-level
// helpers below or takes an injected *slog.Logger.
var Default *slog.Logger

func init() {
	Default = New(Config{
		Level:  LevelInfo,
		Format: FormatText,
		Output: os.Stderr,
	})
}

// Format selects the handler encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config holds logger construction options.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// New builds a slog.Logger for the given config. Logs go to stderr in
// the CLI so command output on stdout stays clean.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: toSlogLevel(cfg.Level),
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(cfg.Output, opts)
	default:
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return slog.New(handler)
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs through the Default logger.
func Debug(msg string, args ...any) {
	Default.Debug(msg, args...)
}

// Info logs through the Default logger.
func Info(msg string, args ...any) {
	Default.Info(msg, args...)
}

// Warn logs through the Default logger.
func Warn(msg string, args ...any) {
	Default.Warn(msg, args...)
}

// Error logs through the Default logger.
func Error(msg string, args ...any) {
	Default.Error(msg, args...)
}

// With derives a child of the Default logger with fixed attributes.
func With(args ...any) *slog.Logger {
	return Default.With(args...)
}
