// Package logging provides structured logging using Go's slog package.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charm "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace is a custom level below Debug, used for request wire
// tracing in the client adapters.
const LevelTrace = slog.Level(-8)

// Config holds logging configuration.
type Config struct {
	Level   string // debug, info, warn, error
	Format  string // json, text, pretty
	Service string // service name for default attrs
	Version string // service version for default attrs
	File    FileConfig
}

// FileConfig enables an additional rolling JSON log file.
type FileConfig struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New creates a configured slog.Logger writing to stdout, plus a
// rolling file when enabled.
func New(cfg Config) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a configured slog.Logger with a custom primary
// writer. Secret redaction is applied to every handler.
func NewWithWriter(cfg Config, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)

	handler := newPrimaryHandler(cfg, w, level)

	if cfg.File.Enabled {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		}

		// The file always gets JSON, whatever the terminal format.
		fileHandler := slog.NewJSONHandler(fileWriter, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: NewReplaceAttr(),
		})

		handler = NewMultiHandler(handler, fileHandler)
	}

	return slog.New(handler).With(
		slog.String("service_name", cfg.Service),
		slog.String("service_version", cfg.Version),
	)
}

// newPrimaryHandler builds the stdout handler for the configured format.
func newPrimaryHandler(cfg Config, w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: NewReplaceAttr(),
	}

	switch strings.ToLower(cfg.Format) {
	case "text":
		return slog.NewTextHandler(w, opts)
	case "pretty":
		return charm.NewWithOptions(w, charm.Options{
			Level:           charmLevel(level),
			ReportTimestamp: true,
		})
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// charmLevel maps slog levels onto charmbracelet levels.
func charmLevel(level slog.Level) charm.Level {
	switch {
	case level <= slog.LevelDebug:
		return charm.DebugLevel
	case level <= slog.LevelInfo:
		return charm.InfoLevel
	case level <= slog.LevelWarn:
		return charm.WarnLevel
	default:
		return charm.ErrorLevel
	}
}
