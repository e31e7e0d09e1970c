// Package logging sets up the zerolog logger shared by the client, the CLI and
// the sandbox server.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration options
type Config struct {
	// Level is the minimum log level to output
	Level string

	// Format is "console" or "json"
	Format string

	// Output is stderr, stdout, discard, or a file path
	Output string
}

// New creates a logger from configuration. The returned func closes the log
// file when Output is a path and is a no-op otherwise. If the file cannot be
// opened the logger falls back to stderr and says so.
func New(cfg Config) (zerolog.Logger, func() error) {
	level := parseLevel(cfg.Level)

	out, closeOut, openErr := writer(cfg)
	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	if openErr != nil {
		logger.Warn().Err(openErr).Str("path", cfg.Output).Msg("log file unavailable, writing to stderr")
	}
	return logger, closeOut
}

// Component returns a child logger tagged with the component name,
// e.g. "Session" or "FeedPaginator".
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

type contextKey int

const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns a no-op logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
			return logger
		}
	}
	return zerolog.Nop()
}

func writer(cfg Config) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	var out io.Writer
	closeOut := noop
	var openErr error
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard", "none":
		return io.Discard, noop, nil
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			out, openErr = os.Stderr, err
		} else {
			out, closeOut = file, file.Close
		}
	}

	if strings.ToLower(cfg.Format) == "json" {
		return out, closeOut, openErr
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}, closeOut, openErr
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "", "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "none", "off":
		return zerolog.Disabled
	default:
		if l, err := zerolog.ParseLevel(level); err == nil {
			return l
		}
		return zerolog.InfoLevel
	}
}
