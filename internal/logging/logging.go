// Package logging builds the *slog.Logger the CLI and engine share: a
// JSON handler over a size-rotating file, optionally tee'd to stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ftskit/ftsengine/internal/config"
)

// Setup builds a logger from cfg. When cfg.FilePath is empty, logging goes
// to stderr only (or is discarded if cfg.WriteToStderr is also false) and
// the returned cleanup is a no-op; otherwise it opens (creating if needed)
// a rotating file at cfg.FilePath and the cleanup syncs and closes it.
func Setup(cfg config.LoggingConfig) (*slog.Logger, func(), error) {
	level := parseLevel(cfg.Level)

	if cfg.FilePath == "" {
		var output io.Writer = io.Discard
		if cfg.WriteToStderr {
			output = os.Stderr
		}
		handler := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
		return slog.New(handler), func() {}, nil
	}

	if err := EnsureLogDir(); err != nil {
		return nil, nil, err
	}

	maxSizeMB, maxFiles := cfg.MaxSizeMB, cfg.MaxFiles
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if maxFiles <= 0 {
		maxFiles = 5
	}

	writer, err := NewRotatingWriter(cfg.FilePath, maxSizeMB, maxFiles)
	if err != nil {
		return nil, nil, err
	}

	var output io.Writer = writer
	if cfg.WriteToStderr {
		output = io.MultiWriter(writer, os.Stderr)
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)

	cleanup := func() {
		_ = writer.Sync()
		_ = writer.Close()
	}
	return logger, cleanup, nil
}

// SetupDefault configures the package-level slog default from cfg and
// returns its cleanup function.
func SetupDefault(cfg config.LoggingConfig) (func(), error) {
	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return cleanup, nil
}

// parseLevel converts a config level string to slog.Level, defaulting to
// info for anything unrecognized.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromString exposes parseLevel for callers that need to validate a
// level string before it reaches Setup (e.g. flag parsing in the CLI).
func LevelFromString(level string) slog.Level {
	return parseLevel(level)
}
