// Package logging builds the application's structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/trickle"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Special values of [trickle.LogConfig.File].
const (
	Stderr  = "stderr"
	Discard = "discard"
)

const defaultLogFile = "trickle.log"

const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger configured by cfg and a Closer that releases its
// output. Logs never go to stdout, which belongs to the terminal UI.
func New(cfg trickle.LogConfig) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	switch path := strings.TrimSpace(cfg.File); path {
	case Discard:
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	case Stderr:
		return slog.New(newHandler(cfg.Format, os.Stderr, opts)), nopCloser{}, nil
	default:
		if path == "" {
			path = DefaultPath()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return slog.New(slog.DiscardHandler), nopCloser{}, fmt.Errorf("logging: %w", err)
		}
		w := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
			Compress:   true,
		}
		return slog.New(newHandler(cfg.Format, w, opts)), w, nil
	}
}

// DefaultPath returns the per-user log file path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return filepath.Join(".trickle", "logs", defaultLogFile)
	}
	return filepath.Join(home, ".trickle", "logs", defaultLogFile)
}

// ParseLevel maps a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
		return slog.NewTextHandler(out, opts)
	default:
		return slog.NewJSONHandler(out, opts)
	}
}
