package logging_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/trickle"
	"github.com/fwojciec/trickle/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
}

func TestNew_FileJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "trickle.log")
	logger, closer, err := logging.New(trickle.LogConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("stream completed", "request_id", "abc")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "stream completed", rec["msg"])
	assert.Equal(t, "abc", rec["request_id"])
}

func TestNew_FileText(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trickle.log")
	logger, closer, err := logging.New(trickle.LogConfig{Level: "debug", Format: "text", File: path})
	require.NoError(t, err)
	logger.Debug("stream started", "url", "http://x")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `msg="stream started"`)
	assert.Contains(t, string(data), "level=DEBUG")
}

func TestNew_Discard(t *testing.T) {
	t.Parallel()

	logger, closer, err := logging.New(trickle.LogConfig{File: logging.Discard, Level: "debug"})
	require.NoError(t, err)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	assert.NoError(t, closer.Close())
}

func TestNew_Stderr(t *testing.T) {
	t.Parallel()

	logger, closer, err := logging.New(trickle.LogConfig{File: logging.Stderr, Level: "warn"})
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.NoError(t, closer.Close())
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "trickle.log", filepath.Base(logging.DefaultPath()))
}
