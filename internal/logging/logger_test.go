package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moffa90/go-ad013/internal/config"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		info  bool
		warn  bool
	}{
		{"debug", true, true, true},
		{"INFO", false, true, true},
		{"warning", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := newLogger(config.LoggingConfig{Level: tt.level}, &bytes.Buffer{})
			require.NoError(t, err)
			core := logger.Core()
			assert.Equal(t, tt.debug, core.Enabled(zap.DebugLevel))
			assert.Equal(t, tt.info, core.Enabled(zap.InfoLevel))
			assert.Equal(t, tt.warn, core.Enabled(zap.WarnLevel))
		})
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("sensor found", zap.Int("baud", 57600))
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sensor found", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "ad013", entry["logger"])
	assert.Equal(t, float64(57600), entry["baud"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LoggingConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	logger.Warn("no sensor answered")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "warn")
	assert.Contains(t, out, "no sensor answered")
	assert.False(t, strings.HasPrefix(out, "{"))
}

func TestRollingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ad013.log")
	cfg := config.LoggingConfig{
		Level:  "debug",
		Format: "json",
		File:   config.LumberjackConfig{Filename: path, MaxSizeMB: 1},
	}

	var console bytes.Buffer
	logger, err := newLogger(cfg, &console)
	require.NoError(t, err)

	logger.Debug("transaction failed", zap.String("command", "search"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"command":"search"`)
	assert.Contains(t, console.String(), `"command":"search"`)
}

func TestInitLogger(t *testing.T) {
	logger, err := InitLogger(config.LoggingConfig{Level: "error"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
}
