package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BuzzLyutic/task-tracker-api/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"nonsense", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.log")
	log := New(config.LogConfig{
		Level:  "warn",
		Format: "json",
		Output: "file",
		File:   config.LogFile{Path: path, MaxSizeMB: 1},
	})

	log.Info("dropped by level")
	log.Warn("task store slow", zap.Int64("task_id", 42))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "exactly one json line expected, got %q", data)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "task store slow", entry["message"])
	assert.EqualValues(t, 42, entry["task_id"])
	assert.NotEmpty(t, entry["timestamp"])
}
