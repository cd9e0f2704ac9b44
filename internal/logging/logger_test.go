package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   string
		enabled zapcore.Level
		skipped zapcore.Level
	}{
		{level: "debug", enabled: zapcore.DebugLevel, skipped: zapcore.DebugLevel - 1},
		{level: "", enabled: zapcore.InfoLevel, skipped: zapcore.DebugLevel},
		{level: "INFO", enabled: zapcore.InfoLevel, skipped: zapcore.DebugLevel},
		{level: "warning", enabled: zapcore.WarnLevel, skipped: zapcore.InfoLevel},
		{level: "error", enabled: zapcore.ErrorLevel, skipped: zapcore.WarnLevel},
	}
	for _, tt := range tests {
		logger, err := New(tt.level)
		require.NoError(t, err, tt.level)
		assert.True(t, logger.Core().Enabled(tt.enabled), tt.level)
		assert.False(t, logger.Core().Enabled(tt.skipped), tt.level)
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New("loud")
	assert.ErrorContains(t, err, `unknown log level "loud"`)
}

func TestNew_FileOutput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "preview.log")
	logger, err := New("info", path)
	require.NoError(t, err)
	logger.Info("low frame rate", zap.Int("fps", 31))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"low frame rate"`)
	assert.Contains(t, string(data), `"fps":31`)
}
