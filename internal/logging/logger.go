package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a zap logger configured with the given level string. When
// outputs are given the logger writes there instead of stderr.
func New(level string, outputs ...string) (*zap.Logger, error) {
	lower := strings.ToLower(strings.TrimSpace(level))
	cfg := zap.NewProductionConfig()
	var zapLevel zapcore.Level
	switch lower {
	case "debug":
		cfg = zap.NewDevelopmentConfig()
		zapLevel = zapcore.DebugLevel
	case "info", "":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q (expected debug, info, warn, or error)", level)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(outputs) > 0 {
		cfg.OutputPaths = outputs
		cfg.ErrorOutputPaths = outputs
	}
	return cfg.Build()
}
