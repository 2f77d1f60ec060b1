package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger writing JSON lines to path. The panel
// owns the terminal, so logs never go to stderr.
func New(path string, debug bool) (*zap.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return log, nil
}
