package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const consoleLoggingFormat = "console"

// BuildLogger constructs a zap logger honoring the configured level and
// encoding.
func (root Root) BuildLogger() (*zap.Logger, error) {
	level, levelErr := zapcore.ParseLevel(root.Logging.Level)
	if levelErr != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", root.Logging.Level, levelErr)
	}
	loggerConfiguration := zap.NewProductionConfig()
	loggerConfiguration.Level = zap.NewAtomicLevelAt(level)
	if root.Logging.Format == consoleLoggingFormat {
		loggerConfiguration.Encoding = consoleLoggingFormat
		loggerConfiguration.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	return loggerConfiguration.Build()
}
