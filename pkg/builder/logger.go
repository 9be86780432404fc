package builder

import (
	internalLogger "github.com/keyscope/keyscope/pkg/internal/internallogger"
	"github.com/keyscope/keyscope/pkg/internal/types"
)

type LoggerOption = internalLogger.LoggerOption

// NewLogger builds a structured logger for the dashboard and its workers.
func NewLogger(options ...LoggerOption) types.Logger {
	return internalLogger.NewLogger(options...)
}

// LoggerWithLevel configures the logger to use the specified log level.
func LoggerWithLevel(levelStr string) LoggerOption {
	return internalLogger.LoggerWithLevel(levelStr)
}

// LoggerWithDevelopment enables or disables development mode.
func LoggerWithDevelopment(dev bool) LoggerOption {
	return internalLogger.LoggerWithDevelopment(dev)
}

// LoggerWithFields attaches static fields to every log line.
func LoggerWithFields(fields map[string]interface{}) LoggerOption {
	return internalLogger.LoggerWithFields(fields)
}

// LoggerWithOutputPaths routes log output. A terminal app should send logs to
// a file, never stdout, so they do not fight the charts for the screen.
func LoggerWithOutputPaths(paths ...string) LoggerOption {
	return internalLogger.LoggerWithOutputPaths(paths...)
}
