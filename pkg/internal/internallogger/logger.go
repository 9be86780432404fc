package internallogger

import (
	"sync"

	"github.com/keyscope/keyscope/pkg/logschema"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOption adjusts the zap configuration before the logger is built.
type LoggerOption func(*zap.Config, *zapcore.Level, *int)

// ZapLoggerAdapter adapts a zap logger to the types.Logger interface.
type ZapLoggerAdapter struct {
	logger      *zap.Logger
	atomicLevel zap.AtomicLevel
	mu          sync.Mutex
}

// NewLogger initializes a new ZapLoggerAdapter with configurable options.
func NewLogger(options ...LoggerOption) *ZapLoggerAdapter {
	config := zap.NewProductionConfig()
	config.EncoderConfig = standardEncoderConfig()
	config.InitialFields = map[string]interface{}{
		logschema.FieldSchema: logschema.SchemaID,
	}
	var level zapcore.Level
	callerDepth := 1

	for _, option := range options {
		option(&config, &level, &callerDepth)
	}

	logger, err := config.Build(zap.AddCaller(), zap.AddCallerSkip(callerDepth))
	if err != nil {
		// Fall back to a bare production logger rather than failing startup.
		logger = zap.NewNop()
	}

	return &ZapLoggerAdapter{
		logger:      logger,
		atomicLevel: config.Level,
	}
}
