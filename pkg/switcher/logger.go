package switcher

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the tool's console logger. verbosity is the count of -v
// flags minus the count of -q flags: 0 is info, 1 and up is debug, -1 warn,
// -2 error, anything below that is effectively silent.
func NewLogger(verbosity int) (*zap.SugaredLogger, error) {
	var level zapcore.Level

	switch {
	case verbosity >= 1:
		level = zapcore.DebugLevel
	case verbosity == 0:
		level = zapcore.InfoLevel
	case verbosity == -1:
		level = zapcore.WarnLevel
	case verbosity == -2:
		level = zapcore.ErrorLevel
	default:
		level = zapcore.FatalLevel
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return logger.Sugar(), nil
}
