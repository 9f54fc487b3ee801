package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Production uses JSON with ISO8601 timestamps;
// anything else gets the colored development console. When sink is non-nil the
// JSON stream is tee'd into it (CloudWatch Logs in deployed environments).
func New(env string, sink io.Writer) (*zap.Logger, error) {
	config := Config(env)

	if sink == nil {
		return config.Build()
	}

	level := zap.NewAtomicLevelAt(config.Level.Level())

	var consoleEncoder zapcore.Encoder
	if env == "production" {
		consoleEncoder = zapcore.NewJSONEncoder(config.EncoderConfig)
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
	}
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	sinkEncoderConfig := config.EncoderConfig
	sinkEncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	sinkCore := zapcore.NewCore(zapcore.NewJSONEncoder(sinkEncoderConfig), zapcore.AddSync(sink), level)

	return zap.New(zapcore.NewTee(consoleCore, sinkCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Config returns the zap configuration used for env.
func Config(env string) zap.Config {
	if env == "production" {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return config
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config
}
