package logging

import (
	"fmt"

	"github.com/mikey/llm-mood-engine/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger initializes the service logger from the logging.* settings
func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.GetString("logging.level"))
	if err != nil {
		level = zapcore.InfoLevel
	}

	logConfig := baseConfig(level, cfg.GetString("logging.format") == "json")
	if paths := cfg.GetStringSlice("logging.output_paths"); len(paths) > 0 {
		logConfig.OutputPaths = paths
	}
	logConfig.InitialFields = map[string]interface{}{"service": "mood-filter"}

	return build(logConfig)
}

// InitConsoleLogger initializes a logger for the command line tools. Logs go
// to stderr so stdout stays free for results.
func InitConsoleLogger(verbose bool, jsonFormat bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	logConfig := baseConfig(level, jsonFormat)
	logConfig.OutputPaths = []string{"stderr"}
	return build(logConfig)
}

func baseConfig(level zapcore.Level, jsonFormat bool) zap.Config {
	var logConfig zap.Config
	if jsonFormat {
		logConfig = zap.NewProductionConfig()
		logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logConfig.Level = zap.NewAtomicLevelAt(level)
	return logConfig
}

func build(logConfig zap.Config) (*zap.Logger, error) {
	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
