package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "TAPO_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks the TAPO_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// ParseLevel maps a level name to a zap level. Unknown names fall back to
// info, since the caller asked for logging explicitly.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Tests use it to install an observer core.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent until initialized, so commands never print stray log lines
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogProbe logs the outcome of a single connectivity probe
func LogProbe(host string, reachable bool, elapsed time.Duration, cause error) {
	fields := []zap.Field{
		zap.String("host", host),
		zap.Bool("reachable", reachable),
		zap.Duration("elapsed", elapsed),
	}
	if cause != nil {
		fields = append(fields, zap.NamedError("cause", cause))
	}
	Debug("Probe completed", fields...)
}

// LogClassification logs a classifier outcome for a reachable host
func LogClassification(host string, model string, err error) {
	if err != nil {
		Debug("Classification failed",
			zap.String("host", host),
			zap.Error(err),
		)
		return
	}
	Info("Device classified",
		zap.String("host", host),
		zap.String("model", model),
	)
}

// LogScanSummary logs the totals of a finished discovery pass
func LogScanSummary(subnet string, probed, reachable, found int, elapsed time.Duration, interrupted bool) {
	Info("Discovery finished",
		zap.String("subnet", subnet),
		zap.Int("probed", probed),
		zap.Int("reachable", reachable),
		zap.Int("found", found),
		zap.Duration("elapsed", elapsed),
		zap.Bool("interrupted", interrupted),
	)
}

// LogMonitorTick logs one hub monitor refresh
func LogMonitorTick(host string, children int, err error) {
	if err != nil {
		Warn("Monitor tick failed",
			zap.String("host", host),
			zap.Error(err),
		)
		return
	}
	Info("Monitor tick",
		zap.String("host", host),
		zap.Int("children", children),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
