package logging

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// ErrUnknownLevel is returned by Initialize for a level name it does not
// recognize. The logger is still built, at info level.
var ErrUnknownLevel = errors.New("unknown log level")

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values (case-insensitive): "debug", "info", "warn", "error"
const LogLevelEnvVar = "LDDC_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks LDDC_LOG_LEVEL environment variable.
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

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if _, ok := lookupLevel(level); !ok {
		return fmt.Errorf("%w %q, using info", ErrUnknownLevel, level)
	}
	return nil
}

// InitializeFromEnv initializes the logger from the LDDC_LOG_LEVEL
// environment variable. Without it the logger stays silent.
func InitializeFromEnv() error {
	return Initialize("")
}

// ParseLevel maps a level name to a zap level. The stored configuration
// uses upper-case names ("INFO"), the CLI flag lower-case ones.
// Unknown names fall back to info.
func ParseLevel(level string) zapcore.Level {
	l, _ := lookupLevel(level)
	return l
}

func lookupLevel(level string) (zapcore.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel, true
	case "info":
		return zapcore.InfoLevel, true
	case "warn", "warning":
		return zapcore.WarnLevel, true
	case "error", "critical":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent unless explicitly initialized
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

// LogStoreEvent logs a configuration store event such as a set or delete.
func LogStoreEvent(event string, key string, path string) {
	Debug("Config store event",
		zap.String("event", event),
		zap.String("key", key),
		zap.String("path", path),
	)
}

// LogPersistFailure logs a failed write of the configuration file. The
// in-memory state is kept, so this is a warning rather than an error.
func LogPersistFailure(path string, err error) {
	Warn("Cannot write config file, keeping in-memory configuration",
		zap.String("path", path),
		zap.Error(err),
	)
}

// LogLoadFailure logs a failed read or parse of the configuration file.
func LogLoadFailure(path string, err error) {
	Warn("Cannot read config file, falling back to defaults",
		zap.String("path", path),
		zap.Error(err),
	)
}

// LogCallbackFailure logs a change subscriber that returned an error or panicked.
func LogCallbackFailure(group string, key string, err error) {
	Error("Config change subscriber failed",
		zap.String("group", group),
		zap.String("key", key),
		zap.Error(err),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
