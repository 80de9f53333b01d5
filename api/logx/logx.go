// Package logx provides structured logging functionality
package logx

import (
	"os"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a scoped view over the global zap logger. Scopes resolve the
// global logger on every call so Init can reconfigure them after startup.
type Logger struct {
	scope string
}

var global atomic.Pointer[zap.Logger]

func init() {
	lvl := zapcore.InfoLevel
	if IsLocalDev(os.Getenv("APP_ENV")) {
		lvl = zapcore.DebugLevel
	}
	zapLogger, err := build(lvl, "console")
	if err != nil {
		panic(err)
	}
	global.Store(zapLogger)
}

// IsLocalDev checks if the environment is local development
func IsLocalDev(appEnv string) bool {
	return appEnv == "local" || appEnv == "dev" || appEnv == "development"
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func build(lvl zapcore.Level, format string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Development = false
	config.Sampling = nil
	config.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	switch strings.ToLower(format) {
	case "json":
		config.Encoding = "json"
		config.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	default:
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return config.Build(zap.AddCallerSkip(1))
}

// Init replaces the global logger with one at the given level and format
// ("console" or "json").
func Init(level, format string) error {
	zapLogger, err := build(parseLevel(level), format)
	if err != nil {
		return err
	}
	if old := global.Swap(zapLogger); old != nil {
		_ = old.Sync()
	}
	return nil
}

// L returns the global sugared logger.
func L() *zap.SugaredLogger {
	return global.Load().Sugar()
}

// GetScope returns a logger named after the given scope.
func GetScope(scope string) *Logger {
	return &Logger{scope: scope}
}

// Sync flushes the global logger.
func Sync() error {
	return global.Load().Sync()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Zap returns the underlying zap logger for this scope.
func (l *Logger) Zap() *zap.Logger {
	base := global.Load()
	if l == nil || l.scope == "" {
		return base
	}
	return base.Named(l.scope)
}

// Sugar returns the sugar logger for key-value style logging
func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.Zap().Sugar()
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.Zap().Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.Zap().Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.Zap().Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.Zap().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.Zap().Fatal(msg, fields...)
}
