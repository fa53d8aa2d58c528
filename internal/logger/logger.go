// Package logger provides the structured logger shared by every task in the
// beacon process: the supervisor's capture and processing tasks, transport,
// the link layer and the config store all log through the same zap instance
// so operator-facing console output and the on-disk audit trail stay in
// lockstep. The HMI logs through its own charmbracelet/log instance.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance. It discards everything until
// Initialize replaces it.
var Log = zap.NewNop()

// SugaredLog supports printf-style logging for call sites that don't need
// structured fields.
var SugaredLog = Log.Sugar()

// Initialize sets up the structured logger with file rotation.
// logLevel: "debug", "info", "warn", "error" (default: "info").
// logFile: path to log file (default: "beacon.log").
func Initialize(logLevel string, logFile string) error {
	if logFile == "" {
		logFile = "beacon.log"
	}
	if logLevel == "" {
		logLevel = "info"
	}

	level := parseLogLevel(logLevel)

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    20, // megabytes; the device has modest flash, rotate early
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	})

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	jsonEncoderConfig := zap.NewProductionEncoderConfig()
	jsonEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonEncoder := zapcore.NewJSONEncoder(jsonEncoderConfig)

	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)
	fileCore := zapcore.NewCore(jsonEncoder, fileWriter, level)

	core := zapcore.NewTee(consoleCore, fileCore)

	Log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	SugaredLog = Log.Sugar()

	Log.Info("logger initialized", zap.String("level", logLevel), zap.String("file", logFile))

	return nil
}

// Close flushes the logger before shutdown.
func Close() error {
	if Log != nil {
		return Log.Sync()
	}
	return nil
}

func parseLogLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
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

// InfoWithFields logs an info message with structured fields.
func InfoWithFields(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message with structured fields.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// WarnWithFields logs a warning message, optionally with an error.
func WarnWithFields(msg string, err error) {
	if err != nil {
		Log.Warn(msg, zap.Error(err))
	} else {
		Log.Warn(msg)
	}
}

// ErrorWithFields logs an error message with an error.
func ErrorWithFields(msg string, err error) {
	if err != nil {
		Log.Error(msg, zap.Error(err))
	} else {
		Log.Error(msg)
	}
}

// Error logs an error with structured fields.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// DebugWithFields logs a debug message with structured fields.
func DebugWithFields(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// FatalWithFields logs a fatal hardware error and halts the process — the
// device requires a physical reset per spec §7.
func FatalWithFields(msg string, err error) {
	if err != nil {
		Log.Fatal(msg, zap.Error(err))
	} else {
		Log.Fatal(msg)
	}
}

func Infof(format string, args ...interface{})  { SugaredLog.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { SugaredLog.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { SugaredLog.Errorf(format, args...) }
func Debugf(format string, args ...interface{}) { SugaredLog.Debugf(format, args...) }
func Fatalf(format string, args ...interface{}) { SugaredLog.Fatalf(format, args...) }

// Field helpers for structured log lines (used by the pipeline package).

func WithState(state string) zap.Field      { return zap.String("state", state) }
func WithWindowID(id string) zap.Field      { return zap.String("window_id", id) }
func WithConfidence(c float64) zap.Field    { return zap.Float64("confidence", c) }
func WithHash(hash string) zap.Field        { return zap.String("hash", hash) }
func WithStatus(status int) zap.Field       { return zap.Int("status", status) }
func WithDuration(d interface{}) zap.Field  { return zap.Any("duration", d) }
func WithSampleRate(rate int) zap.Field     { return zap.Int("sample_rate", rate) }
func WithQualityLevel(level int) zap.Field  { return zap.Int("quality_level", level) }
