// Package logger wraps a process-wide zap logger with optional file rotation.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// L is the global sugared logger.
	L *zap.SugaredLogger
	// Z is the global structured logger.
	Z *zap.Logger
)

func init() {
	z, _ := zap.NewProduction()
	Z = z
	L = z.Sugar()
}

// Config controls level and output.
type Config struct {
	Level      string // debug, info, warn, error
	File       string // empty logs to stderr only
	MaxSize    int    // megabytes per file
	MaxBackups int
	MaxAge     int // days
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unsupported log level: %s", level)
	}
}

// Init replaces the global logger according to cfg. Console output always
// goes to stderr so feeds written to stdout stay clean.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var output io.Writer = os.Stderr
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		output = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    positive(cfg.MaxSize, 16),
			MaxBackups: positive(cfg.MaxBackups, 3),
			MaxAge:     positive(cfg.MaxAge, 14),
			Compress:   true,
		})
	}

	New(output, level)
	return nil
}

// New installs a console logger writing to w. Tests use it to capture logs.
func New(w io.Writer, level zapcore.Level) *zap.Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(w), level)

	Z = zap.New(core, zap.AddCallerSkip(1))
	L = Z.Sugar()
	return Z
}

func positive(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

// Sync flushes buffered entries; call it before exit.
func Sync() {
	if Z != nil {
		_ = Z.Sync()
	}
}

// Debugf logs at debug level.
func Debugf(template string, args ...interface{}) { L.Debugf(template, args...) }

// Infof logs at info level.
func Infof(template string, args ...interface{}) { L.Infof(template, args...) }

// Warnf logs at warn level.
func Warnf(template string, args ...interface{}) { L.Warnf(template, args...) }

// Errorf logs at error level.
func Errorf(template string, args ...interface{}) { L.Errorf(template, args...) }
