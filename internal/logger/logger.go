// Package logger sets up the zap logger shared by the wldtool commands.
// Console lines go to stderr so YAML and reports on stdout stay clean; an
// optional log file rotates through lumberjack.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the process logger. It discards everything until Init runs.
var Log = zap.NewNop()

// Settings selects the level and outputs of a logger.
type Settings struct {
	Level string // debug, info, warn or error

	// File enables a rotating log file. Sizes are in megabytes, ages in days.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	JSON       bool // file lines as JSON objects

	Quiet bool // no console output
}

// New builds a logger from s. An unknown level is an error.
func New(s Settings) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(s.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var cores []zapcore.Core
	if !s.Quiet {
		enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			NameKey:          "logger",
			MessageKey:       "msg",
			EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
			EncodeLevel:      zapcore.CapitalColorLevelEncoder,
			EncodeName:       zapcore.FullNameEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl))
	}
	if s.File != "" {
		cores = append(cores, fileCore(s, lvl))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func fileCore(s Settings, lvl zapcore.Level) zapcore.Core {
	w := &lumberjack.Logger{
		Filename:   s.File,
		MaxSize:    s.MaxSizeMB,
		MaxBackups: s.MaxBackups,
		MaxAge:     s.MaxAgeDays,
		Compress:   s.Compress,
		LocalTime:  true,
	}
	cfg := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	enc := zapcore.NewConsoleEncoder(cfg)
	if s.JSON {
		enc = zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
}

// Init replaces Log with a logger built from s.
func Init(s Settings) error {
	l, err := New(s)
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// InitNop makes Log discard everything.
func InitNop() {
	Log = zap.NewNop()
}

// ForWorld returns a child of Log that tags every entry with the world
// file being worked on.
func ForWorld(path string) *zap.Logger {
	return Log.Named("wld").With(zap.String("world", filepath.Base(path)))
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}

// Timed logs msg on log at info level when the returned func runs, with the
// time elapsed since Timed was called.
func Timed(log *zap.Logger, msg string, fields ...zap.Field) func(extra ...zap.Field) {
	start := time.Now()
	return func(extra ...zap.Field) {
		all := append(append([]zap.Field{}, fields...), extra...)
		log.Info(msg, append(all, zap.Duration("elapsed", time.Since(start)))...)
	}
}

// Info logs on Log.
func Info(msg string, fields ...zap.Field) { Log.Info(msg, fields...) }

// Warn logs on Log.
func Warn(msg string, fields ...zap.Field) { Log.Warn(msg, fields...) }

// Error logs on Log.
func Error(msg string, fields ...zap.Field) { Log.Error(msg, fields...) }
