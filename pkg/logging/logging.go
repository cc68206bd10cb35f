// Package logging builds the console's file logger. Logs never go to the
// terminal: the TUI owns it.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options control the log file destination and verbosity.
type Options struct {
	Path    string
	Debug   bool
	MaxSize int // megabytes per file before rotation
	MaxAge  int // days to keep rotated files
}

// New returns a JSON file logger with rotation. An empty path disables
// logging entirely.
func New(opts Options) (*zap.Logger, error) {
	if opts.Path == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, err
	}

	if opts.MaxSize <= 0 {
		opts.MaxSize = 10
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 28
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSize,
		MaxAge:     opts.MaxAge,
		MaxBackups: 3,
		Compress:   true,
	})

	level := zap.InfoLevel
	if opts.Debug {
		level = zap.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)
	return zap.New(core), nil
}
