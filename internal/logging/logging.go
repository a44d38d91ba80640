// Package logging builds the diagnostic logger used across the tool.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where diagnostics go.
type Options struct {
	Verbose bool   // debug level on the console instead of warn
	File    string // optional JSON log file, always at debug level
	Console io.Writer
}

// New returns a logger and a cleanup function that flushes and closes it.
func New(opts Options) (*zap.Logger, func() error, error) {
	out := opts.Console
	if out == nil {
		out = os.Stderr
	}

	level := zapcore.WarnLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(out), level),
	}

	var file *os.File
	if opts.File != "" {
		var err error
		file, err = os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(file),
			zapcore.DebugLevel,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...))

	cleanup := func() error {
		// Sync on a terminal returns EINVAL on some platforms; only the
		// file sink's errors matter.
		_ = logger.Sync()
		if file != nil {
			return multierr.Append(file.Sync(), file.Close())
		}
		return nil
	}
	return logger, cleanup, nil
}
