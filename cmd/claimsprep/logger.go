package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds a JSON production logger, or a console logger if dev is set.
func newLogger(level string, dev bool) (*zap.Logger, error) {
	var (
		lvl zapcore.Level
		e   error
	)
	if lvl, e = zapcore.ParseLevel(level); e != nil {
		return nil, fmt.Errorf("log level: %w", e)
	}

	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	// diagnostics go to stderr so that stdout carries only command output
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}
