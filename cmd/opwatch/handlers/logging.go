package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WithLogger returns ctx carrying a zap backed logger. Verbosity 1 enables
// the per-attempt debug lines of the polling engine.
func WithLogger(ctx context.Context, verbosity int) (context.Context, error) {
	logger, err := newLogger(verbosity)
	if err != nil {
		return ctx, err
	}
	return logr.NewContext(ctx, logger), nil
}

func newLogger(verbosity int) (logr.Logger, error) {
	if verbosity < 0 {
		return logr.Discard(), fmt.Errorf("verbosity must not be negative, got %d", verbosity)
	}

	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	zc.DisableStacktrace = verbosity == 0

	zl, err := zc.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("failed to build logger: %w", err)
	}
	return zapr.NewLogger(zl), nil
}
