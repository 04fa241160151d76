// Package logging builds the zap logger shared by the binaries and adapts it
// to Temporal's logger interface.
package logging

import (
	"fmt"

	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a JSON logger in production and a console logger otherwise
func New(level string, production bool) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	if production {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// TemporalLogger satisfies go.temporal.io/sdk/log.Logger with a zap logger
type TemporalLogger struct {
	sugar *zap.SugaredLogger
}

var (
	_ log.Logger     = (*TemporalLogger)(nil)
	_ log.WithLogger = (*TemporalLogger)(nil)
)

// NewTemporalLogger wraps l for use as client.Options.Logger
func NewTemporalLogger(l *zap.Logger) *TemporalLogger {
	return &TemporalLogger{sugar: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (t *TemporalLogger) Debug(msg string, keyvals ...interface{}) {
	t.sugar.Debugw(msg, keyvals...)
}

func (t *TemporalLogger) Info(msg string, keyvals ...interface{}) {
	t.sugar.Infow(msg, keyvals...)
}

func (t *TemporalLogger) Warn(msg string, keyvals ...interface{}) {
	t.sugar.Warnw(msg, keyvals...)
}

func (t *TemporalLogger) Error(msg string, keyvals ...interface{}) {
	t.sugar.Errorw(msg, keyvals...)
}

func (t *TemporalLogger) With(keyvals ...interface{}) log.Logger {
	return &TemporalLogger{sugar: t.sugar.With(keyvals...)}
}
