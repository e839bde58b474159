// Package logger is the zap-backed structured logger. Request-scoped fields
// (trace ids, the party being ordered for) are picked up from the context.
package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appctx "orderdesk/internal/core/context"
)

type Logger struct {
	*zap.SugaredLogger
}

type loggerKey struct{}

type Config struct {
	Level       string // debug, info, warn, error; anything else means info
	Development bool   // console encoder with colored levels
	OutputPaths []string
}

func (cfg Config) zapConfig() zap.Config {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}
	return zc
}

func New(cfg Config) (*Logger, error) {
	z, err := cfg.zapConfig().Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{z.Sugar()}, nil
}

// NewNop discards everything.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default is the info-level stdout logger used when no logger is on the
// context.
func Default() *Logger {
	defaultOnce.Do(func() {
		l, err := New(Config{Level: "info", OutputPaths: []string{"stdout"}})
		if err != nil {
			l = NewNop()
		}
		defaultLogger = l
	})
	return defaultLogger
}

// WithContext attaches the request-scoped fields of ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if kv := appctx.LogFields(ctx); len(kv) > 0 {
		return l.With(kv...)
	}
	return l
}

func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{l.SugaredLogger.With(keysAndValues...)}
}

// WithComponent tags lines with the subsystem that wrote them.
func (l *Logger) WithComponent(name string) *Logger {
	return l.With("component", name)
}

func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the context's logger, or Default, with the request
// fields attached.
func FromContext(ctx context.Context) *Logger {
	l, ok := ctx.Value(loggerKey{}).(*Logger)
	if !ok {
		l = Default()
	}
	return l.WithContext(ctx)
}

func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	FromContext(ctx).Debugw(msg, keysAndValues...)
}

func Info(ctx context.Context, msg string, keysAndValues ...any) {
	FromContext(ctx).Infow(msg, keysAndValues...)
}

func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	FromContext(ctx).Warnw(msg, keysAndValues...)
}

func Error(ctx context.Context, msg string, keysAndValues ...any) {
	FromContext(ctx).Errorw(msg, keysAndValues...)
}

// Fatal logs and exits the process.
func Fatal(ctx context.Context, msg string, keysAndValues ...any) {
	FromContext(ctx).Fatalw(msg, keysAndValues...)
}
