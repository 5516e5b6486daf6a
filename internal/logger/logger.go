// Package logger wraps zap with the fields and constructors the rest of
// the fleet's services use: service/environment tags baked in at
// construction, context propagation, and a handful of With* helpers.
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

type ctxKey struct{}

// New creates a service logger. environment selects production vs
// development encoder config; level is one of debug/info/warn/error.
func New(serviceName, environment, level string) (*Logger, error) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	switch level {
	case "debug":
		cfg.Level.SetLevel(zapcore.DebugLevel)
	case "warn":
		cfg.Level.SetLevel(zapcore.WarnLevel)
	case "error":
		cfg.Level.SetLevel(zapcore.ErrorLevel)
	default:
		cfg.Level.SetLevel(zapcore.InfoLevel)
	}

	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := cfg.Build(
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("service", serviceName),
			zap.String("environment", environment),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Logger{zl.Sugar()}, nil
}

// Default builds a development logger, falling back to zap's bare
// development config if construction somehow fails.
func Default() *Logger {
	l, err := New("tripplanner", "development", "debug")
	if err != nil {
		zl, _ := zap.NewDevelopment()
		return &Logger{zl.Sugar()}
	}
	return l
}

// WithContext returns the logger stored in ctx, or Default() if none.
func WithContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Default()
}

// ToContext attaches l to ctx.
func ToContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithFields returns a derived logger carrying the given key/value pairs.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{l.SugaredLogger.With(args...)}
}

// WithRequestID returns a derived logger tagged with a request ID.
func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{l.SugaredLogger.With("request_id", id)}
}

// WithError returns a derived logger carrying the error's message.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{l.SugaredLogger.With("error", err.Error())}
}

// Fatal logs at fatal level and exits the process.
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.SugaredLogger.Fatalw(msg, args...)
	os.Exit(1)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.SugaredLogger.Sync()
}
