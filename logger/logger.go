package logger

import (
	"context"
	"log/slog"
	"os"
)

// Logger is the logging contract used across the module. Args are slog style
// key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// LoggerEnabled turns every DefaultLogger on or off.
var LoggerEnabled = true

type DefaultLogger struct {
	name string
	log  *slog.Logger
}

// NewDefaultLogger writes text records to stderr, tagged with component=name.
func NewDefaultLogger(name string) *DefaultLogger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewLogger(slog.New(handler), name)
}

// NewLogger wraps an existing slog logger. A nil logger uses slog.Default.
func NewLogger(l *slog.Logger, name string) *DefaultLogger {
	if l == nil {
		l = slog.Default()
	}
	if name != "" {
		l = l.With("component", name)
	}
	return &DefaultLogger{name: name, log: l}
}

func (d *DefaultLogger) Debug(msg string, args ...any) {
	if LoggerEnabled {
		d.log.Debug(msg, args...)
	}
}

func (d *DefaultLogger) Info(msg string, args ...any) {
	if LoggerEnabled {
		d.log.Info(msg, args...)
	}
}

func (d *DefaultLogger) Error(msg string, args ...any) {
	if LoggerEnabled {
		d.log.Error(msg, args...)
	}
}

type ctxKey struct{}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or fallback when there is none.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(Logger); ok && l != nil {
			return l
		}
	}
	return fallback
}
