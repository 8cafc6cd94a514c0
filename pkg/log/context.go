package log

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type contextKey struct{}

// SetContextLogger returns a copy of ctx carrying lg. A nil lg stores a
// NoopLogger. If ctx holds a valid span, lg is wrapped in a SpanLogger.
func SetContextLogger(ctx context.Context, lg Logger) context.Context {
	if lg == nil {
		lg = NewNoopLogger()
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		lg = NewSpanLogger(lg, NewOtelSpanEventRecorder(span))
	}
	return context.WithValue(ctx, contextKey{}, lg)
}

// FromContext returns the logger stored in ctx, or a NoopLogger.
func FromContext(ctx context.Context) Logger {
	if lg, ok := ctx.Value(contextKey{}).(Logger); ok {
		return lg
	}
	return NewNoopLogger()
}

var _ Logger = NoopLogger{}

// NoopLogger discards everything.
type NoopLogger struct{}

// NewNoopLogger returns a logger that discards everything.
func NewNoopLogger() Logger { return NoopLogger{} }

func (NoopLogger) Debug(string, ...any)         {}
func (NoopLogger) Info(string, ...any)          {}
func (NoopLogger) Warn(string, ...any)          {}
func (NoopLogger) Error(string, ...any)         {}
func (NoopLogger) Fatal(string, ...any)         {}
func (n NoopLogger) WithKV(string, any) Logger  { return n }
func (NoopLogger) GetAllKV() []any              { return nil }
func (n NoopLogger) WithName(string) Logger     { return n }
func (NoopLogger) Name() string                 { return "noop" }
func (n NoopLogger) AddCallerSkip(int) Logger   { return n }
