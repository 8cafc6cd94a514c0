// Package log is the structured logging facade used across the module.
//
// Loggers are passed explicitly or carried in a context.Context:
//
//	lg := log.NewZapLogger(cfg).WithName("nearrpc")
//	ctx = log.SetContextLogger(ctx, lg)
//	...
//	log.FromContext(ctx).Debug("sending request", "method", "block")
//
// When the context holds a recording OpenTelemetry span, SetContextLogger
// wraps the logger so every entry is also attached to the span as an event,
// and entries logged at Error or above mark the span as failed.
package log

// Logger writes leveled, structured log entries. Arguments after the message
// are alternating keys and values.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	Fatal(msg string, keysAndValues ...any)

	// WithKV returns a logger that adds key and value to every entry.
	WithKV(key string, value any) Logger
	// GetAllKV returns the pairs added with WithKV, oldest first.
	GetAllKV() []any
	// WithName returns a logger for a named component. Names nest with dots.
	WithName(name string) Logger
	Name() string
	// AddCallerSkip returns a logger that reports its caller skip frames higher.
	// Implementations without caller reporting return themselves.
	AddCallerSkip(skip int) Logger
}

// Level is the severity of an entry.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// SpanEventRecorder attaches log entries to a trace span.
type SpanEventRecorder interface {
	TraceID() string
	SpanID() string

	// RecordEvent adds an event with the given attributes.
	RecordEvent(name string, keysAndValues ...any)
	// RecordError adds an event and marks the span as failed.
	RecordError(name string, keysAndValues ...any)
}
