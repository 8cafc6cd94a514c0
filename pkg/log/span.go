package log

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	_ Logger            = SpanLogger{}
	_ SpanEventRecorder = (*OtelSpanEventRecorder)(nil)
)

// SpanLogger forwards entries to a Logger and mirrors them as span events.
// Entries sent to the Logger gain traceId and spanId fields; span events gain
// level, component and the logger's persistent pairs.
type SpanLogger struct {
	lg  Logger
	ser SpanEventRecorder
}

// NewSpanLogger wraps lg so that its entries are recorded through ser.
func NewSpanLogger(lg Logger, ser SpanEventRecorder) Logger {
	return SpanLogger{lg: lg.AddCallerSkip(1), ser: ser}
}

// Debug logs a debug entry and records it as a span event.
func (sl SpanLogger) Debug(msg string, keysAndValues ...any) {
	sl.ser.RecordEvent(msg, sl.eventAttrs(LevelDebug, keysAndValues)...)
	sl.lg.Debug(msg, sl.traceAttrs(keysAndValues)...)
}

// Info logs an info entry and records it as a span event.
func (sl SpanLogger) Info(msg string, keysAndValues ...any) {
	sl.ser.RecordEvent(msg, sl.eventAttrs(LevelInfo, keysAndValues)...)
	sl.lg.Info(msg, sl.traceAttrs(keysAndValues)...)
}

// Warn logs a warning entry and records it as a span event.
func (sl SpanLogger) Warn(msg string, keysAndValues ...any) {
	sl.ser.RecordEvent(msg, sl.eventAttrs(LevelWarn, keysAndValues)...)
	sl.lg.Warn(msg, sl.traceAttrs(keysAndValues)...)
}

// Error logs an error entry and marks the span as failed.
func (sl SpanLogger) Error(msg string, keysAndValues ...any) {
	sl.ser.RecordError(msg, sl.eventAttrs(LevelError, keysAndValues)...)
	sl.lg.Error(msg, sl.traceAttrs(keysAndValues)...)
}

// Fatal logs a fatal entry, marks the span as failed and exits.
func (sl SpanLogger) Fatal(msg string, keysAndValues ...any) {
	sl.ser.RecordError(msg, sl.eventAttrs(LevelFatal, keysAndValues)...)
	sl.lg.Fatal(msg, sl.traceAttrs(keysAndValues)...)
}

// WithKV returns a SpanLogger whose wrapped logger carries the extra pair.
func (sl SpanLogger) WithKV(key string, value any) Logger {
	return SpanLogger{lg: sl.lg.WithKV(key, value), ser: sl.ser}
}

// GetAllKV returns the pairs of the wrapped logger.
func (sl SpanLogger) GetAllKV() []any { return sl.lg.GetAllKV() }

// WithName returns a SpanLogger whose wrapped logger has the given name.
func (sl SpanLogger) WithName(name string) Logger {
	return SpanLogger{lg: sl.lg.WithName(name), ser: sl.ser}
}

// Name returns the name of the wrapped logger.
func (sl SpanLogger) Name() string { return sl.lg.Name() }

// AddCallerSkip returns a SpanLogger that skips more frames when reporting the caller.
func (sl SpanLogger) AddCallerSkip(skip int) Logger {
	return SpanLogger{lg: sl.lg.AddCallerSkip(skip), ser: sl.ser}
}

func (sl SpanLogger) traceAttrs(keysAndValues []any) []any {
	out := make([]any, 0, len(keysAndValues)+4)
	out = append(out, "traceId", sl.ser.TraceID(), "spanId", sl.ser.SpanID())
	return append(out, keysAndValues...)
}

func (sl SpanLogger) eventAttrs(level Level, keysAndValues []any) []any {
	persistent := sl.lg.GetAllKV()
	out := make([]any, 0, len(persistent)+len(keysAndValues)+4)
	out = append(out, "level", string(level), "component", sl.lg.Name())
	out = append(out, persistent...)
	return append(out, keysAndValues...)
}

// OtelSpanEventRecorder records events on an OpenTelemetry span.
type OtelSpanEventRecorder struct {
	span trace.Span
}

// NewOtelSpanEventRecorder returns a recorder for span.
func NewOtelSpanEventRecorder(span trace.Span) *OtelSpanEventRecorder {
	return &OtelSpanEventRecorder{span: span}
}

// TraceID returns the hex trace id of the span.
func (r *OtelSpanEventRecorder) TraceID() string { return r.span.SpanContext().TraceID().String() }
// SpanID returns the hex span id of the span.
func (r *OtelSpanEventRecorder) SpanID() string  { return r.span.SpanContext().SpanID().String() }

// RecordEvent implements SpanEventRecorder.
func (r *OtelSpanEventRecorder) RecordEvent(name string, keysAndValues ...any) {
	r.span.AddEvent(name, trace.WithAttributes(toAttributes(keysAndValues)...))
}

// RecordError implements SpanEventRecorder. The span status becomes Error
// with name as its description.
func (r *OtelSpanEventRecorder) RecordError(name string, keysAndValues ...any) {
	r.span.AddEvent(name, trace.WithAttributes(toAttributes(keysAndValues)...))
	r.span.SetStatus(codes.Error, name)
}

const (
	missingValue  = "MISSING"
	badKeysMarker = "invalidKeysAndValues"
)

// toAttributes converts alternating keys and values to span attributes.
// A dangling key gets the value MISSING. A non-string key ends the
// conversion and the remainder is kept as one string attribute.
func toAttributes(keysAndValues []any) []attribute.KeyValue {
	if len(keysAndValues)%2 != 0 {
		keysAndValues = append(keysAndValues, missingValue)
	}

	attrs := make([]attribute.KeyValue, 0, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			attrs = append(attrs, attribute.String(badKeysMarker, fmt.Sprint(keysAndValues[i:])))
			break
		}
		attrs = append(attrs, toAttribute(key, keysAndValues[i+1]))
	}
	return attrs
}

func toAttribute(key string, v any) attribute.KeyValue {
	switch v := v.(type) {
	case bool:
		return attribute.Bool(key, v)
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int8:
		return attribute.Int64(key, int64(v))
	case int16:
		return attribute.Int64(key, int64(v))
	case int32:
		return attribute.Int64(key, int64(v))
	case int64:
		return attribute.Int64(key, v)
	case uint8:
		return attribute.Int64(key, int64(v))
	case uint16:
		return attribute.Int64(key, int64(v))
	case uint32:
		return attribute.Int64(key, int64(v))
	case float32:
		return attribute.Float64(key, float64(v))
	case float64:
		return attribute.Float64(key, v)
	case error:
		return attribute.String(key, v.Error())
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
