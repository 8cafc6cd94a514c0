package log_test

import "github.com/near/near-jsonrpc-go/pkg/log"

var (
	_ log.Logger            = (*mockLogger)(nil)
	_ log.SpanEventRecorder = (*mockRecorder)(nil)
)

type logEntry struct {
	Level         log.Level
	Message       string
	KeysAndValues []any
}

// mockLogger keeps the last entry and mutates itself on WithKV and WithName
// so tests can observe what a wrapper passed down.
type mockLogger struct {
	last          logEntry
	name          string
	keysAndValues []any
	callerSkip    int
}

func newMockLogger() *mockLogger {
	return &mockLogger{name: "mock"}
}

func (ml *mockLogger) Debug(msg string, kv ...any) { ml.record(log.LevelDebug, msg, kv) }
func (ml *mockLogger) Info(msg string, kv ...any)  { ml.record(log.LevelInfo, msg, kv) }
func (ml *mockLogger) Warn(msg string, kv ...any)  { ml.record(log.LevelWarn, msg, kv) }
func (ml *mockLogger) Error(msg string, kv ...any) { ml.record(log.LevelError, msg, kv) }
func (ml *mockLogger) Fatal(msg string, kv ...any) { ml.record(log.LevelFatal, msg, kv) }

func (ml *mockLogger) WithKV(key string, value any) log.Logger {
	ml.keysAndValues = append(ml.keysAndValues, key, value)
	return ml
}

func (ml *mockLogger) GetAllKV() []any { return ml.keysAndValues }

func (ml *mockLogger) WithName(name string) log.Logger {
	ml.name = name
	return ml
}

func (ml *mockLogger) Name() string { return ml.name }

func (ml *mockLogger) AddCallerSkip(skip int) log.Logger {
	ml.callerSkip += skip
	return ml
}

func (ml *mockLogger) record(level log.Level, msg string, kv []any) {
	all := append(append([]any{}, ml.keysAndValues...), kv...)
	ml.last = logEntry{Level: level, Message: msg, KeysAndValues: all}
}

type mockRecorder struct {
	traceID, spanID string
	failed          bool
	lastName        string
	lastAttrs       []any
}

func (r *mockRecorder) TraceID() string { return r.traceID }
func (r *mockRecorder) SpanID() string  { return r.spanID }

func (r *mockRecorder) RecordEvent(name string, kv ...any) {
	r.lastName, r.lastAttrs = name, kv
}

func (r *mockRecorder) RecordError(name string, kv ...any) {
	r.failed = true
	r.lastName, r.lastAttrs = name, kv
}

func kvMap(kv []any) map[string]any {
	out := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			out[k] = kv[i+1]
		}
	}
	return out
}
