package log_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/near/near-jsonrpc-go/pkg/log"
)

type captureSyncer struct {
	lines [][]byte
}

func (c *captureSyncer) Write(p []byte) (int, error) {
	c.lines = append(c.lines, append([]byte(nil), p...))
	return len(p), nil
}

func (c *captureSyncer) Sync() error { return nil }

func (c *captureSyncer) last(t *testing.T) map[string]any {
	t.Helper()
	require.NotEmpty(t, c.lines)
	entry := make(map[string]any)
	require.NoError(t, json.Unmarshal(c.lines[len(c.lines)-1], &entry))
	return entry
}

func TestZapLogger_JSON(t *testing.T) {
	t.Parallel()

	sink := &captureSyncer{}
	lg := log.NewZapLogger(log.Config{Format: "json", Level: log.LevelDebug}, sink).WithName("client")

	lg.Debug("sending request", "method", "block")
	entry := sink.last(t)
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "client", entry["logger"])
	assert.Equal(t, "sending request", entry["msg"])
	assert.Equal(t, "block", entry["method"])
	assert.True(t, strings.HasPrefix(entry["caller"].(string), "log/log_test.go:"), entry["caller"])

	lg = lg.WithName("http").WithKV("endpoint", "rpc.mainnet.near.org")
	assert.Equal(t, "client.http", lg.Name())
	assert.Equal(t, []any{"endpoint", "rpc.mainnet.near.org"}, lg.GetAllKV())

	lg.Warn("slow response", "ms", 1200)
	entry = sink.last(t)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "client.http", entry["logger"])
	assert.Equal(t, "rpc.mainnet.near.org", entry["endpoint"])
	assert.EqualValues(t, 1200, entry["ms"])

	wrapper := func(msg string) { lg.AddCallerSkip(1).Info(msg) }
	wrapper("through a helper")
	entry = sink.last(t)
	assert.True(t, strings.HasPrefix(entry["caller"].(string), "log/log_test.go:"), entry["caller"])
}

func TestZapLogger_LevelThreshold(t *testing.T) {
	t.Parallel()

	sink := &captureSyncer{}
	lg := log.NewZapLogger(log.Config{Format: "json", Level: log.LevelWarn}, sink)

	lg.Debug("hidden")
	lg.Info("hidden")
	assert.Empty(t, sink.lines)

	lg.Error("shown", "error", errors.New("boom"))
	assert.Equal(t, "boom", sink.last(t)["error"])
}

func TestZapLogger_LogfmtToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "near.log")
	sink := &captureSyncer{}
	lg := log.NewZapLogger(log.Config{Format: "logfmt", Level: log.LevelInfo, Output: path}, sink)

	lg.Info("started", "network", "testnet")
	require.Len(t, sink.lines, 1)
	line := string(sink.lines[0])
	assert.Contains(t, line, "msg=started")
	assert.Contains(t, line, "network=testnet")
	assert.FileExists(t, path)
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, isNoop := log.FromContext(ctx).(log.NoopLogger)
	assert.True(t, isNoop)

	ctx = log.SetContextLogger(ctx, nil)
	_, isNoop = log.FromContext(ctx).(log.NoopLogger)
	assert.True(t, isNoop)

	zl := log.NewZapLogger(log.Config{})
	ctx = log.SetContextLogger(context.Background(), zl)
	_, isZap := log.FromContext(ctx).(*log.ZapLogger)
	assert.True(t, isZap)

	spanCtx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: [16]byte{1},
		SpanID:  [8]byte{1},
	}))
	ctx = log.SetContextLogger(spanCtx, zl)
	_, isSpan := log.FromContext(ctx).(log.SpanLogger)
	assert.True(t, isSpan)
}

func TestSpanLogger(t *testing.T) {
	t.Parallel()

	inner := newMockLogger()
	rec := &mockRecorder{traceID: "trace-1", spanID: "span-1"}
	lg := log.NewSpanLogger(inner, rec).WithName("dialer")
	assert.Equal(t, 1, inner.callerSkip)

	lg.Info("response received", "status", 200)
	assert.Equal(t, log.LevelInfo, inner.last.Level)
	fields := kvMap(inner.last.KeysAndValues)
	assert.Equal(t, "trace-1", fields["traceId"])
	assert.Equal(t, "span-1", fields["spanId"])
	assert.Equal(t, 200, fields["status"])

	assert.Equal(t, "response received", rec.lastName)
	attrs := kvMap(rec.lastAttrs)
	assert.Equal(t, "info", attrs["level"])
	assert.Equal(t, "dialer", attrs["component"])
	assert.Equal(t, 200, attrs["status"])
	assert.False(t, rec.failed)

	lg = lg.WithKV("method", "tx")
	lg.Warn("retrying")
	assert.Equal(t, "tx", kvMap(rec.lastAttrs)["method"])
	assert.False(t, rec.failed)

	lg.Error("request failed")
	assert.True(t, rec.failed)
	assert.Equal(t, log.LevelError, inner.last.Level)
	assert.Equal(t, []any{"method", "tx"}, lg.GetAllKV())

	assert.Equal(t, "dialer", lg.Name())
	lg = lg.AddCallerSkip(2)
	assert.Equal(t, 3, inner.callerSkip)

	lg.Debug("retry scheduled")
	assert.Equal(t, log.LevelDebug, inner.last.Level)
	assert.Equal(t, "debug", kvMap(rec.lastAttrs)["level"])
}

func TestNoopLogger(t *testing.T) {
	t.Parallel()

	lg := log.NewNoopLogger()
	lg.Info("ignored", "k", "v")
	assert.Equal(t, "noop", lg.WithName("x").WithKV("k", 1).AddCallerSkip(3).Name())
	assert.Empty(t, lg.GetAllKV())
}
