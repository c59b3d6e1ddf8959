package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := New(nil, Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewBuildsLogger(t *testing.T) {
	log, err := New(nil, Config{Level: "debug", Format: "console", ServiceName: "billium"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}

func TestWithContextAddsTraceFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := zap.New(core)

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	WithContext(ctx, base).Info("traced")
	WithContext(context.Background(), base).Info("untraced")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, traceID.String(), entries[0].ContextMap()["trace_id"])
	assert.NotContains(t, entries[1].ContextMap(), "trace_id")
}

func TestWithJob(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	WithJob(zap.New(core), " 42 ").Info("export")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "42", logs.All()[0].ContextMap()["job_id"])
	assert.Nil(t, WithJob(nil, "1"))
}
