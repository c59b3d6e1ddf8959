package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestNewProviderDisabled(t *testing.T) {
	provider, err := NewProvider(nil, Config{ServiceName: "billium", SamplingRatio: 1}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, provider)
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProviderRejectsUnknownProtocol(t *testing.T) {
	_, err := NewProvider(nil, Config{Enabled: true, ExporterProtocol: "carrier-pigeon"}, zap.NewNop())
	assert.Error(t, err)
}

func TestEndRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	_, ok := tracer.Start(context.Background(), "ok")
	End(ok, nil)
	_, failed := tracer.Start(context.Background(), "failed")
	End(failed, errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}
