package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func TestObservability_Spans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	obs := New("storefront-admin-test", zaptest.NewLogger(t), sdktrace.WithSyncer(exporter))
	ctx := context.Background()

	_, ok := obs.StartSpan(ctx, "answer", attribute.String("intent", "order_count"))
	EndSpan(ok, nil)

	_, failed := obs.StartSpan(ctx, "load")
	EndSpan(failed, errors.New("connection refused"))

	obs.RecordJobProcessed(ctx, "answer-admin-query", "completed")
	obs.RecordJobDuration(ctx, "answer-admin-query", 15*time.Millisecond, "completed")

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "answer", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.String("intent", "order_count"))
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Equal(t, "load", spans[1].Name)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Len(t, spans[1].Events, 1, "error recorded as event")

	assert.NoError(t, obs.Shutdown(ctx))
}

func TestTracer_NilObservability(t *testing.T) {
	var obs *Observability
	assert.NotNil(t, obs.Tracer())
}
