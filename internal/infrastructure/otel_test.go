package infrastructure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetmetrics/internal/config"
)

func TestInitializeOTel_Disabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "test",
		TraceExporter:  "none",
		MetricExporter: "none",
	}, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)
	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)

	// No-op instruments still work
	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	RecordSheetFetch(context.Background(), metrics, time.Millisecond, "success")

	_, span := providers.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_Defaults(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	// Default configuration exports metrics only
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.PrometheusHTTP)
}

func TestInitializeOTel_StdoutTracing(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "test",
		ServiceVersion: "1.0.0",
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    1.0,
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.TracerProvider)

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger"}, discardLogger())
	assert.ErrorContains(t, err, "unsupported trace exporter")

	_, err = InitializeOTel(&OTelConfig{MetricExporter: "statsd"}, discardLogger())
	assert.ErrorContains(t, err, "unsupported metric exporter")
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(NewOTelConfig(config.Default().Observability), discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordSheetFetch(ctx, metrics, 20*time.Millisecond, "success")
	RecordTransform(ctx, metrics, 12, 1, 3)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, "sheet_fetches_total")
	assert.Contains(t, text, `outcome="success"`)
	assert.Contains(t, text, "sheet_fetch_duration_seconds")
	assert.Contains(t, text, "sheet_rows_processed_total")
	assert.Contains(t, text, "metrics_produced_total")
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordSheetFetch(context.Background(), nil, time.Second, "success")
		RecordTransform(context.Background(), nil, 1, 0, 1)
	})
}

func TestNewOTelConfig(t *testing.T) {
	obs := config.Default().Observability
	obs.Environment = "production"

	cfg := NewOTelConfig(obs)

	assert.Equal(t, "sheetmetrics", cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.NotEmpty(t, cfg.ServiceVersion)
	assert.Equal(t, obs.SampleRatio, cfg.SampleRatio)
}
