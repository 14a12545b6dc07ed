package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"sheetmetrics/internal/config"
	"sheetmetrics/internal/dataprocessing"
	apperrors "sheetmetrics/internal/errors"
	"sheetmetrics/internal/infrastructure"
	"sheetmetrics/pkg/contracts/domain"
)

// SheetFetcher returns the raw values grid of the metrics sheet, header row
// first
type SheetFetcher interface {
	FetchValues(ctx context.Context) ([][]string, error)
}

// MetricsService validates configuration, fetches the sheet and reshapes it
type MetricsService struct {
	fetcher     SheetFetcher
	sheets      config.SheetsConfig
	transformer *dataprocessing.Transformer
	tracer      trace.Tracer
	metrics     *infrastructure.BusinessMetrics
	logger      *slog.Logger
}

// MetricsServiceOption configures a MetricsService
type MetricsServiceOption func(*MetricsService)

// WithTransformer replaces the default transformer, typically to fix its clock
func WithTransformer(t *dataprocessing.Transformer) MetricsServiceOption {
	return func(s *MetricsService) { s.transformer = t }
}

// WithTracer sets the tracer used for service spans
func WithTracer(tracer trace.Tracer) MetricsServiceOption {
	return func(s *MetricsService) { s.tracer = tracer }
}

// WithBusinessMetrics records transformation sizes on m
func WithBusinessMetrics(m *infrastructure.BusinessMetrics) MetricsServiceOption {
	return func(s *MetricsService) { s.metrics = m }
}

// NewMetricsService creates a new metrics service
func NewMetricsService(fetcher SheetFetcher, sheets config.SheetsConfig, logger *slog.Logger, opts ...MetricsServiceOption) *MetricsService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &MetricsService{
		fetcher:     fetcher,
		sheets:      sheets,
		transformer: dataprocessing.NewTransformer(),
		tracer:      noop.NewTracerProvider().Tracer(""),
		logger:      logger.With(slog.String("component", "metrics_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetMetrics returns the weekly metrics envelope. Missing sheet settings
// fail before any outbound call. Every error is an *errors.Error.
func (s *MetricsService) GetMetrics(ctx context.Context) (*domain.MetricsEnvelope, error) {
	ctx, span := s.tracer.Start(ctx, "metrics.get")
	defer span.End()

	if err := s.sheets.Validate(); err != nil {
		appErr := apperrors.NewConfigError(err)
		s.fail(span, appErr)
		return nil, appErr
	}

	grid, err := s.fetcher.FetchValues(ctx)
	if err != nil {
		var appErr *apperrors.Error
		if !errors.As(err, &appErr) {
			appErr = apperrors.NewUpstreamRequestError(err)
		}
		s.fail(span, appErr)
		return nil, appErr
	}

	headers, rows, err := dataprocessing.SplitTable(grid)
	if err != nil {
		appErr := apperrors.NewEmptyDataError()
		s.fail(span, appErr)
		return nil, appErr
	}

	envelope := s.transform(ctx, headers, rows)
	span.SetStatus(codes.Ok, "")

	return envelope, nil
}

func (s *MetricsService) transform(ctx context.Context, headers []string, rows [][]string) *domain.MetricsEnvelope {
	ctx, span := s.tracer.Start(ctx, "metrics.transform",
		trace.WithAttributes(attribute.Int("sheet.rows", len(rows))),
	)
	defer span.End()

	start := time.Now()
	envelope, stats := s.transformer.Transform(headers, rows)

	span.SetAttributes(
		attribute.Int("metrics.count", stats.Metrics),
		attribute.Int("sheet.rows_skipped", stats.SkippedRows),
		attribute.Int("sheet.weeks_dropped", stats.DroppedWeeks),
	)
	infrastructure.RecordTransform(ctx, s.metrics, stats.Rows, stats.SkippedRows, stats.Metrics)

	s.logger.InfoContext(ctx, "metrics transformed",
		slog.String("week_ending", envelope.WeekEnding),
		slog.Int("rows", stats.Rows),
		slog.Int("skipped_rows", stats.SkippedRows),
		slog.Int("ignored_periods", stats.IgnoredPeriods),
		slog.Int("dropped_weeks", stats.DroppedWeeks),
		slog.Int("metrics", stats.Metrics),
		slog.Int("historical_points", stats.HistoricalPoints),
		slog.Duration("duration", time.Since(start)),
	)

	return envelope
}

func (s *MetricsService) fail(span trace.Span, err *apperrors.Error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Message)
	span.SetAttributes(attribute.String("error.kind", string(err.Kind)))
}
