package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"sheetmetrics/internal/config"
	"sheetmetrics/internal/dataprocessing"
	apperrors "sheetmetrics/internal/errors"
	"sheetmetrics/internal/infrastructure"
)

// Fetch outcomes recorded on the sheet fetch metrics
const (
	OutcomeSuccess  = "success"
	OutcomeUpstream = "upstream_error"
	OutcomeEmpty    = "empty"
	OutcomeConfig   = "config_error"
)

// Client reads one A1 range of one spreadsheet with a static API key
type Client struct {
	service *gsheets.Service
	cfg     config.SheetsConfig
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	base    http.RoundTripper
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTracer sets the tracer used for fetch spans
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) { c.tracer = tracer }
}

// WithMetrics records fetch counts and durations on m
func WithMetrics(m *infrastructure.BusinessMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTransport replaces the base round tripper under the API key and
// tracing layers
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.base = rt }
}

// NewClient builds a Sheets values client. Missing sheet settings are not an
// error here; FetchValues reports them per call.
func NewClient(ctx context.Context, cfg config.SheetsConfig, opts ...Option) (*Client, error) {
	c := &Client{
		cfg:    cfg,
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer(""),
		base:   http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "sheets_client"))

	httpClient := &http.Client{
		Transport: &transport.APIKey{
			Key:       cfg.APIKey,
			Transport: otelhttp.NewTransport(c.base),
		},
		Timeout: cfg.Timeout,
	}

	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = config.DefaultSheetsBaseURL
	}

	service, err := gsheets.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	c.service = service

	return c, nil
}

// FetchValues returns the configured range as a grid of display strings,
// header row first. Every failure is an *errors.Error.
func (c *Client) FetchValues(ctx context.Context) ([][]string, error) {
	if err := c.cfg.Validate(); err != nil {
		c.record(ctx, 0, OutcomeConfig)
		return nil, apperrors.NewConfigError(err)
	}

	ctx, span := c.tracer.Start(ctx, "sheets.values.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("sheets.range", c.cfg.Range),
			attribute.String("component", "sheets_client"),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.service.Spreadsheets.Values.Get(c.cfg.SheetID, c.cfg.Range).Context(ctx).Do()
	duration := time.Since(start)

	if err != nil {
		appErr := classify(err)
		c.record(ctx, duration, OutcomeUpstream)
		span.RecordError(appErr)
		span.SetStatus(codes.Error, appErr.Message)
		c.logger.WarnContext(ctx, "sheets fetch failed",
			slog.String("error", appErr.Error()),
			slog.Duration("duration", duration),
		)
		return nil, appErr
	}

	if len(resp.Values) == 0 {
		c.record(ctx, duration, OutcomeEmpty)
		span.SetStatus(codes.Error, apperrors.MsgNoData)
		return nil, apperrors.NewEmptyDataError()
	}

	grid := dataprocessing.StringGrid(resp.Values)
	c.record(ctx, duration, OutcomeSuccess)
	span.SetAttributes(attribute.Int("sheets.rows", len(grid)))
	span.SetStatus(codes.Ok, "")

	c.logger.DebugContext(ctx, "sheets fetch completed",
		slog.Int("rows", len(grid)),
		slog.String("range", resp.Range),
		slog.Duration("duration", duration),
	)

	return grid, nil
}

func (c *Client) record(ctx context.Context, duration time.Duration, outcome string) {
	infrastructure.RecordSheetFetch(ctx, c.metrics, duration, outcome)
}

// classify maps a failed call to the upstream error kind. The request URL
// carries the API key, so url.Error is unwrapped before its text is used.
func classify(err error) *apperrors.Error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return apperrors.NewUpstreamError(gerr.Code, errors.New(gerr.Message))
	}

	var uerr *url.Error
	if errors.As(err, &uerr) {
		return apperrors.NewUpstreamRequestError(uerr.Err)
	}

	return apperrors.NewUpstreamRequestError(err)
}
