package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sheetmetrics/internal/config"
	apierrors "sheetmetrics/internal/errors"
)

// SheetsHandler serves the weekly metrics envelope
type SheetsHandler struct {
	service      MetricsServiceInterface
	cache        config.CacheConfig
	allowOrigin  string
	allowMethods string
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSheetsHandler creates a new sheets handler
func NewSheetsHandler(service MetricsServiceInterface, cache config.CacheConfig, security config.SecurityConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SheetsHandler {
	origin := "*"
	if len(security.AllowedOrigins) > 0 {
		origin = security.AllowedOrigins[0]
	}
	methods := http.MethodGet
	if len(security.AllowedMethods) > 0 {
		methods = strings.Join(security.AllowedMethods, ", ")
	}

	return &SheetsHandler{
		service:      service,
		cache:        cache,
		allowOrigin:  origin,
		allowMethods: methods,
		logger:       logger.With(slog.String("component", "sheets_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the sheets routes
func (h *SheetsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetMetrics)
	r.Options("/", h.Preflight)

	return r
}

// GetMetrics handles GET /api/sheets. CORS headers are sent on every
// response; Cache-Control only on success.
func (h *SheetsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.setCORSHeaders(w)

	envelope, err := h.service.GetMetrics(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", h.cache.HeaderValue())

	h.logger.DebugContext(r.Context(), "metrics served",
		slog.String("week_ending", envelope.WeekEnding),
		slog.Int("metrics", len(envelope.Metrics)))

	render.JSON(w, r, envelope)
}

// Preflight answers CORS preflight requests with 204
func (h *SheetsHandler) Preflight(w http.ResponseWriter, r *http.Request) {
	h.setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SheetsHandler) setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", h.allowOrigin)
	w.Header().Set("Access-Control-Allow-Methods", h.allowMethods)
}
