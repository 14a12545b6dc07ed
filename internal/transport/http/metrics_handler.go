package http

import (
	"net/http"

	"github.com/go-chi/render"

	apierrors "sheetmetrics/internal/errors"
)

// MetricsHandler exposes the Prometheus registry of the service
type MetricsHandler struct {
	exporter http.Handler
}

// NewMetricsHandler creates a new metrics handler. exporter may be nil when
// metric export is disabled.
func NewMetricsHandler(exporter http.Handler) *MetricsHandler {
	return &MetricsHandler{exporter: exporter}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		render.Render(w, r, &apierrors.ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Error:      "metrics export is disabled",
		})
		return
	}
	h.exporter.ServeHTTP(w, r)
}
