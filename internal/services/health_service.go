package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"sheetmetrics/internal/config"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	sheets    config.SheetsConfig
	startTime time.Time
	now       func() time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Sheets    *SheetsHealth          `json:"sheets,omitempty"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
}

// SheetsHealth reports whether the upstream sheet settings are present
type SheetsHealth struct {
	Configured bool `json:"configured"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, sheets config.SheetsConfig, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:   version,
		sheets:    sheets,
		startTime: time.Now(),
		now:       time.Now,
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck reports "ok", or "degraded" when the sheet settings are
// missing. It never calls the Sheets API.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	configured := hs.sheets.Configured()

	status := HealthStatus{
		Status:    "ok",
		Version:   hs.version,
		Timestamp: hs.now().UTC(),
		Sheets:    &SheetsHealth{Configured: configured},
	}
	if !configured {
		status.Status = "degraded"
	}

	hs.logger.DebugContext(ctx, "health check completed",
		slog.String("status", status.Status),
		slog.Bool("sheets_configured", configured))

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Version:   hs.version,
		Timestamp: hs.now().UTC(),
		Runtime: map[string]interface{}{
			"uptime_seconds": hs.now().Sub(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
	}
}
