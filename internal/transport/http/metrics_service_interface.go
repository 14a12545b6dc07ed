package http

import (
	"context"

	"sheetmetrics/pkg/contracts/domain"
)

// MetricsServiceInterface defines the operation behind GET /api/sheets
type MetricsServiceInterface interface {
	GetMetrics(ctx context.Context) (*domain.MetricsEnvelope, error)
}
