// Package handler is the serverless entry for GET /api/sheets.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"sheetmetrics/internal/app"
	"sheetmetrics/internal/config"
	apperrors "sheetmetrics/internal/errors"
	"sheetmetrics/internal/infrastructure"
)

var (
	initOnce sync.Once
	router   http.Handler
	initErr  error
)

func setup() {
	cfg, err := config.Load()
	if err != nil {
		initErr = fmt.Errorf("failed to load configuration: %w", err)
		return
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		initErr = fmt.Errorf("failed to initialize logger: %w", err)
		return
	}

	application, err := app.NewApplication(context.Background(), cfg, logger)
	if err != nil {
		initErr = fmt.Errorf("failed to initialize application: %w", err)
		return
	}
	router = application.ServerlessHandler()
}

// Handler serves the metrics envelope. The application is built on the
// first invocation and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(setup)

	if initErr != nil {
		infrastructure.GetLogger().ErrorContext(r.Context(), "serverless init failed", slog.String("error", initErr.Error()))
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", http.MethodGet)
		apperrors.WriteError(w, r, initErr)
		return
	}

	router.ServeHTTP(w, r)
}
