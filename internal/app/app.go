package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"sheetmetrics/internal/config"
	apperrors "sheetmetrics/internal/errors"
	"sheetmetrics/internal/infrastructure"
	customMiddleware "sheetmetrics/internal/middleware"
	"sheetmetrics/internal/services"
	"sheetmetrics/internal/sheets"
	handlers "sheetmetrics/internal/transport/http"
	"sheetmetrics/pkg/contracts"
)

// AppName is logged at startup
const AppName = "sheetmetrics"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apperrors.ErrorHandler
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Sheets  *sheets.Client
	Metrics *services.MetricsService
	Health  *services.HealthService
}

// NewApplication wires configuration, observability, services and the router.
// A nil cfg means defaults; a nil logger means slog.Default().
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Bool("sheet_configured", cfg.Sheets.Configured()))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Observability), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	businessMetrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       businessMetrics,
		ErrorHandler:  apperrors.NewErrorHandler(logger, cfg.Logging.Level == "debug"),
	}

	if err := app.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.Router = app.newRouter(false)
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices(ctx context.Context) error {
	client, err := sheets.NewClient(ctx, a.Config.Sheets,
		sheets.WithLogger(a.Logger),
		sheets.WithTracer(a.OTelProviders.Tracer),
		sheets.WithMetrics(a.Metrics),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	metricsService := services.NewMetricsService(client, a.Config.Sheets, a.Logger,
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithBusinessMetrics(a.Metrics),
	)

	a.Services = &ServiceContainer{
		Sheets:  client,
		Metrics: metricsService,
		Health:  services.NewHealthService(contracts.Version, a.Config.Sheets, a.Logger),
	}
	return nil
}

// ServerlessHandler returns a router that also answers the metrics endpoint
// at "/", for platforms that route a single path to the function.
func (a *Application) ServerlessHandler() http.Handler {
	return a.newRouter(true)
}

// newRouter builds the chi router.
// Middleware order: RequestID → RealIP → OTel → Logger → Recoverer → Security → CORS → RateLimit
func (a *Application) newRouter(serverless bool) *chi.Mux {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.ErrorHandler))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			AllowedMethods: a.Config.Security.AllowedMethods,
			Logger:         a.Logger,
		}))

		// The serverless router never rate limits
		if a.Config.Security.RateLimit.Enabled && !serverless {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		sheetsHandler := handlers.NewSheetsHandler(
			a.Services.Metrics,
			a.Config.Cache,
			a.Config.Security,
			a.Logger,
			a.ErrorHandler,
		)

		r.Mount("/api/sheets", sheetsHandler.Routes())
		r.Mount("/api/health", handlers.NewHealthHandler(a.Services.Health, a.Logger).Routes())

		if serverless {
			r.Get("/", sheetsHandler.GetMetrics)
			r.Options("/", sheetsHandler.Preflight)
		}
	})

	// Scrapes stay out of the request metrics they export
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP))

	return r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Serve serves on ln until ctx is canceled or the server fails, then shuts
// down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Starting application",
			slog.String("name", AppName),
			slog.String("version", contracts.Version),
			slog.String("address", ln.Addr().String()),
			slog.String("level", a.Config.Logging.Level))

		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(gctx))
	})

	return g.Wait()
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run listens on the configured port until SIGINT or SIGTERM
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	return a.Serve(ctx, ln)
}
