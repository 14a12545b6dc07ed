package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetmetrics/internal/config"
	"sheetmetrics/internal/shared/testutil"
)

func testConfig(upstream *testutil.SheetsServer) *config.Config {
	cfg := config.Default()
	cfg.Server.ShutdownTimeout = 2 * time.Second
	if upstream != nil {
		cfg.Sheets.SheetID = "sheet-1"
		cfg.Sheets.APIKey = "key-1"
		cfg.Sheets.BaseURL = upstream.URL + "/"
		cfg.Sheets.Timeout = 2 * time.Second
	}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	app, err := NewApplication(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.OTelProviders.Shutdown(context.Background()) })
	return app
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNewApplication(t *testing.T) {
	app := newTestApp(t, nil)

	require.NotNil(t, app.Router)
	require.NotNil(t, app.Server)
	require.NotNil(t, app.Services)
	assert.NotNil(t, app.Services.Sheets)
	assert.NotNil(t, app.Services.Metrics)
	assert.NotNil(t, app.Services.Health)
	assert.NotNil(t, app.Metrics)
	assert.Equal(t, ":8080", app.Server.Addr)
	assert.Equal(t, 15*time.Second, app.Server.ReadTimeout)
}

func TestNewApplication_InvalidExporter(t *testing.T) {
	cfg := config.Default()
	cfg.Observability.TraceExporter = "zipkin"

	logger, _ := testutil.NewTestLogger(t)
	_, err := NewApplication(context.Background(), cfg, logger)
	assert.Error(t, err)
}

func TestApplication_SheetsEndpoint(t *testing.T) {
	upstream := testutil.NewSheetsServer(t)
	upstream.SetValues(testutil.MetricsGrid())
	app := newTestApp(t, testConfig(upstream))

	rec := serve(app.Router, http.MethodGet, "/api/sheets")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-maxage=900, stale-while-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := decode(t, rec)
	assert.Equal(t, "2024-01-07", body["weekEnding"])
	metrics, ok := body["metrics"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, metrics, "Signups")
	assert.Contains(t, metrics, "Revenue")

	require.Len(t, upstream.Requests(), 1)
	assert.Equal(t, "key-1", upstream.Requests()[0].APIKey)
}

func TestApplication_SheetsEndpointErrors(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*testutil.SheetsServer)
		configure bool
		wantError string
	}{
		{
			name:      "missing configuration",
			setup:     func(*testutil.SheetsServer) {},
			configure: false,
			wantError: "Missing environment variables",
		},
		{
			name:      "upstream not found",
			setup:     func(s *testutil.SheetsServer) { s.SetStatus(http.StatusNotFound) },
			configure: true,
			wantError: "Google Sheets API error: Not Found",
		},
		{
			name:      "no values",
			setup:     func(s *testutil.SheetsServer) { s.OmitValues() },
			configure: true,
			wantError: "No data found in sheet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := testutil.NewSheetsServer(t)
			tt.setup(upstream)

			cfg := testConfig(nil)
			if tt.configure {
				cfg = testConfig(upstream)
			}
			app := newTestApp(t, cfg)

			rec := serve(app.Router, http.MethodGet, "/api/sheets")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, map[string]interface{}{"error": tt.wantError}, decode(t, rec))
			assert.Empty(t, rec.Header().Get("Cache-Control"))
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestApplication_Routes(t *testing.T) {
	app := newTestApp(t, nil)

	t.Run("health reports unconfigured sheet", func(t *testing.T) {
		rec := serve(app.Router, http.MethodGet, "/api/health")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, map[string]interface{}{"configured": false}, body["sheets"])
	})

	t.Run("liveness", func(t *testing.T) {
		rec := serve(app.Router, http.MethodGet, "/api/health/live")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alive", decode(t, rec)["status"])
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := serve(app.Router, http.MethodGet, "/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Not Found", decode(t, rec)["error"])
	})

	t.Run("post to sheets", func(t *testing.T) {
		rec := serve(app.Router, http.MethodPost, "/api/sheets")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/sheets", nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("root is not the metrics endpoint", func(t *testing.T) {
		rec := serve(app.Router, http.MethodGet, "/")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestApplication_MetricsExport(t *testing.T) {
	upstream := testutil.NewSheetsServer(t)
	upstream.SetValues(testutil.MetricsGrid())
	app := newTestApp(t, testConfig(upstream))

	require.Equal(t, http.StatusOK, serve(app.Router, http.MethodGet, "/api/sheets").Code)

	rec := serve(app.Router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sheet_fetches")
	assert.Contains(t, rec.Body.String(), "http_requests")
}

func TestApplication_MetricsExportDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Observability.MetricExporter = "none"
	app := newTestApp(t, cfg)

	rec := serve(app.Router, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApplication_ServerlessHandler(t *testing.T) {
	upstream := testutil.NewSheetsServer(t)
	upstream.SetValues(testutil.MetricsGrid())
	app := newTestApp(t, testConfig(upstream))

	h := app.ServerlessHandler()

	for _, path := range []string{"/", "/api/sheets"} {
		rec := serve(h, http.MethodGet, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "2024-01-07", decode(t, rec)["weekEnding"], path)
	}
	assert.Len(t, upstream.Requests(), 2)
}

func TestApplication_RateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	app := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, serve(app.Router, http.MethodGet, "/api/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(app.Router, http.MethodGet, "/api/health").Code)
}

func TestApplication_BurstOnlyReturns200Or500(t *testing.T) {
	upstream := testutil.NewSheetsServer(t)
	upstream.SetValues(testutil.MetricsGrid())

	enabled := testConfig(upstream)
	enabled.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}

	tests := []struct {
		name    string
		handler func(t *testing.T) http.Handler
	}{
		{
			name:    "default config",
			handler: func(t *testing.T) http.Handler { return newTestApp(t, testConfig(upstream)).Router },
		},
		{
			name:    "default config serverless",
			handler: func(t *testing.T) http.Handler { return newTestApp(t, testConfig(upstream)).ServerlessHandler() },
		},
		{
			name:    "serverless ignores the limiter",
			handler: func(t *testing.T) http.Handler { return newTestApp(t, enabled).ServerlessHandler() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.handler(t)

			statuses := map[int]int{}
			for i := 0; i < 200; i++ {
				statuses[serve(h, http.MethodGet, "/api/sheets").Code]++
			}

			assert.Equal(t, map[int]int{http.StatusOK: 200}, statuses)
		})
	}
}

func TestApplication_Serve(t *testing.T) {
	app := newTestApp(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/api/health/live", ln.Addr()))
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestApplication_StopWithoutServe(t *testing.T) {
	app := newTestApp(t, nil)
	assert.NoError(t, app.Stop(context.Background()))
}
