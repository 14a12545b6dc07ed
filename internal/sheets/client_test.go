package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetmetrics/internal/config"
	apperrors "sheetmetrics/internal/errors"
	"sheetmetrics/internal/shared/testutil"
)

func testConfig(baseURL string) config.SheetsConfig {
	return config.SheetsConfig{
		SheetID: "sheet-123",
		APIKey:  "secret-key",
		Range:   "Sheet1!A:H",
		BaseURL: baseURL + "/",
		Timeout: 2 * time.Second,
	}
}

func newTestClient(t *testing.T, cfg config.SheetsConfig) *Client {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	c, err := NewClient(context.Background(), cfg, WithLogger(logger))
	require.NoError(t, err)
	return c
}

func TestFetchValues_Success(t *testing.T) {
	upstream := testutil.NewSheetsServer(t)
	upstream.SetValues(testutil.MetricsGrid())

	c := newTestClient(t, testConfig(upstream.URL))
	grid, err := c.FetchValues(context.Background())
	require.NoError(t, err)

	require.Len(t, grid, 5)
	assert.Equal(t, "metricName", grid[0][0])
	// JSON numbers come back as their plain text form
	assert.Equal(t, []string{"Revenue", "current", "9,000", "8500", "5.9%", "W-2", "8700"}, grid[4])
	// Short rows stay short
	assert.Len(t, grid[2], 7)

	reqs := upstream.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/v4/spreadsheets/sheet-123/values/Sheet1!A:H", reqs[0].Path)
	assert.Equal(t, "secret-key", reqs[0].APIKey)
}

func TestFetchValues_UpstreamStatus(t *testing.T) {
	tests := []struct {
		status  int
		wantMsg string
	}{
		{http.StatusForbidden, "Google Sheets API error: Forbidden"},
		{http.StatusNotFound, "Google Sheets API error: Not Found"},
		{http.StatusBadRequest, "Google Sheets API error: Bad Request"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			upstream := testutil.NewSheetsServer(t)
			upstream.SetStatus(tt.status)

			c := newTestClient(t, testConfig(upstream.URL))
			_, err := c.FetchValues(context.Background())
			require.Error(t, err)

			assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
			assert.Equal(t, tt.wantMsg, apperrors.PublicMessage(err))
		})
	}
}

func TestFetchValues_EmptyData(t *testing.T) {
	t.Run("values key absent", func(t *testing.T) {
		upstream := testutil.NewSheetsServer(t)
		upstream.OmitValues()

		_, err := newTestClient(t, testConfig(upstream.URL)).FetchValues(context.Background())
		assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyData))
		assert.Equal(t, "No data found in sheet", apperrors.PublicMessage(err))
	})

	t.Run("zero rows", func(t *testing.T) {
		upstream := testutil.NewSheetsServer(t)
		upstream.SetValues([][]interface{}{})

		_, err := newTestClient(t, testConfig(upstream.URL)).FetchValues(context.Background())
		assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyData))
	})
}

func TestFetchValues_MissingConfigMakesNoCall(t *testing.T) {
	upstream := testutil.NewSheetsServer(t)

	for _, cfg := range []config.SheetsConfig{
		{BaseURL: upstream.URL + "/"},
		{SheetID: "id", BaseURL: upstream.URL + "/"},
		{APIKey: "key", BaseURL: upstream.URL + "/"},
	} {
		_, err := newTestClient(t, cfg).FetchValues(context.Background())
		assert.True(t, apperrors.IsKind(err, apperrors.KindConfig))
		assert.Equal(t, "Missing environment variables", apperrors.PublicMessage(err))
	}

	assert.Empty(t, upstream.Requests())
}

func TestFetchValues_TransportFailureHidesKey(t *testing.T) {
	upstream := testutil.NewSheetsServer(t)
	cfg := testConfig(upstream.URL)
	upstream.Close()

	_, err := newTestClient(t, cfg).FetchValues(context.Background())
	require.Error(t, err)

	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
	msg := apperrors.PublicMessage(err)
	assert.Contains(t, msg, "Google Sheets API request failed: ")
	assert.NotContains(t, msg, "secret-key")
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestFetchValues_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	cfg := testConfig(slow.URL)
	cfg.Timeout = 50 * time.Millisecond

	_, err := newTestClient(t, cfg).FetchValues(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
}

func TestFetchValues_ContextCanceled(t *testing.T) {
	upstream := testutil.NewSheetsServer(t)
	upstream.SetValues(testutil.MetricsGrid())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, testConfig(upstream.URL)).FetchValues(ctx)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUpstream, apperrors.KindOf(err))
}

func TestClassify(t *testing.T) {
	err := classify(assert.AnError)
	assert.Equal(t, apperrors.KindUpstream, err.Kind)
	assert.Equal(t, "Google Sheets API request failed: "+assert.AnError.Error(), err.Message)
}
