package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sheetmetrics/internal/config"
	"sheetmetrics/internal/dataprocessing"
	apperrors "sheetmetrics/internal/errors"
	"sheetmetrics/internal/shared/testutil"
)

// MockSheetFetcher is a mock implementation of SheetFetcher
type MockSheetFetcher struct {
	mock.Mock
}

func (m *MockSheetFetcher) FetchValues(ctx context.Context) ([][]string, error) {
	args := m.Called(ctx)
	if grid := args.Get(0); grid != nil {
		return grid.([][]string), args.Error(1)
	}
	return nil, args.Error(1)
}

var configuredSheets = config.SheetsConfig{SheetID: "sheet", APIKey: "key", Range: config.DefaultSheetRange}

func fixedTransformer() *dataprocessing.Transformer {
	return dataprocessing.NewTransformer(dataprocessing.WithClock(func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}))
}

func TestMetricsService_GetMetrics(t *testing.T) {
	fetcher := new(MockSheetFetcher)
	fetcher.On("FetchValues", mock.Anything).Return([][]string{
		{"metricName", "timePeriod", "value", "weekEnding"},
		{"Signups", "current", "150", "2024-01-07"},
		{"Revenue", "fourWeek", "1,200", ""},
	}, nil)

	logger, logs := testutil.NewTestLogger(t)
	svc := NewMetricsService(fetcher, configuredSheets, logger, WithTransformer(fixedTransformer()))

	env, err := svc.GetMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-01-07", env.WeekEnding)
	require.Len(t, env.Metrics, 2)
	assert.Equal(t, 150.0, env.Metrics["Signups"].Current.Value)
	assert.Equal(t, 1200.0, env.Metrics["Revenue"].FourWeek.Value)

	fetcher.AssertExpectations(t)
	testutil.AssertLogAttr(t, logs, "component", "metrics_service")
	testutil.AssertLogAttr(t, logs, "metrics", int64(2))
	testutil.AssertNoErrors(t, logs)
}

func TestMetricsService_HeaderOnlyGrid(t *testing.T) {
	fetcher := new(MockSheetFetcher)
	fetcher.On("FetchValues", mock.Anything).Return([][]string{
		{"metricName", "timePeriod", "value"},
	}, nil)

	svc := NewMetricsService(fetcher, configuredSheets, nil, WithTransformer(fixedTransformer()))

	env, err := svc.GetMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", env.WeekEnding)
	assert.Empty(t, env.Metrics)
}

func TestMetricsService_MissingConfig(t *testing.T) {
	tests := []struct {
		name   string
		sheets config.SheetsConfig
	}{
		{"no id", config.SheetsConfig{APIKey: "key"}},
		{"no key", config.SheetsConfig{SheetID: "sheet"}},
		{"neither", config.SheetsConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := new(MockSheetFetcher)
			svc := NewMetricsService(fetcher, tt.sheets, nil)

			_, err := svc.GetMetrics(context.Background())
			require.Error(t, err)

			assert.Equal(t, apperrors.KindConfig, apperrors.KindOf(err))
			assert.Equal(t, "Missing environment variables", apperrors.PublicMessage(err))
			assert.ErrorIs(t, err, config.ErrMissingSheetSettings)
			fetcher.AssertNotCalled(t, "FetchValues", mock.Anything)
		})
	}
}

func TestMetricsService_FetchErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind apperrors.Kind
		wantMsg  string
	}{
		{
			name:     "classified upstream error passes through",
			err:      apperrors.NewUpstreamError(403, nil),
			wantKind: apperrors.KindUpstream,
			wantMsg:  "Google Sheets API error: Forbidden",
		},
		{
			name:     "empty data passes through",
			err:      apperrors.NewEmptyDataError(),
			wantKind: apperrors.KindEmptyData,
			wantMsg:  "No data found in sheet",
		},
		{
			name:     "plain error becomes upstream",
			err:      context.DeadlineExceeded,
			wantKind: apperrors.KindUpstream,
			wantMsg:  "Google Sheets API request failed: context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := new(MockSheetFetcher)
			fetcher.On("FetchValues", mock.Anything).Return(nil, tt.err)

			svc := NewMetricsService(fetcher, configuredSheets, nil)
			env, err := svc.GetMetrics(context.Background())

			assert.Nil(t, env)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			assert.Equal(t, tt.wantMsg, apperrors.PublicMessage(err))
		})
	}
}

func TestMetricsService_EmptyGrid(t *testing.T) {
	fetcher := new(MockSheetFetcher)
	fetcher.On("FetchValues", mock.Anything).Return([][]string{}, nil)

	_, err := NewMetricsService(fetcher, configuredSheets, nil).GetMetrics(context.Background())

	assert.Equal(t, apperrors.KindEmptyData, apperrors.KindOf(err))
}
