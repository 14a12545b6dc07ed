package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetmetrics/pkg/contracts/domain"
)

func sampleEnvelope() *domain.MetricsEnvelope {
	signups := domain.NewMetricRecord()
	signups.SetPeriod(domain.PeriodCurrent, domain.PeriodValues{Value: 150, Previous: 140, Change: 7.1})
	signups.SetPeriod(domain.PeriodThirteenWeek, domain.PeriodValues{Value: 1800, Previous: 1700, Change: 5.88})
	signups.HistoricalFourWeek = []domain.HistoricalPoint{{Week: "W0", Value: 150}, {Week: "W-1", Value: 140}}
	signups.HistoricalThirteenWeek = []domain.HistoricalPoint{{Week: "W0", Value: 150}}

	churn := domain.NewMetricRecord()

	return &domain.MetricsEnvelope{
		WeekEnding: "2024-01-07",
		Metrics: map[string]*domain.MetricRecord{
			"Signups": signups,
			"Churn":   churn,
		},
	}
}

func TestFlattenEnvelope(t *testing.T) {
	records := FlattenEnvelope(sampleEnvelope())

	assert.Equal(t, [][]string{
		{"2024-01-07", "Signups", "current", "", "150.00", "140.00", "7.10"},
		{"2024-01-07", "Signups", "thirteenWeek", "", "1800.00", "1700.00", "5.88"},
		{"2024-01-07", "Signups", "historicalFourWeek", "W0", "150.00", "", ""},
		{"2024-01-07", "Signups", "historicalFourWeek", "W-1", "140.00", "", ""},
		{"2024-01-07", "Signups", "historicalThirteenWeek", "W0", "150.00", "", ""},
	}, records)
}

func TestFlattenEnvelope_OrdersMetricsByName(t *testing.T) {
	env := &domain.MetricsEnvelope{WeekEnding: "2024-01-07", Metrics: map[string]*domain.MetricRecord{}}
	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		m := domain.NewMetricRecord()
		m.SetPeriod(domain.PeriodCurrent, domain.PeriodValues{Value: 1})
		env.Metrics[name] = m
	}

	records := FlattenEnvelope(env)
	require.Len(t, records, 3)
	assert.Equal(t, "Alpha", records[0][1])
	assert.Equal(t, "Mid", records[1][1])
	assert.Equal(t, "Zeta", records[2][1])
}

func TestFlattenEnvelope_Empty(t *testing.T) {
	assert.Nil(t, FlattenEnvelope(nil))
	assert.Empty(t, FlattenEnvelope(&domain.MetricsEnvelope{Metrics: map[string]*domain.MetricRecord{"x": nil}}))
}

func TestEnvelopeOptions(t *testing.T) {
	opts, err := EnvelopeOptions(sampleEnvelope())
	require.NoError(t, err)
	assert.Equal(t, MetricsHeaders, opts.Headers)
	assert.Len(t, opts.Records, 5)
	assert.False(t, opts.BOMPrefix)

	opts.BOMPrefix = true
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(nil).Write(&buf, opts))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 6)
	assert.Equal(t, "\xEF\xBB\xBFweekEnding,metricName,series,week,value,previous,change", string(lines[0]))

	_, err = EnvelopeOptions(nil)
	assert.Error(t, err)
}
