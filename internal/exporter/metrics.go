package exporter

import (
	"errors"
	"sort"

	"sheetmetrics/pkg/contracts/domain"
)

// Series names used in the "series" column of the flattened export
const (
	SeriesHistoricalFourWeek     = "historicalFourWeek"
	SeriesHistoricalThirteenWeek = "historicalThirteenWeek"
)

// MetricsHeaders is the header row of FlattenEnvelope
var MetricsHeaders = []string{"weekEnding", "metricName", "series", "week", "value", "previous", "change"}

// FlattenEnvelope turns an envelope into one row per period and one row per
// historical point. Metrics are ordered by name; periods follow current,
// fourWeek, thirteenWeek; points keep their envelope order. Absent periods
// produce no row.
func FlattenEnvelope(env *domain.MetricsEnvelope) [][]string {
	if env == nil {
		return nil
	}

	names := make([]string, 0, len(env.Metrics))
	for name := range env.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var records [][]string
	for _, name := range names {
		m := env.Metrics[name]
		if m == nil {
			continue
		}

		periods := []struct {
			name   string
			values *domain.PeriodValues
		}{
			{domain.PeriodCurrent, m.Current},
			{domain.PeriodFourWeek, m.FourWeek},
			{domain.PeriodThirteenWeek, m.ThirteenWeek},
		}
		for _, p := range periods {
			if p.values == nil {
				continue
			}
			records = append(records, []string{
				env.WeekEnding, name, p.name, "",
				formatFloat(p.values.Value),
				formatFloat(p.values.Previous),
				formatFloat(p.values.Change),
			})
		}

		records = appendSeries(records, env.WeekEnding, name, SeriesHistoricalFourWeek, m.HistoricalFourWeek)
		records = appendSeries(records, env.WeekEnding, name, SeriesHistoricalThirteenWeek, m.HistoricalThirteenWeek)
	}

	return records
}

func appendSeries(records [][]string, weekEnding, name, series string, points []domain.HistoricalPoint) [][]string {
	for _, p := range points {
		records = append(records, []string{weekEnding, name, series, p.Week, formatFloat(p.Value), "", ""})
	}
	return records
}

// EnvelopeOptions returns write options holding the flattened envelope and
// its header row
func EnvelopeOptions(env *domain.MetricsEnvelope) (WriteOptions, error) {
	if env == nil {
		return WriteOptions{}, errors.New("nil metrics envelope")
	}
	return WriteOptions{Headers: MetricsHeaders, Records: FlattenEnvelope(env)}, nil
}
