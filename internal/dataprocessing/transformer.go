package dataprocessing

import (
	"sort"
	"time"

	"sheetmetrics/pkg/contracts/domain"
)

// Week ordinal thresholds for the two historical series.
const (
	FourWeekMaxOrdinal     = 3
	ThirteenWeekMaxOrdinal = 12
)

// TransformStats summarizes one transformation for logging and metrics.
type TransformStats struct {
	Rows             int
	SkippedRows      int
	IgnoredPeriods   int
	DroppedWeeks     int
	Metrics          int
	HistoricalPoints int
}

// Transformer reshapes a sheet's header row and data rows into the metrics
// envelope. It holds no per-call state and is safe for concurrent use.
type Transformer struct {
	now func() time.Time
}

// TransformerOption configures a Transformer.
type TransformerOption func(*Transformer)

// WithClock overrides the clock used to default weekEnding.
func WithClock(now func() time.Time) TransformerOption {
	return func(t *Transformer) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTransformer creates a transformer using the wall clock.
func NewTransformer(opts ...TransformerOption) *Transformer {
	t := &Transformer{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform builds the envelope from headers and rows. It never fails:
// malformed numbers become 0 and rows with an empty metric name are skipped.
//
// A value or historical value of exactly 0 is treated as "no data" and does
// not populate a period or a historical point.
func (t *Transformer) Transform(headers []string, rows [][]string) (*domain.MetricsEnvelope, TransformStats) {
	metrics := make(map[string]*domain.MetricRecord)
	stats := TransformStats{Rows: len(rows)}
	weekEnding := ""

	for _, row := range rows {
		rec := NewRecord(headers, row)

		if we := rec.Get(domain.ColumnWeekEnding); we != "" && weekEnding == "" {
			weekEnding = we
		}

		name := rec.Get(domain.ColumnMetricName)
		if name == "" {
			stats.SkippedRows++
			continue
		}

		metric, ok := metrics[name]
		if !ok {
			metric = domain.NewMetricRecord()
			metrics[name] = metric
		}

		value := rec.Float(domain.ColumnValue)
		if period := rec.Get(domain.ColumnTimePeriod); period != "" && value != 0 {
			applied := metric.SetPeriod(period, domain.PeriodValues{
				Value:    value,
				Previous: rec.Float(domain.ColumnPreviousValue),
				Change:   rec.Float(domain.ColumnChangePercent),
			})
			if !applied {
				stats.IgnoredPeriods++
			}
		}

		week := rec.Get(domain.ColumnHistoricalWeek)
		histValue := rec.Float(domain.ColumnHistoricalValue)
		if week == "" || histValue == 0 {
			continue
		}
		ordinal, ok := ParseWeekLabel(week)
		if !ok {
			stats.DroppedWeeks++
			continue
		}

		point := domain.HistoricalPoint{Week: week, Value: histValue}
		if ordinal <= FourWeekMaxOrdinal {
			metric.HistoricalFourWeek = appendUnique(metric.HistoricalFourWeek, point)
		}
		if ordinal <= ThirteenWeekMaxOrdinal {
			metric.HistoricalThirteenWeek = appendUnique(metric.HistoricalThirteenWeek, point)
		}
	}

	for _, metric := range metrics {
		sortByRecency(metric.HistoricalFourWeek)
		sortByRecency(metric.HistoricalThirteenWeek)
		stats.HistoricalPoints += len(metric.HistoricalThirteenWeek)
	}
	stats.Metrics = len(metrics)

	if weekEnding == "" {
		weekEnding = t.now().UTC().Format(domain.WeekEndingLayout)
	}

	return &domain.MetricsEnvelope{
		WeekEnding: weekEnding,
		Metrics:    metrics,
	}, stats
}

// appendUnique appends p unless a point with the same week label exists.
// The first occurrence wins.
func appendUnique(points []domain.HistoricalPoint, p domain.HistoricalPoint) []domain.HistoricalPoint {
	for _, existing := range points {
		if existing.Week == p.Week {
			return points
		}
	}
	return append(points, p)
}

// sortByRecency orders points most recent first (W0, W-1, W-2, ...).
func sortByRecency(points []domain.HistoricalPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return weekOrdinal(points[i].Week) < weekOrdinal(points[j].Week)
	})
}

func weekOrdinal(label string) int {
	n, _ := ParseWeekLabel(label)
	return n
}
