package domain

// Time periods a row's value/previous/change triple can belong to.
const (
	PeriodCurrent      = "current"
	PeriodFourWeek     = "fourWeek"
	PeriodThirteenWeek = "thirteenWeek"
)

// Sheet column names the transformer reads. Header cells are matched after
// trimming surrounding whitespace.
const (
	ColumnMetricName      = "metricName"
	ColumnTimePeriod      = "timePeriod"
	ColumnValue           = "value"
	ColumnPreviousValue   = "previousValue"
	ColumnChangePercent   = "changePercent"
	ColumnHistoricalWeek  = "historicalWeek"
	ColumnHistoricalValue = "historicalValue"
	ColumnWeekEnding      = "weekEnding"
)

// WeekEndingLayout is the ISO date layout used for the envelope's weekEnding
// when the sheet does not supply one.
const WeekEndingLayout = "2006-01-02"

// PeriodValues is the current/previous/change triple for one time period.
type PeriodValues struct {
	Value    float64 `json:"value"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
}

// HistoricalPoint is one weekly observation, labelled "W0" or "W-n".
type HistoricalPoint struct {
	Week  string  `json:"week"`
	Value float64 `json:"value"`
}

// MetricRecord aggregates everything the sheet says about one metric.
// Absent periods serialize as null; historical series always serialize as
// arrays.
type MetricRecord struct {
	Current                *PeriodValues     `json:"current"`
	FourWeek               *PeriodValues     `json:"fourWeek"`
	ThirteenWeek           *PeriodValues     `json:"thirteenWeek"`
	HistoricalFourWeek     []HistoricalPoint `json:"historicalFourWeek"`
	HistoricalThirteenWeek []HistoricalPoint `json:"historicalThirteenWeek"`
}

// NewMetricRecord returns a record with no periods and empty series.
func NewMetricRecord() *MetricRecord {
	return &MetricRecord{
		HistoricalFourWeek:     []HistoricalPoint{},
		HistoricalThirteenWeek: []HistoricalPoint{},
	}
}

// SetPeriod stores values under the named period. It reports false for
// names other than current, fourWeek and thirteenWeek.
func (m *MetricRecord) SetPeriod(period string, values PeriodValues) bool {
	v := values
	switch period {
	case PeriodCurrent:
		m.Current = &v
	case PeriodFourWeek:
		m.FourWeek = &v
	case PeriodThirteenWeek:
		m.ThirteenWeek = &v
	default:
		return false
	}
	return true
}

// MetricsEnvelope is the response body of the metrics endpoint.
type MetricsEnvelope struct {
	WeekEnding string                   `json:"weekEnding"`
	Metrics    map[string]*MetricRecord `json:"metrics"`
}
