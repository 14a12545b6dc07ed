// Package exporter writes metrics envelopes as flat CSV for spreadsheets and
// offline diffing.
//
// FlattenEnvelope emits one row per period (current, fourWeek, thirteenWeek)
// and one row per historical point:
//
//	weekEnding,metricName,series,week,value,previous,change
//	2024-01-07,Signups,current,,150.00,140.00,7.10
//	2024-01-07,Signups,historicalFourWeek,W0,150.00,,
//
// EnvelopeOptions packages those rows for CSVWriter, which writes to any
// io.Writer or to a file, optionally with a UTF-8 BOM for Excel.
package exporter
