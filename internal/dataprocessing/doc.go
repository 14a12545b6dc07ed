// Package dataprocessing turns the raw values grid of the metrics sheet into
// the nested weekly metrics envelope served by the API.
//
// # Architecture
//
// The package is organized into three small pieces:
//
// 1. Record: zips one row against the trimmed header row (right-most
// duplicate header wins)
// 2. Parsers: lenient numeric parsing for formatted cells and the week label
// parser ("W0", "W-n", "Wn")
// 3. Transformer: folds all rows into per-metric records and orders the
// historical series
//
// # Usage
//
//	headers, rows, err := dataprocessing.SplitTable(grid)
//	if err != nil {
//	    return err
//	}
//	envelope, stats := dataprocessing.NewTransformer().Transform(headers, rows)
//
// # Data Flow
//
//	Sheets values grid → StringGrid → SplitTable → Transformer → MetricsEnvelope
//
// # Error Handling
//
// The transformation is total. Malformed numbers become 0, rows without a
// metric name are skipped and unparseable week labels are dropped; the
// counts are reported in TransformStats instead of as errors.
package dataprocessing
