// Package shared provides common utilities and test helpers used across the
// metrics service. It holds code that does not belong to any specific layer.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler, a slog.Handler that captures records for assertions
//   - SheetsServer, an httptest fake of the Google Sheets values endpoint
//   - Sample value grids shaped like the production metrics sheet
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    upstream := testutil.NewSheetsServer(t)
//	    upstream.SetValues(testutil.MetricsGrid())
//	    // point the sheets client at upstream.URL
//	}
package shared
