package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is what the fake Sheets API saw of one call
type RecordedRequest struct {
	Method string
	Path   string
	APIKey string
}

// SheetsServer fakes GET /v4/spreadsheets/{id}/values/{range}
type SheetsServer struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	values   [][]interface{}
	omit     bool
	requests []RecordedRequest
}

// NewSheetsServer starts a fake that answers 200 with an empty grid until
// configured otherwise. It is closed when the test ends.
func NewSheetsServer(t *testing.T) *SheetsServer {
	t.Helper()

	s := &SheetsServer{status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// SetValues sets the grid returned on success
func (s *SheetsServer) SetValues(values [][]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = values
	s.omit = false
}

// OmitValues makes successful responses carry no "values" key at all
func (s *SheetsServer) OmitValues() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = nil
	s.omit = true
}

// SetStatus makes every response fail with code when it is not 200
func (s *SheetsServer) SetStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = code
}

// Requests returns the calls received so far
func (s *SheetsServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *SheetsServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		APIKey: r.URL.Query().Get("key"),
	})
	status, values, omit := s.status, s.values, s.omit
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	if status != http.StatusOK {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"code":    status,
				"message": http.StatusText(status),
				"status":  strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_")),
			},
		})
		return
	}

	body := map[string]interface{}{
		"range":          rangeFromPath(r.URL.Path),
		"majorDimension": "ROWS",
	}
	if !omit && values != nil {
		body["values"] = values
	}
	_ = json.NewEncoder(w).Encode(body)
}

func rangeFromPath(path string) string {
	if i := strings.LastIndex(path, "/values/"); i >= 0 {
		return path[i+len("/values/"):]
	}
	return ""
}

// MetricsHeader is the header row of the production metrics sheet
func MetricsHeader() []interface{} {
	return []interface{}{
		"metricName", "timePeriod", "value", "previousValue", "changePercent",
		"historicalWeek", "historicalValue", "weekEnding",
	}
}

// MetricsGrid returns a small but complete values grid, header included.
// Numbers are mixed between formatted strings and raw JSON numbers the way
// the API returns them for unformatted cells.
func MetricsGrid() [][]interface{} {
	return [][]interface{}{
		MetricsHeader(),
		{"Signups", "current", "150", "140", "7.1", "W0", "150", "2024-01-07"},
		{"Signups", "fourWeek", "600", "580", "3.4", "W-1", "140"},
		{"Signups", "", "", "", "", "W-5", "120"},
		{"Revenue", "current", "9,000", 8500, "5.9%", "W-2", 8700},
	}
}
