package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
)

// Record maps trimmed header names to the cell values of one sheet row.
//
// Merge policy: when two columns share a trimmed header name the right-most
// column wins. Cells missing from a short row are stored as "" and extra
// cells beyond the last header are ignored.
type Record map[string]string

// NewRecord zips a row against its headers.
func NewRecord(headers []string, row []string) Record {
	rec := make(Record, len(headers))
	for i, h := range headers {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		rec[strings.TrimSpace(h)] = cell
	}
	return rec
}

// Get returns the cell stored under field, or "" when no header names it.
func (r Record) Get(field string) string {
	return r[field]
}

// Float parses the cell stored under field, see ParseNumber.
func (r Record) Float(field string) float64 {
	return ParseNumber(r[field])
}

// CellString renders a raw grid cell as text. The Sheets API returns strings
// for formatted values, but JSON numbers and booleans are possible.
func CellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// StringGrid converts an untyped values grid into rows of strings.
func StringGrid(values [][]interface{}) [][]string {
	grid := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = CellString(cell)
		}
		grid[i] = cells
	}
	return grid
}
