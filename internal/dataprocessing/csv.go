package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyTable is returned when a table has no header row.
var ErrEmptyTable = errors.New("table has no header row")

// ReadCSV reads a CSV export of the metrics sheet. The first record is the
// header row. Rows may have differing lengths.
func ReadCSV(r io.Reader) (headers []string, rows [][]string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyTable
	}
	return records[0], records[1:], nil
}

// SplitTable separates a values grid into its header row and data rows.
func SplitTable(grid [][]string) (headers []string, rows [][]string, err error) {
	if len(grid) == 0 {
		return nil, nil, ErrEmptyTable
	}
	return grid[0], grid[1:], nil
}
