package dataprocessing

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads a workbook download of the metrics sheet. An empty sheet
// name selects the first worksheet. Rows come back as displayed text, with
// trailing empty cells trimmed.
func ReadXLSX(filePath, sheet string) (headers []string, rows [][]string, err error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, ErrEmptyTable
		}
		sheet = sheets[0]
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return SplitTable(grid)
}
