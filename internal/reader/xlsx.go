package reader

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads the first sheet of a workbook.
func readXLSX(r io.Reader) ([][]string, error) {
	xlsxFile, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = xlsxFile.Close()
	}()

	sheets := xlsxFile.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	rows, err := xlsxFile.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// GetRows drops trailing empty cells, so a header whose last columns
	// are blank comes back shorter than the data under it.
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	for len(rows[0]) < width {
		rows[0] = append(rows[0], "")
	}
	return rows, nil
}
