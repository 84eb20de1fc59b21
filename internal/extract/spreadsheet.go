package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// extractSpreadsheet pulls the active sheet of a workbook as delimited text,
// one row per line with cells joined by " | ". Returns the sheet name used.
func extractSpreadsheet(r io.ReaderAt, size int64) (string, string, error) {
	f, err := excelize.OpenReader(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", "", fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", "", fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", "", fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	var b strings.Builder
	for _, row := range rows {
		line := strings.TrimSpace(strings.Join(row, " | "))
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), sheet, nil
}
