package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// extractCSV reads all records, one row per line with cells joined by " | ".
// Ragged rows are tolerated; RFQ spreadsheets exported to CSV are rarely
// rectangular.
func extractCSV(r io.ReaderAt, size int64) (string, error) {
	reader := csv.NewReader(io.NewSectionReader(r, 0, size))
	reader.FieldsPerRecord = -1

	var b strings.Builder
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading csv: %w", err)
		}
		line := strings.TrimSpace(strings.Join(record, " | "))
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func extractPlainText(r io.ReaderAt, size int64) (string, error) {
	data, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}
	return string(data), nil
}
