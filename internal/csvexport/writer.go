package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"rfqforge/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (20 columns).
var columns = []string{
	"Draft ID",
	"Filename",
	"File Type",
	"Sheet",
	"Material",
	"Material Confidence",
	"Quantity",
	"Length (mm)",
	"Width (mm)",
	"Height (mm)",
	"Complexity",
	"Deadline",
	"Industry",
	"Industry Confidence",
	"Finish",
	"Tolerance",
	"Model Used",
	"Parsing Version",
	"Reviewed",
	"Created At",
}

// Writer wraps csv.Writer for exporting RFQ drafts as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteDrafts converts a batch of drafts to CSV rows and writes them.
func (w *Writer) WriteDrafts(drafts []domain.RFQDraft) error {
	for i := range drafts {
		row := draftToRow(&drafts[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// draftToRow converts a single draft to a 20-element string slice. Metadata
// columns are always filled; extraction columns stay empty when the stored
// payload does not unmarshal.
func draftToRow(draft *domain.RFQDraft) []string {
	row := make([]string, len(columns))

	row[0] = draft.ID.String()
	row[1] = draft.Filename
	row[2] = draft.FileType
	row[3] = draft.SheetName
	row[16] = draft.ModelUsed
	row[17] = draft.ParsingVersion
	row[18] = formatBool(draft.IsReviewed)
	row[19] = draft.CreatedAt.Format(time.RFC3339)

	if len(draft.Parsed) == 0 {
		return row
	}
	var rfq domain.ParsedRFQ
	if err := json.Unmarshal(draft.Parsed, &rfq); err != nil {
		return row
	}

	row[4] = rfq.Material
	row[5] = formatScore(rfq.MaterialConfidence)
	row[6] = strconv.FormatFloat(rfq.Quantity, 'f', -1, 64)
	row[7] = formatMM(rfq.Dimensions.Length)
	row[8] = formatMM(rfq.Dimensions.Width)
	row[9] = formatMM(rfq.Dimensions.Height)
	row[10] = string(rfq.Complexity)
	row[11] = rfq.Deadline
	row[12] = string(rfq.Industry)
	row[13] = formatScore(rfq.IndustryConfidence)
	row[14] = rfq.Finish
	row[15] = rfq.Tolerance

	return row
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}
