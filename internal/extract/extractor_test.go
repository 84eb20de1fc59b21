package extract_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rfqforge/internal/domain"
	"rfqforge/internal/extract"
	"rfqforge/internal/port"
)

func extractInput(t *testing.T, data []byte, filename string, fileType domain.FileType) port.ExtractInput {
	t.Helper()
	return port.ExtractInput{
		Reader:   bytes.NewReader(data),
		Size:     int64(len(data)),
		Filename: filename,
		FileType: fileType,
	}
}

func TestExtract_PlainText(t *testing.T) {
	e := extract.NewExtractor()
	out, err := e.Extract(extractInput(t, []byte("  Need 50 brackets, 6061 aluminum  \n"), "rfq.txt", domain.FileTypeTXT))
	require.NoError(t, err)

	assert.Equal(t, "Need 50 brackets, 6061 aluminum", out.Text)
	assert.Equal(t, "rfq.txt", out.FileContext.Filename)
	assert.Equal(t, "txt", out.FileContext.FileType)
	assert.Empty(t, out.FileContext.SheetName)
}

func TestExtract_CSV(t *testing.T) {
	csvData := "part,material,qty\nbracket,6061 aluminum,50\nshaft,stainless 316\n"
	e := extract.NewExtractor()
	out, err := e.Extract(extractInput(t, []byte(csvData), "rfq.csv", domain.FileTypeCSV))
	require.NoError(t, err)

	lines := strings.Split(out.Text, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "part | material | qty", lines[0])
	assert.Equal(t, "bracket | 6061 aluminum | 50", lines[1])
	// Ragged rows are kept, not rejected.
	assert.Equal(t, "shaft | stainless 316", lines[2])
}

func TestExtract_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "part"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "qty"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "bracket"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 50))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	e := extract.NewExtractor()
	out, err := e.Extract(extractInput(t, buf.Bytes(), "rfq.xlsx", domain.FileTypeXLSX))
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", out.FileContext.SheetName)
	assert.Contains(t, out.Text, "part | qty")
	assert.Contains(t, out.Text, "bracket | 50")
}

func TestExtract_EmptyDocument(t *testing.T) {
	e := extract.NewExtractor()
	_, err := e.Extract(extractInput(t, []byte("   \n \t "), "empty.txt", domain.FileTypeTXT))
	assert.ErrorIs(t, err, domain.ErrNoTextExtracted)
}

func TestExtract_UnsupportedType(t *testing.T) {
	e := extract.NewExtractor()
	_, err := e.Extract(extractInput(t, []byte("data"), "archive.zip", domain.FileType("zip")))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestExtract_CorruptWorkbook(t *testing.T) {
	e := extract.NewExtractor()
	_, err := e.Extract(extractInput(t, []byte("this is not a zip archive"), "rfq.xlsx", domain.FileTypeXLSX))
	assert.Error(t, err)
}
