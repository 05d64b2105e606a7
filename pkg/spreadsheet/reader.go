package spreadsheet

import (
	"bytes"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// headerScanLimit is how many leading rows are probed for the header row.
// Workday exports carry a couple of decorative rows above the real header.
const headerScanLimit = 10

var ErrNoHeaderRow = fmt.Errorf("no header row found")

// Row is one data row of the sheet. Number is the 1-based row number in the
// sheet, kept for error reporting.
type Row struct {
	Number int
	Cells  []string
}

// Cell returns the cell at the given column index, or an empty string when
// the row is shorter than the index (trailing empty cells are not stored by
// the xlsx reader).
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[idx])
}

// Table is the first sheet of a workbook, split into a header row and data
// rows. Column lookup is by header text, case-insensitive and
// whitespace-trimmed; column order is not fixed.
type Table struct {
	Headers []string
	Rows    []Row

	columnIdx map[string]int
}

// NewTable builds a Table from a header row and data rows.
func NewTable(headers []string, rows []Row) *Table {
	t := &Table{
		Headers:   headers,
		Rows:      rows,
		columnIdx: make(map[string]int, len(headers)),
	}
	for idx, header := range headers {
		key := normalizeHeader(header)
		if key == "" {
			continue
		}
		if _, exists := t.columnIdx[key]; !exists {
			t.columnIdx[key] = idx
		}
	}
	return t
}

// Column returns the index of the column with the given header name.
func (t *Table) Column(name string) (int, bool) {
	idx, ok := t.columnIdx[normalizeHeader(name)]
	return idx, ok
}

// Read parses xlsx bytes into a Table. The header row is auto-detected by
// scanning the first rows for one containing probeHeader; ErrNoHeaderRow is
// returned when no such row exists within the scan limit.
func Read(data []byte, probeHeader string) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("failed to close workbook: %v", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeaderRow
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	headerRow := -1
	probe := normalizeHeader(probeHeader)
	for i, row := range rows {
		if i >= headerScanLimit {
			break
		}
		for _, cell := range row {
			if normalizeHeader(cell) == probe {
				headerRow = i
				break
			}
		}
		if headerRow >= 0 {
			break
		}
	}
	if headerRow < 0 {
		log.Debugf("no row containing %q within the first %d rows of sheet %q", probeHeader, headerScanLimit, sheet)
		return nil, ErrNoHeaderRow
	}

	var dataRows []Row
	for i := headerRow + 1; i < len(rows); i++ {
		dataRows = append(dataRows, Row{Number: i + 1, Cells: rows[i]})
	}
	table := NewTable(rows[headerRow], dataRows)

	log.Debugf("read sheet %q: header at row %d, %d data rows", sheet, headerRow+1, len(table.Rows))
	return table, nil
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
