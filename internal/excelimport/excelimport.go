// Package excelimport reads .xlsx workbooks for the bulk-import endpoints.
// Column headers are matched loosely (case, spaces and underscores ignored)
// so spreadsheets exported from different tools map onto the same fields.
package excelimport

import (
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row of the first sheet, keyed by normalized header.
type Row struct {
	// Number is the 1-based spreadsheet row number (header is row 1).
	Number int
	cells  map[string]string
}

// Get returns the first non-empty cell among the given header aliases.
func (r Row) Get(aliases ...string) string {
	for _, a := range aliases {
		if v, ok := r.cells[normalizeHeader(a)]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// RowResult records the outcome of importing a single row. Imports are
// partial-failure: one bad row never aborts the batch.
type RowResult struct {
	Row     int    `json:"row"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var ErrNoSheet = errors.New("excelimport: workbook has no sheets")

// ReadSheet parses the first sheet of an xlsx stream into header-mapped rows.
// The first row is treated as the header; fully empty rows are skipped.
func ReadSheet(src io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = normalizeHeader(h)
	}

	var rows []Row
	for i, cells := range raw[1:] {
		row := Row{Number: i + 2, cells: make(map[string]string)}
		empty := true
		for j, v := range cells {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			row.cells[headers[j]] = v
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// SplitList splits a comma-separated cell ("alice, bob") into trimmed,
// non-empty parts.
func SplitList(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	h = strings.ReplaceAll(h, "-", "")
	return h
}
