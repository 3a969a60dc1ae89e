package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a header row plus data rows. Data rows may be shorter than the
// header; missing cells read as empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadFile loads a .csv or .xlsx file. For workbooks the first sheet is used.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("batch: open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, "")
	default:
		return Table{}, fmt.Errorf("batch: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadCSV parses comma separated rows with a header line.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("batch: read csv: %w", err)
	}
	return newTable(records)
}

// ReadXLSX reads sheet from a workbook, or the first sheet when sheet is
// empty.
func ReadXLSX(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("batch: open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Table{}, errors.New("batch: workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("batch: read sheet %q: %w", sheet, err)
	}
	return newTable(rows)
}

func newTable(records [][]string) (Table, error) {
	if len(records) == 0 {
		return Table{}, errors.New("batch: no header row")
	}
	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	return Table{Header: header, Rows: records[1:]}, nil
}

// cell returns the trimmed value at column idx, or "" when absent.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
