package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"signalcli/internal/config"
	pkgerrors "signalcli/internal/errors"
	"signalcli/pkg/contracts/domain"
)

// RowError reports a cell that could not be parsed, locating it by file,
// line (1-based, header is line 1), and column header.
type RowError struct {
	File   string
	Line   int
	Column string
	Err    error
}

// Error implements the error interface
func (e *RowError) Error() string {
	return fmt.Sprintf("%s line %d column %q: %v", e.File, e.Line, e.Column, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *RowError) Unwrap() error {
	return e.Err
}

// columnAliases maps every accepted header spelling to its canonical column
// name. Lookup is case insensitive.
var columnAliases = map[string]string{
	"permno":             "permno",
	"security_id":        "permno",
	"gvkey":              "gvkey",
	"company_id":         "gvkey",
	"time_avail_m":       "time_avail_m",
	"calendar_month":     "time_avail_m",
	"ret":                "ret",
	"return":             "ret",
	"shrout":             "shrout",
	"shares_outstanding": "shrout",
	"shortint":           "shortint",
	"short_interest":     "shortint",
}

// table is one loaded input file: its rows without the header, plus the
// header-resolved position of each canonical column.
type table struct {
	path    string
	rows    [][]string
	columns map[string]int
}

// findTableFile resolves the on-disk file for a canonical table name,
// probing <name>.csv first and <name>.xlsx second.
func findTableFile(paths *config.Paths, name string) (string, error) {
	for _, ext := range []string{".csv", ".xlsx"} {
		path := paths.IntermediatePath(name + ext)
		if config.FileExists(path) {
			return path, nil
		}
	}
	return "", pkgerrors.Wrapf(pkgerrors.CodeMissingInput, "load",
		"input table %s not found under %s (looked for %s.csv and %s.xlsx)",
		name, paths.IntermediateDir, name, name)
}

// readTable reads a table file into memory and resolves the required columns
// against its header row. Extra columns are ignored.
func readTable(path string, required []string) (*table, error) {
	var rows [][]string
	var err error

	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		rows, err = readXLSXRows(path)
	} else {
		rows, err = readCSVRows(path)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, pkgerrors.Wrapf(pkgerrors.CodeMalformedTable, "load",
			"%s: file is empty, header row is mandatory", path)
	}

	columns, err := resolveColumns(path, rows[0], required)
	if err != nil {
		return nil, err
	}

	return &table{path: path, rows: rows[1:], columns: columns}, nil
}

// readCSVRows reads all records of a CSV file. Records may have varying
// field counts; short rows surface later as empty cells.
func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMissingInput, "load",
			fmt.Errorf("open %s: %w", path, err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformedTable, "load",
			fmt.Errorf("read %s: %w", path, err))
	}
	return rows, nil
}

// readXLSXRows reads all rows of the first sheet of an XLSX workbook.
func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMissingInput, "load",
			fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, pkgerrors.Wrapf(pkgerrors.CodeMalformedTable, "load",
			"%s: workbook has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformedTable, "load",
			fmt.Errorf("read %s sheet %q: %w", path, sheets[0], err))
	}
	return rows, nil
}

// resolveColumns maps each required canonical column to its position in the
// header row, honoring the accepted aliases.
func resolveColumns(path string, header []string, required []string) (map[string]int, error) {
	positions := make(map[string]int, len(required))
	for i, cell := range header {
		canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}
		if _, dup := positions[canonical]; !dup {
			positions[canonical] = i
		}
	}

	for _, col := range required {
		if _, ok := positions[col]; !ok {
			return nil, pkgerrors.Wrapf(pkgerrors.CodeMalformedTable, "load",
				"%s: required column %q not found in header", path, col)
		}
	}
	return positions, nil
}

// cell returns the value of a canonical column in a data row, trimmed.
// Rows shorter than the column position yield an empty cell.
func (t *table) cell(row []string, column string) string {
	idx := t.columns[column]
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// rowError builds a RowError for a data row. rowIdx is the 0-based index
// into t.rows; the header occupies line 1 of the file.
func (t *table) rowError(rowIdx int, column string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeMalformedTable, "load",
		&RowError{File: t.path, Line: rowIdx + 2, Column: column, Err: err})
}

// parseID parses a required identifier cell. Integral floats ("12345.0")
// are accepted since exported tables often carry them.
func parseID(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q", s)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("invalid identifier %q: not integral", s)
	}
	return int64(f), nil
}

// parseOptionalID parses a nullable identifier cell. An empty cell means
// missing and reports zero.
func parseOptionalID(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return parseID(s)
}

// parseValue parses a numeric value cell. An empty cell is a missing value
// and reports NaN.
func parseValue(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q", s)
	}
	return f, nil
}

// parseMonthCell parses a required calendar month cell.
func parseMonthCell(s string) (domain.Month, error) {
	if s == "" {
		return 0, fmt.Errorf("empty month cell")
	}
	return domain.ParseMonth(s)
}
