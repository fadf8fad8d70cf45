// =============================================================================
// PLN Usage Report - Item Importer
// =============================================================================
//
// This module bulk-loads line items from spreadsheets exported by other
// tools. It accepts:
//   - XLSX workbooks (first sheet, or a named sheet)
//   - CSV/TXT files with a configurable delimiter and encoding
//
// IMPORT PROCESS:
//   1. Read the raw rows of the file
//   2. Locate the name, unit price, quantity and unit columns by header
//   3. Parse every data row into a line item
//   4. Check each item against the validity predicate
//   5. Keep valid items in order; collect every rejected row with its
//      spreadsheet row number
//
// AMOUNTS:
//   Prices are read as whole rupiah. "Rp 50.000", "50000" and "50.000,00"
//   are all 50000. Fractional amounts are rejected.
//
// =============================================================================

package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/validation"
)

var (
	// ErrUnsupportedFile is returned for unknown file extensions.
	ErrUnsupportedFile = errors.New("importer: unsupported file type")

	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("importer: required column not found")

	// ErrNoData is returned when the file has no rows past the header.
	ErrNoData = errors.New("importer: file has no data rows")
)

// =============================================================================
// SETTINGS
// =============================================================================

// Columns holds the header text of each mapped column.
type Columns struct {
	Name      string `mapstructure:"name" yaml:"name"`
	UnitPrice string `mapstructure:"unit_price" yaml:"unit_price"`
	Quantity  string `mapstructure:"quantity" yaml:"quantity"`
	Unit      string `mapstructure:"unit" yaml:"unit"`
}

// Settings controls how files are read.
type Settings struct {
	// Delimiter is the CSV field separator. Accepts a character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// Encoding is the CSV character set: UTF-8, ISO-8859-1 or Windows-1252.
	// Default: "UTF-8"
	Encoding string `mapstructure:"encoding" yaml:"encoding"`

	// HeaderRows is the number of header rows. The last one names the columns.
	// Default: 1
	HeaderRows int `mapstructure:"header_rows" yaml:"header_rows"`

	// DataStartRow is the 1-based row where data begins.
	// Default: 2
	DataStartRow int `mapstructure:"data_start_row" yaml:"data_start_row"`

	// Sheet is the workbook sheet to read. Empty selects the first sheet.
	Sheet string `mapstructure:"sheet" yaml:"sheet"`

	// Columns maps header text to item fields.
	Columns Columns `mapstructure:"columns" yaml:"columns"`

	// Transforms clean cell values before they are parsed.
	Transforms []Rule `mapstructure:"transforms" yaml:"transforms"`
}

// DefaultSettings returns settings matching the report's own table headers.
func DefaultSettings() Settings {
	return Settings{
		Delimiter:    ",",
		Encoding:     "UTF-8",
		HeaderRows:   1,
		DataStartRow: 2,
		Columns: Columns{
			Name:      "Nama Barang/Jasa",
			UnitPrice: "Harga STN",
			Quantity:  "Qty",
			Unit:      "Satuan",
		},
	}
}

// normalize fills unset fields with defaults.
func (s Settings) normalize() Settings {
	d := DefaultSettings()
	if s.Delimiter == "" {
		s.Delimiter = d.Delimiter
	}
	if s.Encoding == "" {
		s.Encoding = d.Encoding
	}
	if s.HeaderRows < 1 {
		s.HeaderRows = d.HeaderRows
	}
	if s.DataStartRow <= s.HeaderRows {
		s.DataStartRow = s.HeaderRows + 1
	}
	if s.Columns.Name == "" {
		s.Columns.Name = d.Columns.Name
	}
	if s.Columns.UnitPrice == "" {
		s.Columns.UnitPrice = d.Columns.UnitPrice
	}
	if s.Columns.Quantity == "" {
		s.Columns.Quantity = d.Columns.Quantity
	}
	if s.Columns.Unit == "" {
		s.Columns.Unit = d.Columns.Unit
	}
	return s
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of one import.
type Result struct {
	// SourceFile is the imported path.
	SourceFile string

	// Items are the valid items, in file order.
	Items []model.LineItem

	// RowsRead is the number of non-empty data rows.
	RowsRead int

	// Skipped is the number of rejected rows.
	Skipped int

	// Errors lists every rejected row. Nil when all rows were accepted.
	Errors *multierror.Error
}

// RowError is a row that could not be parsed.
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column '%s': %v (value: '%s')", e.Row, e.Column, e.Err, e.Value)
}

func (e *RowError) Unwrap() error { return e.Err }

// =============================================================================
// IMPORT
// =============================================================================

// ImportFile reads items from path, choosing the reader by extension.
//
// RETURNS:
//   - The import result. Rejected rows are reported in Result.Errors and
//     do not fail the import.
//   - An error if the file cannot be read or lacks a required column.
func ImportFile(path string, settings Settings) (*Result, error) {
	settings = settings.normalize()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("importer: open %s: %w", path, err)
	}
	defer f.Close()

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		rows, err = ReadXLSX(f, settings)
	case ".csv", ".txt":
		rows, err = ReadCSV(f, settings)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, err
	}

	result, err := BuildItems(rows, settings)
	if err != nil {
		return nil, fmt.Errorf("importer: %s: %w", path, err)
	}
	result.SourceFile = path
	return result, nil
}

// BuildItems turns raw rows into line items.
func BuildItems(rows [][]string, settings Settings) (*Result, error) {
	settings = settings.normalize()

	if len(rows) < settings.HeaderRows {
		return nil, ErrNoData
	}

	index, err := locateColumns(rows[settings.HeaderRows-1], settings.Columns)
	if err != nil {
		return nil, err
	}

	transformer, err := NewTransformer(settings.Transforms)
	if err != nil {
		return nil, err
	}

	result := &Result{Items: []model.LineItem{}}
	for i := settings.DataStartRow - 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}
		result.RowsRead++
		rowNumber := i + 1

		item, err := parseRow(row, index, settings.Columns, transformer, rowNumber)
		if err == nil {
			err = validation.ValidateLineItemAt(item, rowNumber)
		}
		if err != nil {
			result.Skipped++
			result.Errors = multierror.Append(result.Errors, err)
			continue
		}
		result.Items = append(result.Items, item)
	}

	if result.RowsRead == 0 {
		return nil, ErrNoData
	}
	return result, nil
}

// columnIndex holds the position of each mapped column.
type columnIndex struct {
	name, unitPrice, quantity, unit int
}

// locateColumns finds the mapped headers, ignoring case and surrounding space.
func locateColumns(header []string, cols Columns) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, seen := positions[key]; !seen {
			positions[key] = i
		}
	}

	var missing []string
	find := func(name string) int {
		i, ok := positions[normalizeHeader(name)]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	idx := columnIndex{
		name:      find(cols.Name),
		unitPrice: find(cols.UnitPrice),
		quantity:  find(cols.Quantity),
		unit:      find(cols.Unit),
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

// parseRow reads one data row. An empty quantity defaults to 1.
func parseRow(row []string, idx columnIndex, cols Columns, t *Transformer, rowNumber int) (model.LineItem, error) {
	var values [4]string
	for i, f := range []struct {
		field, header string
		col           int
	}{
		{FieldName, cols.Name, idx.name},
		{FieldUnitPrice, cols.UnitPrice, idx.unitPrice},
		{FieldQuantity, cols.Quantity, idx.quantity},
		{FieldUnit, cols.Unit, idx.unit},
	} {
		raw := cell(row, f.col)
		v, err := t.Transform(f.field, raw)
		if err != nil {
			return model.LineItem{}, &RowError{Row: rowNumber, Column: f.header, Value: raw, Err: err}
		}
		values[i] = strings.TrimSpace(v)
	}
	name, rawPrice, rawQty, unit := values[0], values[1], values[2], values[3]

	item := model.LineItem{Name: name, Unit: unit}

	price, err := ParseAmount(rawPrice)
	if err != nil {
		return item, &RowError{Row: rowNumber, Column: cols.UnitPrice, Value: rawPrice, Err: err}
	}
	item.UnitPrice = price

	item.Quantity = model.DefaultQuantity
	if rawQty != "" {
		qty, err := ParseAmount(rawQty)
		if err != nil {
			return item, &RowError{Row: rowNumber, Column: cols.Quantity, Value: rawQty, Err: err}
		}
		item.Quantity = qty
	}

	return item, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}
