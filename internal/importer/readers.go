package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ReadCSV returns every record of a CSV stream.
func ReadCSV(r io.Reader, settings Settings) ([][]string, error) {
	settings = settings.normalize()

	decoded, err := decode(r, settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bufio.NewReader(decoded))
	reader.Comma = delimiter(settings.Delimiter)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("importer: read csv: %w", err)
	}
	return rows, nil
}

// ReadXLSX returns the rows of the configured sheet of a workbook.
func ReadXLSX(r io.Reader, settings Settings) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("importer: open workbook: %w", err)
	}
	defer f.Close()

	sheet := settings.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoData
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("importer: read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// delimiter maps a delimiter setting to a rune.
func delimiter(s string) rune {
	switch s {
	case "\\t", "tab", "TAB":
		return '\t'
	case "pipe", "PIPE":
		return '|'
	case "semicolon":
		return ';'
	}
	if s == "" {
		return ','
	}
	return []rune(s)[0]
}

// decode wraps r with a decoder for encoding.
func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToUpper(strings.ReplaceAll(encoding, "_", "-")) {
	case "", "UTF-8", "UTF8":
		return r, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("importer: unsupported encoding %q", encoding)
	}
}
