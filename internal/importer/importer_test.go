package importer_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/pln-usage-report/internal/importer"
	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/validation"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{in: "50000", want: 50000},
		{in: "50.000", want: 50000},
		{in: "Rp 50.000", want: 50000},
		{in: "Rp50.000,00", want: 50000},
		{in: "rp. 1.234.567", want: 1234567},
		{in: "2", want: 2},
		{in: "2,0", want: 2},
		{in: "1234.0", want: 1234},
		{in: "2,5", wantErr: importer.ErrFractionalAmount},
		{in: "12.5", wantErr: importer.ErrFractionalAmount},
		{in: "abc", wantErr: importer.ErrInvalidAmount},
		{in: "", wantErr: importer.ErrInvalidAmount},
		{in: "9223372036854775807", want: 9223372036854775807},
		{in: "18446744073709551617", wantErr: importer.ErrAmountOutOfRange},
		{in: "99999999999999999999", wantErr: importer.ErrAmountOutOfRange},
		{in: "Rp 9.223.372.036.854.775.808", wantErr: importer.ErrAmountOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := importer.ParseAmount(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestImportFile_CSV(t *testing.T) {
	csvData := strings.Join([]string{
		"No,Nama Barang/Jasa,Harga STN,Qty,Satuan",
		`1,Cable,"Rp 50.000",2,m`,
		`2,MCB,75000,,pcs`,
		`3,,10000,1,pcs`,
		`4,Meter,"12,5",1,unit`,
	}, "\n")

	res, err := importer.ImportFile(writeFile(t, "items.csv", []byte(csvData)), importer.DefaultSettings())
	require.NoError(t, err)

	want := []model.LineItem{
		{Name: "Cable", UnitPrice: 50000, Quantity: 2, Unit: "m"},
		{Name: "MCB", UnitPrice: 75000, Quantity: 1, Unit: "pcs"},
	}
	if diff := cmp.Diff(want, res.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, res.RowsRead)
	assert.Equal(t, 2, res.Skipped)

	require.NotNil(t, res.Errors)
	require.Len(t, res.Errors.Errors, 2)

	// Row 4 fails the validity predicate on the empty name.
	fields := validation.FieldErrors(res.Errors.Errors[0])
	require.Len(t, fields, 1)
	assert.Equal(t, 4, fields[0].RowNumber)
	assert.Equal(t, "Name", fields[0].Field)

	// Row 5 fails amount parsing.
	var rowErr *importer.RowError
	require.True(t, errors.As(res.Errors.Errors[1], &rowErr))
	assert.Equal(t, 5, rowErr.Row)
	assert.ErrorIs(t, rowErr, importer.ErrFractionalAmount)
}

func TestImportFile_CSVLatin1Semicolon(t *testing.T) {
	// "Kabel Tembaga Ø10" in ISO-8859-1.
	data := []byte("nama barang/jasa;HARGA STN;qty;satuan\nKabel Tembaga \xd810;15.000;3;m\n")

	settings := importer.DefaultSettings()
	settings.Delimiter = "semicolon"
	settings.Encoding = "ISO-8859-1"

	res, err := importer.ImportFile(writeFile(t, "items.txt", data), settings)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Kabel Tembaga Ø10", res.Items[0].Name)
	assert.Equal(t, int64(15000), res.Items[0].UnitPrice)
	assert.Nil(t, res.Errors)
}

func TestImportFile_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Nama Barang/Jasa", "Harga STN", "Qty", "Satuan"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Cable", 50000, 2, "m"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Installation", "Rp 150.000", 1, "job"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Broken", 0, 1, "pcs"}))

	path := filepath.Join(t.TempDir(), "items.xlsx")
	require.NoError(t, f.SaveAs(path))

	res, err := importer.ImportFile(path, importer.DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, path, res.SourceFile)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Installation", res.Items[1].Name)
	assert.Equal(t, int64(150000), res.Items[1].UnitPrice)
	assert.Equal(t, 1, res.Skipped)
}

func TestImportFile_CustomColumnsAndHeaderRows(t *testing.T) {
	data := "Laporan gudang\nItem|Price|Count|UoM\nBolt|500|10|pcs\n"

	settings := importer.Settings{
		Delimiter:  "pipe",
		HeaderRows: 2,
		Columns:    importer.Columns{Name: "Item", UnitPrice: "Price", Quantity: "Count", Unit: "UoM"},
	}

	res, err := importer.ImportFile(writeFile(t, "items.csv", []byte(data)), settings)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, model.LineItem{Name: "Bolt", UnitPrice: 500, Quantity: 10, Unit: "pcs"}, res.Items[0])
}

func TestImportFile_Errors(t *testing.T) {
	_, err := importer.ImportFile(writeFile(t, "items.json", []byte("[]")), importer.DefaultSettings())
	assert.ErrorIs(t, err, importer.ErrUnsupportedFile)

	_, err = importer.ImportFile(writeFile(t, "items.csv", []byte("Name,Price\nx,1\n")), importer.DefaultSettings())
	assert.ErrorIs(t, err, importer.ErrMissingColumn)

	_, err = importer.ImportFile(writeFile(t, "items.csv", []byte("Nama Barang/Jasa,Harga STN,Qty,Satuan\n")), importer.DefaultSettings())
	assert.ErrorIs(t, err, importer.ErrNoData)

	_, err = importer.ImportFile(filepath.Join(t.TempDir(), "missing.csv"), importer.DefaultSettings())
	assert.Error(t, err)
}

func TestBuildItems_RejectsOversizedPrice(t *testing.T) {
	rows := [][]string{
		{"Nama Barang/Jasa", "Harga STN", "Qty", "Satuan"},
		{"Cable", "18446744073709551617", "1", "m"},
		{"Trafo", "Rp 2.000.000.000.000", "1", "unit"},
		{"Switch", "25000", "1", "pcs"},
	}

	result, err := importer.BuildItems(rows, importer.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Switch", result.Items[0].Name)

	require.NotNil(t, result.Errors)
	assert.ErrorIs(t, result.Errors.Errors[0], importer.ErrAmountOutOfRange)
	assert.ErrorIs(t, result.Errors.Errors[1], validation.ErrInvalidLineItem)
}

func TestApplyTransformation(t *testing.T) {
	tests := []struct {
		action importer.Action
		in     string
		want   string
	}{
		{importer.Action{Type: "trim"}, "  Cable ", "Cable"},
		{importer.Action{Type: "uppercase"}, "pcs", "PCS"},
		{importer.Action{Type: "lowercase"}, "PCS", "pcs"},
		{importer.Action{Type: "title_case"}, "kabel nym", "Kabel Nym"},
		{importer.Action{Type: "normalize_whitespace"}, " Kabel   NYM\t2x1.5 ", "Kabel NYM 2x1.5"},
		{importer.Action{Type: "prepend_string", Value: "PLN-"}, "01", "PLN-01"},
		{importer.Action{Type: "append_string", Value: " VA"}, "1300", "1300 VA"},
		{importer.Action{Type: "replace", Find: "IDR", Value: ""}, "IDR 50000", " 50000"},
		{importer.Action{Type: "regex_replace", Find: `\(.*\)`, Value: ""}, "Cable(old)", "Cable"},
		{importer.Action{Type: "extract_digits"}, "Rp50rb (nego)", "50"},
		{importer.Action{Type: "if_empty_use_default", Value: "pcs"}, " ", "pcs"},
		{importer.Action{Type: "if_empty_use_default", Value: "pcs"}, "m", "m"},
	}

	for _, tt := range tests {
		t.Run(tt.action.Type, func(t *testing.T) {
			got, err := importer.ApplyTransformation(tt.in, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := importer.ApplyTransformation("x", importer.Action{Type: "regex_replace", Find: "("})
	assert.Error(t, err)
}

func TestNewTransformer_RejectsUnknown(t *testing.T) {
	_, err := importer.NewTransformer([]importer.Rule{{Field: "name", Actions: []importer.Action{{Type: "explode"}}}})
	assert.ErrorIs(t, err, importer.ErrUnknownTransform)

	_, err = importer.NewTransformer([]importer.Rule{{Field: "colour"}})
	assert.Error(t, err)
}

func TestBuildItems_AppliesTransforms(t *testing.T) {
	settings := importer.DefaultSettings()
	settings.Transforms = []importer.Rule{
		{Field: importer.FieldName, Actions: []importer.Action{{Type: "normalize_whitespace"}, {Type: "title_case"}}},
		{Field: importer.FieldUnitPrice, Actions: []importer.Action{{Type: "replace", Find: "IDR", Value: ""}}},
		{Field: importer.FieldUnit, Actions: []importer.Action{{Type: "if_empty_use_default", Value: "pcs"}}},
	}

	rows := [][]string{
		{"Nama Barang/Jasa", "Harga STN", "Qty", "Satuan"},
		{"kabel   nym", "IDR 50.000", "2", ""},
	}

	result, err := importer.BuildItems(rows, settings)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, model.LineItem{Name: "Kabel Nym", UnitPrice: 50000, Quantity: 2, Unit: "pcs"}, result.Items[0])
}
