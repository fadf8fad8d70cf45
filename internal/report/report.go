// =============================================================================
// PLN Usage Report - Report Renderer
// =============================================================================
//
// This module turns a snapshot of the session plus an injected date into a
// structured, ordered view of the report. The view is plain data: it can be
// printed to a terminal, laid out by the raster surface, or drawn by the
// print exporter, and every consumer sees the same strings.
//
// DOCUMENT STRUCTURE:
//   1. Title block      : report title, organization, formatted date
//   2. Customer section : five labeled fields, "-" when unset
//   3. Items table      : six fixed columns, one row per item
//                         (or one placeholder row when empty),
//                         a summary row with the grand total when non-empty
//   4. Signature footer : officer blank, customer blank with the name
//
// DETERMINISM:
//   Render reads no clock and no global state. Identical inputs produce
//   structurally identical documents.
//
// =============================================================================

package report

import (
	"slices"
	"strconv"
	"time"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/totals"
)

// =============================================================================
// FIXED LABELS
// =============================================================================

// Fixed texts of the report, Indonesian locale.
const (
	Title          = "LAPORAN PENGGUNAAN PERALATAN PLN"
	Organization   = "PT PLN (Persero) - Perusahaan Listrik Negara"
	DateLabel      = "Tanggal"
	CustomerTitle  = "INFORMASI PELANGGAN"
	ItemsTitle     = "DAFTAR BARANG/JASA"
	EmptyItemsText = "Tidak ada data barang/jasa"
	GrandTotalText = "TOTAL KESELURUHAN"

	LabelName           = "Nama"
	LabelCustomerID     = "ID Pelanggan"
	LabelPowerRating    = "Daya"
	LabelOccupation     = "Pekerjaan"
	LabelContractNumber = "No. Kontrak"

	OfficerCaption  = "Mengetahui,"
	OfficerName     = "Petugas PLN"
	CustomerCaption = "Pelanggan,"
)

// Columns are the fixed item table headers, in display order.
var Columns = []string{"No", "Nama Barang/Jasa", "Harga STN", "Qty", "Satuan", "Total"}

// ColumnWeights are the relative widths of Columns on a 12-unit grid.
var ColumnWeights = []int{1, 4, 2, 1, 2, 2}

// Align is a horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ColumnAligns are the alignments of the data cells under Columns.
var ColumnAligns = []Align{AlignCenter, AlignLeft, AlignRight, AlignCenter, AlignCenter, AlignRight}

// SummarySpan is the number of columns the summary label spans.
const SummarySpan = 5

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// Document is the rendered report.
type Document struct {
	Title        string
	Organization string
	Date         string

	Customer   Section
	Items      ItemsTable
	Signatures []Signature
}

// Section is a heading followed by labeled fields.
type Section struct {
	Heading string
	Fields  []Field
}

// Field is one "label: value" pair.
type Field struct {
	Label string
	Value string
}

// ItemsTable is the table of line items.
type ItemsTable struct {
	Heading string
	Columns []string

	// Rows holds one row per item in collection order.
	Rows []ItemRow

	// Placeholder is set only when Rows is empty.
	Placeholder string

	// Summary is nil when Rows is empty.
	Summary *SummaryRow
}

// ItemRow is one formatted data row.
type ItemRow struct {
	Seq       int
	Name      string
	UnitPrice string
	Quantity  string
	Unit      string
	Total     string
}

// Cells returns the row's cells in column order.
func (r ItemRow) Cells() []string {
	return []string{strconv.Itoa(r.Seq), r.Name, r.UnitPrice, r.Quantity, r.Unit, r.Total}
}

// SummaryRow carries the grand total.
type SummaryRow struct {
	Label  string
	Span   int
	Total  string
	Amount int64
}

// Signature is one labeled blank of the footer.
type Signature struct {
	Caption string
	Name    string
}

// =============================================================================
// RENDERING
// =============================================================================

// Render builds the report document for snap as of now.
func Render(snap model.Snapshot, now time.Time) *Document {
	c := snap.Customer

	doc := &Document{
		Title:        Title,
		Organization: Organization,
		Date:         DateLabel + ": " + FormatLongDate(now),
		Customer: Section{
			Heading: CustomerTitle,
			Fields:  CustomerFields(c),
		},
		Items: renderItems(snap.Items),
		Signatures: []Signature{
			{Caption: OfficerCaption, Name: OfficerName},
			{Caption: CustomerCaption, Name: signatureName(c.Name)},
		},
	}

	return doc
}

// CustomerFields returns the five labeled customer fields with the
// placeholder applied to unset values.
func CustomerFields(c model.Customer) []Field {
	return []Field{
		{Label: LabelName, Value: OrPlaceholder(c.Name)},
		{Label: LabelCustomerID, Value: OrPlaceholder(c.CustomerID)},
		{Label: LabelPowerRating, Value: OrPlaceholder(c.PowerRating)},
		{Label: LabelOccupation, Value: OrPlaceholder(c.Occupation)},
		{Label: LabelContractNumber, Value: OrPlaceholder(c.ContractNumber)},
	}
}

// ItemCells returns the formatted cells of item at 0-based index.
func ItemCells(index int, item model.LineItem) ItemRow {
	return ItemRow{
		Seq:       index + 1,
		Name:      item.Name,
		UnitPrice: FormatRupiah(item.UnitPrice),
		Quantity:  strconv.FormatInt(item.Quantity, 10),
		Unit:      item.Unit,
		Total:     FormatRupiah(totals.LineTotal(item)),
	}
}

func renderItems(items []model.LineItem) ItemsTable {
	table := ItemsTable{
		Heading: ItemsTitle,
		Columns: slices.Clone(Columns),
		Rows:    make([]ItemRow, 0, len(items)),
	}

	if len(items) == 0 {
		table.Placeholder = EmptyItemsText
		return table
	}

	for i, item := range items {
		table.Rows = append(table.Rows, ItemCells(i, item))
	}

	grand := totals.GrandTotal(items)
	table.Summary = &SummaryRow{
		Label:  GrandTotalText + ":",
		Span:   SummarySpan,
		Total:  FormatRupiah(grand),
		Amount: grand,
	}

	return table
}

func signatureName(name string) string {
	if name == "" {
		return BlankName
	}
	return name
}

// =============================================================================
// COPYING
// =============================================================================

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}

	out := *d
	out.Customer.Fields = slices.Clone(d.Customer.Fields)
	out.Items.Columns = slices.Clone(d.Items.Columns)
	out.Items.Rows = slices.Clone(d.Items.Rows)
	if d.Items.Summary != nil {
		summary := *d.Items.Summary
		out.Items.Summary = &summary
	}
	out.Signatures = slices.Clone(d.Signatures)

	return &out
}
