package export

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ginjaninja78/pln-usage-report/internal/docmodel"
	"github.com/ginjaninja78/pln-usage-report/internal/docx"
	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/report"
	"github.com/ginjaninja78/pln-usage-report/internal/totals"
	"github.com/ginjaninja78/pln-usage-report/pkg/logger"
)

// headerShading is the fill of the item table header row.
const headerShading = "F2F2F2"

// StructuredExporter writes the report as a .docx document.
type StructuredExporter struct {
	busyFlag

	deliverer Deliverer
	settings  Settings
	log       *logger.Logger
}

// NewStructuredExporter wires an exporter to a deliverer.
func NewStructuredExporter(deliverer Deliverer, settings Settings, log *logger.Logger) *StructuredExporter {
	return &StructuredExporter{
		deliverer: deliverer,
		settings:  settings,
		log:       log.With("structured-export"),
	}
}

// Export builds the document for snap, serializes it and delivers
// PLN_Usage_Report_<date>.docx. A serialization failure delivers nothing.
func (e *StructuredExporter) Export(ctx context.Context, snap model.Snapshot) (*Output, error) {
	return e.ExportAt(ctx, snap, e.settings.now())
}

// ExportAt is Export with the report date fixed by the caller.
func (e *StructuredExporter) ExportAt(ctx context.Context, snap model.Snapshot, now time.Time) (*Output, error) {
	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := BuildDocument(snap.Clone(), now)

	data, err := docx.Encode(doc)
	if err != nil {
		e.log.Error().Err(err).Msg("structured export failed")
		return nil, fmt.Errorf("export: serialize docx: %w", err)
	}

	name := FileName(e.settings.ReportName, now, "docx", "")
	location, err := e.deliverer.Deliver(ctx, name, data)
	if err != nil {
		e.log.Error().Err(err).Str("file", name).Msg("structured export failed")
		return nil, fmt.Errorf("export: deliver %s: %w", name, err)
	}

	e.log.Info().
		Str("file", name).
		Int("items", len(snap.Items)).
		Int("bytes", len(data)).
		Msg("structured export saved")

	return &Output{
		Format:   FormatDOCX,
		FileName: name,
		Location: location,
		Bytes:    len(data),
		Pages:    1,
	}, nil
}

// =============================================================================
// DOCUMENT CONSTRUCTION
// =============================================================================

// BuildDocument lays out the report for snap as a document tree.
//
// DOCUMENT STRUCTURE:
//  1. Title (centered, bold, 16pt), organization, date
//  2. "INFORMASI PELANGGAN" with five "Label: value" lines
//  3. "DAFTAR BARANG/JASA" with the item table:
//     header row, one row per item, and a totals row when non-empty
func BuildDocument(snap model.Snapshot, now time.Time) *docmodel.Document {
	b := docmodel.NewBuilder(report.Title).
		Meta(report.Organization, report.ItemsTitle, report.ISODate(now), now)

	b.Paragraph(docmodel.AlignCenter, docmodel.Run{Text: report.Title, Bold: true, SizePt: 16})
	b.Text(docmodel.AlignCenter, report.Organization)
	b.Text(docmodel.AlignCenter, report.DateLabel+": "+report.FormatLongDate(now))
	b.Spacer()

	b.Paragraph(docmodel.AlignLeft, docmodel.Run{Text: report.CustomerTitle, Bold: true})
	for _, f := range report.CustomerFields(snap.Customer) {
		b.Text(docmodel.AlignLeft, f.Label+": "+f.Value)
	}
	b.Spacer()

	b.Paragraph(docmodel.AlignLeft, docmodel.Run{Text: report.ItemsTitle, Bold: true})
	b.Table(slices.Clone(report.ColumnWeights), itemRows(snap.Items)...)

	return b.Build()
}

// itemRows returns the header row, one row per item and, when items is
// non-empty, the totals row.
func itemRows(items []model.LineItem) []docmodel.Row {
	rows := make([]docmodel.Row, 0, len(items)+2)

	header := docmodel.Row{Header: true}
	for _, c := range report.Columns {
		cell := docmodel.TextCell(docmodel.AlignCenter, docmodel.Run{Text: c, Bold: true})
		cell.Shading = headerShading
		header.Cells = append(header.Cells, cell)
	}
	rows = append(rows, header)

	for i, item := range items {
		cells := report.ItemCells(i, item).Cells()
		row := docmodel.Row{}
		for j, text := range cells {
			row.Cells = append(row.Cells, docmodel.TextCell(alignment(report.ColumnAligns[j]), docmodel.Run{Text: text}))
		}
		rows = append(rows, row)
	}

	if len(items) > 0 {
		rows = append(rows, docmodel.Row{Cells: []docmodel.Cell{
			docmodel.SpanCell(docmodel.AlignRight, docmodel.Run{Text: report.GrandTotalText, Bold: true}, report.SummarySpan),
			docmodel.TextCell(docmodel.AlignRight, docmodel.Run{Text: report.FormatRupiah(totals.GrandTotal(items)), Bold: true}),
		}})
	}

	return rows
}

func alignment(a report.Align) docmodel.Alignment {
	switch a {
	case report.AlignCenter:
		return docmodel.AlignCenter
	case report.AlignRight:
		return docmodel.AlignRight
	default:
		return docmodel.AlignLeft
	}
}
