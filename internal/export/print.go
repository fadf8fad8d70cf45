package export

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/report"
	"github.com/ginjaninja78/pln-usage-report/pkg/logger"
)

// PrintSuffix marks the printable PDF file name.
const PrintSuffix = "print"

// marginMM is one inch.
const marginMM = 25.4

var (
	colorBlack  = &props.Color{Red: 0, Green: 0, Blue: 0}
	colorHeader = &props.Color{Red: 242, Green: 242, Blue: 242}

	cellStyle   = &props.Cell{BorderType: border.Full, BorderColor: colorBlack, BorderThickness: 0.2}
	headerStyle = &props.Cell{BorderType: border.Full, BorderColor: colorBlack, BorderThickness: 0.2, BackgroundColor: colorHeader}
)

// PrintExporter draws the report as a text PDF meant for a printer.
type PrintExporter struct {
	busyFlag

	deliverer Deliverer
	settings  Settings
	log       *logger.Logger
}

// NewPrintExporter wires an exporter to a deliverer.
func NewPrintExporter(deliverer Deliverer, settings Settings, log *logger.Logger) *PrintExporter {
	return &PrintExporter{
		deliverer: deliverer,
		settings:  settings,
		log:       log.With("print-export"),
	}
}

// Export renders snap and delivers PLN_Usage_Report_<date>_print.pdf.
func (e *PrintExporter) Export(ctx context.Context, snap model.Snapshot) (*Output, error) {
	return e.ExportAt(ctx, snap, e.settings.now())
}

// ExportAt is Export with the report date fixed by the caller.
func (e *PrintExporter) ExportAt(ctx context.Context, snap model.Snapshot, now time.Time) (*Output, error) {
	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := report.Render(snap.Clone(), now)

	data, err := PrintPDF(doc)
	if err != nil {
		e.log.Error().Err(err).Msg("print export failed")
		return nil, err
	}

	name := FileName(e.settings.ReportName, now, "pdf", PrintSuffix)
	location, err := e.deliverer.Deliver(ctx, name, data)
	if err != nil {
		e.log.Error().Err(err).Str("file", name).Msg("print export failed")
		return nil, fmt.Errorf("export: deliver %s: %w", name, err)
	}

	e.log.Info().Str("file", name).Int("bytes", len(data)).Msg("print export saved")

	return &Output{
		Format:   FormatPrint,
		FileName: name,
		Location: location,
		Bytes:    len(data),
	}, nil
}

// PrintPDF lays out doc with maroto and returns the PDF bytes.
func PrintPDF(doc *report.Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(marginMM).WithRightMargin(marginMM).
		WithTopMargin(marginMM).WithBottomMargin(marginMM).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle(doc.Title, true).
		WithAuthor(doc.Organization, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRows(doc)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorBlack, Thickness: 0.4}))

	m.AddRows(headingRow(doc.Customer.Heading))
	for _, f := range doc.Customer.Fields {
		m.AddRows(row.New(6).Add(
			col.New(3).Add(text.New(f.Label, props.Text{Size: 10})),
			col.New(9).Add(text.New(": "+f.Value, props.Text{Size: 10})),
		))
	}
	m.AddRows(row.New(4))

	m.AddRows(headingRow(doc.Items.Heading))
	m.AddRows(itemTableRows(&doc.Items)...)
	m.AddRows(row.New(12))

	m.AddRows(signatureRows(doc.Signatures)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("export: generate print pdf: %w", err)
	}
	return out.GetBytes(), nil
}

// =============================================================================
// SECTIONS
// =============================================================================

func titleRows(doc *report.Document) []core.Row {
	centered := func(s string, size float64, style fontstyle.Type) core.Row {
		return row.New(size*0.6).Add(col.New(12).Add(text.New(s, props.Text{
			Size: size, Style: style, Align: align.Center,
		})))
	}
	return []core.Row{
		centered(doc.Title, 16, fontstyle.Bold),
		centered(doc.Organization, 11, fontstyle.Normal),
		centered(doc.Date, 10, fontstyle.Normal),
	}
}

func headingRow(s string) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(s, props.Text{
		Size: 11, Style: fontstyle.Bold, Top: 2,
	})))
}

func itemTableRows(t *report.ItemsTable) []core.Row {
	rows := make([]core.Row, 0, len(t.Rows)+2)

	header := row.New(7)
	for i, c := range t.Columns {
		header.Add(col.New(report.ColumnWeights[i]).WithStyle(headerStyle).Add(text.New(c, props.Text{
			Size: 9, Style: fontstyle.Bold, Align: align.Center, Top: 1.5,
		})))
	}
	rows = append(rows, header)

	if len(t.Rows) == 0 {
		rows = append(rows, row.New(7).Add(col.New(12).WithStyle(cellStyle).Add(text.New(t.Placeholder, props.Text{
			Size: 9, Align: align.Center, Top: 1.5,
		}))))
	}

	for _, r := range t.Rows {
		data := row.New(7)
		for i, c := range r.Cells() {
			data.Add(col.New(report.ColumnWeights[i]).WithStyle(cellStyle).Add(text.New(c, props.Text{
				Size: 9, Align: marotoAlign(report.ColumnAligns[i]), Top: 1.5, Left: 1, Right: 1,
			})))
		}
		rows = append(rows, data)
	}

	if s := t.Summary; s != nil {
		labelWidth := 0
		for _, w := range report.ColumnWeights[:s.Span] {
			labelWidth += w
		}
		rows = append(rows, row.New(7).Add(
			col.New(labelWidth).WithStyle(cellStyle).Add(text.New(s.Label, props.Text{
				Size: 9, Style: fontstyle.Bold, Align: align.Right, Top: 1.5, Right: 1,
			})),
			col.New(12-labelWidth).WithStyle(cellStyle).Add(text.New(s.Total, props.Text{
				Size: 9, Style: fontstyle.Bold, Align: align.Right, Top: 1.5, Right: 1,
			})),
		))
	}

	return rows
}

func signatureRows(sigs []report.Signature) []core.Row {
	if len(sigs) == 0 {
		return nil
	}
	size := 12 / len(sigs)

	captions := row.New(20)
	names := row.New(6)
	for _, s := range sigs {
		captions.Add(col.New(size).Add(text.New(s.Caption, props.Text{Size: 10, Align: align.Center})))
		names.Add(col.New(size).Add(text.New(s.Name, props.Text{Size: 10, Align: align.Center})))
	}
	return []core.Row{captions, names}
}

func marotoAlign(a report.Align) align.Type {
	switch a {
	case report.AlignCenter:
		return align.Center
	case report.AlignRight:
		return align.Right
	default:
		return align.Left
	}
}
