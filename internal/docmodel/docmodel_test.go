package docmodel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/pln-usage-report/internal/docmodel"
)

func TestBuilder(t *testing.T) {
	created := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	doc := docmodel.NewBuilder("Report").
		Meta("PLN", "usage", "id-1", created).
		Paragraph(docmodel.AlignCenter, docmodel.Run{Text: "Title", Bold: true, SizePt: 16}).
		Text(docmodel.AlignLeft, "body").
		Spacer().
		Table([]int{1, 2},
			docmodel.Row{Header: true, Cells: []docmodel.Cell{
				docmodel.TextCell(docmodel.AlignCenter, docmodel.Run{Text: "A", Bold: true}),
				docmodel.TextCell(docmodel.AlignCenter, docmodel.Run{Text: "B", Bold: true}),
			}},
			docmodel.Row{Cells: []docmodel.Cell{
				docmodel.SpanCell(docmodel.AlignRight, docmodel.Run{Text: "total"}, 2),
			}},
		).
		Build()

	assert.Equal(t, "Report", doc.Title)
	assert.Equal(t, created, doc.Created)
	require.Len(t, doc.Blocks, 4)

	title, ok := doc.Blocks[0].(*docmodel.Paragraph)
	require.True(t, ok)
	assert.Equal(t, "Title", title.Text())
	assert.Equal(t, docmodel.AlignCenter, title.Align)

	tables := doc.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].Columns())
	assert.Len(t, tables[0].Rows, 2)
	assert.Equal(t, 2, tables[0].Rows[1].Cells[0].GridSpan())
}

func TestCell_GridSpanDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, docmodel.Cell{}.GridSpan())
	assert.Equal(t, 1, docmodel.Cell{Span: -3}.GridSpan())
}

func TestTable_ColumnsWithoutWidths(t *testing.T) {
	tbl := docmodel.Table{Rows: []docmodel.Row{
		{Cells: []docmodel.Cell{{}, {}, {}}},
		{Cells: []docmodel.Cell{{Span: 2}, {Span: 2}}},
	}}
	assert.Equal(t, 4, tbl.Columns())
}

func TestBorders(t *testing.T) {
	assert.True(t, docmodel.Borders{}.IsZero())
	assert.False(t, docmodel.SingleBorders().IsZero())
	assert.Equal(t, "center", docmodel.AlignCenter.String())
	assert.Equal(t, "left", docmodel.AlignLeft.String())
	assert.Equal(t, "right", docmodel.AlignRight.String())
}
