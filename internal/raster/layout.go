package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ginjaninja78/pln-usage-report/internal/report"
)

var (
	face       = basicfont.Face7x13
	ink        = image.NewUniform(color.Black)
	headerFill = image.NewUniform(color.RGBA{R: 0xF2, G: 0xF2, B: 0xF2, A: 0xFF})
)

const (
	lineHeight = 18
	cellPad    = 4
	rowHeight  = lineHeight + 2*cellPad
	blockGap   = 12
)

// layout is a top-to-bottom cursor over a growing list of pages.
type layout struct {
	width, height int
	pages         []*image.RGBA
	y             int
}

func newLayout(width, height int) *layout {
	l := &layout{width: width, height: height}
	l.pages = append(l.pages, newPage(width, height))
	return l
}

func (l *layout) page() *image.RGBA {
	return l.pages[len(l.pages)-1]
}

// reserve makes room for h pixels, breaking the page when needed.
func (l *layout) reserve(h int) {
	if l.y > 0 && l.y+h > l.height {
		l.pages = append(l.pages, newPage(l.width, l.height))
		l.y = 0
	}
}

// =============================================================================
// DOCUMENT BLOCKS
// =============================================================================

func (l *layout) document(d *report.Document) {
	l.centered(d.Title, true)
	l.centered(d.Organization, false)
	l.centered(d.Date, false)
	l.rule()
	l.y += blockGap

	l.heading(d.Customer.Heading)
	for _, f := range d.Customer.Fields {
		l.field(f)
	}
	l.y += blockGap

	l.heading(d.Items.Heading)
	l.items(&d.Items)
	l.y += 3 * blockGap

	l.signatures(d.Signatures)
}

func (l *layout) centered(text string, bold bool) {
	l.reserve(lineHeight)
	text, x := centerIn(text, 0, l.width)
	l.text(x, l.y, text, bold)
	l.y += lineHeight
}

func (l *layout) heading(text string) {
	l.reserve(2 * lineHeight)
	l.text(0, l.y, text, true)
	l.y += lineHeight
}

func (l *layout) field(f report.Field) {
	l.reserve(lineHeight)
	l.text(0, l.y, f.Label, false)
	l.text(l.width/4, l.y, ": "+f.Value, false)
	l.y += lineHeight
}

func (l *layout) rule() {
	l.reserve(4)
	l.hline(0, l.width, l.y+2)
	l.y += 4
}

// =============================================================================
// ITEMS TABLE
// =============================================================================

// columnEdges returns the x offsets of the column boundaries.
func (l *layout) columnEdges() []int {
	total := 0
	for _, w := range report.ColumnWeights {
		total += w
	}
	edges := make([]int, 0, len(report.ColumnWeights)+1)
	x, acc := 0, 0
	edges = append(edges, x)
	for _, w := range report.ColumnWeights {
		acc += w
		x = (l.width - 1) * acc / total
		edges = append(edges, x)
	}
	return edges
}

func (l *layout) items(t *report.ItemsTable) {
	edges := l.columnEdges()
	last := len(edges) - 1

	header := func() {
		l.reserve(rowHeight)
		draw.Draw(l.page(), image.Rect(0, l.y, edges[last], l.y+rowHeight), headerFill, image.Point{}, draw.Src)
		for i, c := range t.Columns {
			l.cell(edges[i], edges[i+1], c, report.AlignCenter, true)
		}
		l.rowLines(edges, nil)
		l.y += rowHeight
	}

	// Row breaks repeat the header at the top of the next page.
	row := func(paint func()) {
		if l.y+rowHeight > l.height {
			l.reserve(rowHeight)
			header()
		}
		paint()
		l.y += rowHeight
	}

	header()

	if len(t.Rows) == 0 {
		row(func() {
			l.cell(edges[0], edges[last], t.Placeholder, report.AlignCenter, false)
			l.rowLines(edges, []int{0, last})
		})
	}

	for _, r := range t.Rows {
		cells := r.Cells()
		row(func() {
			for i, c := range cells {
				l.cell(edges[i], edges[i+1], c, report.ColumnAligns[i], false)
			}
			l.rowLines(edges, nil)
		})
	}

	if s := t.Summary; s != nil {
		span := min(s.Span, last-1)
		row(func() {
			l.cell(edges[0], edges[span], s.Label, report.AlignRight, true)
			l.cell(edges[span], edges[last], s.Total, report.AlignRight, true)
			l.rowLines(edges, []int{0, span, last})
		})
	}
}

// cell writes text clipped to the column between x0 and x1.
func (l *layout) cell(x0, x1 int, text string, align report.Align, bold bool) {
	inner := x1 - x0 - 2*cellPad
	text = clip(text, inner)
	w := measure(text)

	x := x0 + cellPad
	switch align {
	case report.AlignCenter:
		x = x0 + (x1-x0-w)/2
	case report.AlignRight:
		x = x1 - cellPad - w
	}
	l.text(x, l.y+cellPad, text, bold)
}

// rowLines draws the borders of the current row. verticals selects which
// column edges get a vertical line; nil draws all of them.
func (l *layout) rowLines(edges []int, verticals []int) {
	top, bottom := l.y, l.y+rowHeight
	left, right := edges[0], edges[len(edges)-1]
	l.hline(left, right, top)
	l.hline(left, right, bottom)

	if verticals == nil {
		for _, x := range edges {
			l.vline(x, top, bottom)
		}
		return
	}
	for _, i := range verticals {
		l.vline(edges[i], top, bottom)
	}
}

// =============================================================================
// SIGNATURES
// =============================================================================

func (l *layout) signatures(sigs []report.Signature) {
	if len(sigs) == 0 {
		return
	}
	l.reserve(4 * lineHeight)

	colWidth := l.width / len(sigs)
	for i, s := range sigs {
		x0 := i * colWidth
		caption, x := centerIn(s.Caption, x0, colWidth)
		l.text(x, l.y, caption, false)
		name, x := centerIn(s.Name, x0, colWidth)
		l.text(x, l.y+3*lineHeight, name, false)
	}
	l.y += 4 * lineHeight
}

// =============================================================================
// PRIMITIVES
// =============================================================================

// text draws s with its top-left corner at (x, y). Bold is simulated by
// drawing twice one pixel apart.
func (l *layout) text(x, y int, s string, bold bool) {
	d := &font.Drawer{
		Dst:  l.page(),
		Src:  ink,
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent+(lineHeight-face.Height)/2),
	}
	d.DrawString(s)
	if bold {
		d.Dot = fixed.P(x+1, y+face.Ascent+(lineHeight-face.Height)/2)
		d.DrawString(s)
	}
}

func (l *layout) hline(x0, x1, y int) {
	if y >= l.height {
		y = l.height - 1
	}
	draw.Draw(l.page(), image.Rect(x0, y, x1+1, y+1), ink, image.Point{}, draw.Src)
}

func (l *layout) vline(x, y0, y1 int) {
	if y1 >= l.height {
		y1 = l.height - 1
	}
	draw.Draw(l.page(), image.Rect(x, y0, x+1, y1+1), ink, image.Point{}, draw.Src)
}

func measure(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// clip shortens s until it fits width, marking the cut with "..".
// centerIn clips s to width and returns it with the x that centers it in
// [x0, x0+width).
func centerIn(s string, x0, width int) (string, int) {
	s = clip(s, width)
	return s, x0 + (width-measure(s))/2
}

func clip(s string, width int) string {
	if measure(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if measure(string(runes)+"..") <= width {
			return string(runes) + ".."
		}
	}
	return ""
}
