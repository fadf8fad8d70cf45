// =============================================================================
// PLN Usage Report - Abstract Document Model
// =============================================================================
//
// This module describes a word-processor document as a tree of plain values:
// paragraphs made of styled runs, and tables made of rows of cells. It knows
// nothing about any file format; the docx package serializes it.
//
// TREE SHAPE:
//
//   Document
//     ├── Paragraph  (alignment, runs)
//     │     └── Run  (text, bold, size in points)
//     └── Table      (relative column widths)
//           └── Row  (header flag)
//                 └── Cell (paragraphs, column span, borders, shading)
//
// =============================================================================

package docmodel

import "time"

// =============================================================================
// INLINE CONTENT
// =============================================================================

// Alignment is the horizontal alignment of a paragraph.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// String returns the lower-case name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Run is a stretch of text sharing one style.
type Run struct {
	Text string
	Bold bool

	// SizePt is the font size in points. Zero keeps the document default.
	SizePt float64
}

// Paragraph is a block of runs with one alignment.
type Paragraph struct {
	Align Alignment
	Runs  []Run

	// SpaceAfterPt is the spacing below the paragraph in points.
	SpaceAfterPt float64
}

// Text concatenates the text of all runs.
func (p Paragraph) Text() string {
	var out string
	for _, r := range p.Runs {
		out += r.Text
	}
	return out
}

// =============================================================================
// TABLES
// =============================================================================

// BorderStyle is the line style of one cell edge.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderSingle
)

// Borders holds the style of each edge of a cell.
type Borders struct {
	Top, Left, Bottom, Right BorderStyle
}

// SingleBorders returns borders with a single line on every side.
func SingleBorders() Borders {
	return Borders{Top: BorderSingle, Left: BorderSingle, Bottom: BorderSingle, Right: BorderSingle}
}

// IsZero reports whether no edge has a border.
func (b Borders) IsZero() bool {
	return b == Borders{}
}

// Cell is one table cell.
type Cell struct {
	Paragraphs []Paragraph

	// Span is the number of grid columns the cell covers. Values below 1
	// are treated as 1.
	Span int

	Borders Borders

	// Shading is an optional RGB hex fill such as "F2F2F2".
	Shading string
}

// GridSpan returns the effective column span of the cell.
func (c Cell) GridSpan() int {
	if c.Span < 1 {
		return 1
	}
	return c.Span
}

// Row is one table row.
type Row struct {
	Cells []Cell

	// Header marks the row as a repeating header row.
	Header bool
}

// Table is a grid of rows.
type Table struct {
	// Widths are relative column widths. The serializer scales them to the
	// available page width.
	Widths []int
	Rows   []Row
}

// Columns returns the number of grid columns of the table.
func (t *Table) Columns() int {
	if len(t.Widths) > 0 {
		return len(t.Widths)
	}
	n := 0
	for _, r := range t.Rows {
		w := 0
		for _, c := range r.Cells {
			w += c.GridSpan()
		}
		n = max(n, w)
	}
	return n
}

// =============================================================================
// DOCUMENT
// =============================================================================

// Block is a top-level body element: *Paragraph or *Table.
type Block interface {
	block()
}

func (*Paragraph) block() {}
func (*Table) block()     {}

// Document is the root of the tree.
type Document struct {
	// Metadata written to the package properties.
	Title      string
	Author     string
	Subject    string
	Identifier string
	Created    time.Time

	Blocks []Block
}

// Tables returns the table blocks of the document in order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, b := range d.Blocks {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}
