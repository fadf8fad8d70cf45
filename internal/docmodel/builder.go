package docmodel

import "time"

// Builder assembles a Document block by block.
//
// USAGE:
//
//	doc := docmodel.NewBuilder("Title").
//	    Paragraph(docmodel.AlignCenter, docmodel.Run{Text: "Hello", Bold: true}).
//	    Table([]int{1, 2}, rows...).
//	    Build()
type Builder struct {
	doc Document
}

// NewBuilder starts a document with the given title.
func NewBuilder(title string) *Builder {
	return &Builder{doc: Document{Title: title}}
}

// Meta sets the package metadata.
func (b *Builder) Meta(author, subject, identifier string, created time.Time) *Builder {
	b.doc.Author = author
	b.doc.Subject = subject
	b.doc.Identifier = identifier
	b.doc.Created = created
	return b
}

// Paragraph appends a paragraph made of runs.
func (b *Builder) Paragraph(align Alignment, runs ...Run) *Builder {
	b.doc.Blocks = append(b.doc.Blocks, &Paragraph{Align: align, Runs: runs})
	return b
}

// Text appends a single-run paragraph.
func (b *Builder) Text(align Alignment, text string) *Builder {
	return b.Paragraph(align, Run{Text: text})
}

// Spacer appends an empty paragraph.
func (b *Builder) Spacer() *Builder {
	b.doc.Blocks = append(b.doc.Blocks, &Paragraph{})
	return b
}

// Table appends a table.
func (b *Builder) Table(widths []int, rows ...Row) *Builder {
	b.doc.Blocks = append(b.doc.Blocks, &Table{Widths: widths, Rows: rows})
	return b
}

// Build returns the assembled document. The builder must not be reused.
func (b *Builder) Build() *Document {
	doc := b.doc
	return &doc
}

// TextCell returns a bordered single-paragraph cell.
func TextCell(align Alignment, run Run) Cell {
	return Cell{
		Paragraphs: []Paragraph{{Align: align, Runs: []Run{run}}},
		Span:       1,
		Borders:    SingleBorders(),
	}
}

// SpanCell is TextCell covering span grid columns.
func SpanCell(align Alignment, run Run, span int) Cell {
	c := TextCell(align, run)
	c.Span = span
	return c
}
