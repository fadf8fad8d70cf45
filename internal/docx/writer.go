// =============================================================================
// PLN Usage Report - DOCX Writer Module
// =============================================================================
//
// This module serializes a docmodel.Document into an Office Open XML
// WordprocessingML package (.docx). Every XML part is built as an element
// tree with beevik/etree and the parts are zipped in a fixed order with a
// fixed timestamp, so the same document always yields the same bytes.
//
// PACKAGE LAYOUT:
//
//   [Content_Types].xml              <!-- part content types -->
//   _rels/.rels                      <!-- package relationships -->
//   docProps/core.xml                <!-- title, author, created -->
//   word/document.xml                <!-- the body -->
//   word/_rels/document.xml.rels     <!-- document relationships (empty) -->
//
// BODY STRUCTURE:
//
//   <w:document>
//     <w:body>
//       <w:p>                        <!-- paragraph -->
//         <w:pPr><w:jc w:val="center"/></w:pPr>
//         <w:r>
//           <w:rPr><w:b/><w:sz w:val="32"/></w:rPr>
//           <w:t xml:space="preserve">text</w:t>
//         </w:r>
//       </w:p>
//       <w:tbl>                      <!-- table -->
//         <w:tblGrid>...</w:tblGrid>
//         <w:tr>                     <!-- one per row -->
//           <w:tc>...</w:tc>
//         </w:tr>
//       </w:tbl>
//       <w:sectPr>...</w:sectPr>     <!-- A4 portrait, 1 inch margins -->
//     </w:body>
//   </w:document>
//
// =============================================================================

package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/ginjaninja78/pln-usage-report/internal/docmodel"
)

// ErrNilDocument is returned when Encode is given no document.
var ErrNilDocument = errors.New("docx: nil document")

// =============================================================================
// NAMESPACES AND PAGE GEOMETRY
// =============================================================================

const (
	nsW             = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPkgRels       = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsCoreProps     = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC            = "http://purl.org/dc/elements/1.1/"
	nsDCTerms       = "http://purl.org/dc/terms/"
	nsXSI           = "http://www.w3.org/2001/XMLSchema-instance"
	relOfficeDoc    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps    = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	ctDocumentMain  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctRelationships = "application/vnd.openxmlformats-package.relationships+xml"
)

// A4 portrait in twentieths of a point, with one inch margins.
const (
	pageWidthTwips  = 11906
	pageHeightTwips = 16838
	marginTwips     = 1440
	contentTwips    = pageWidthTwips - 2*marginTwips
)

// Part names in the order they are written to the archive.
const (
	PartContentTypes = "[Content_Types].xml"
	PartRels         = "_rels/.rels"
	PartCore         = "docProps/core.xml"
	PartDocument     = "word/document.xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
)

// =============================================================================
// ENCODING
// =============================================================================

// Encode serializes doc into the bytes of a .docx file.
//
// PARAMETERS:
//   - doc: The document tree. Its Created time stamps every archive entry.
//
// RETURNS:
//   - The .docx bytes.
//   - An error if any part fails to serialize.
func Encode(doc *docmodel.Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	parts := []struct {
		name string
		tree *etree.Document
	}{
		{PartContentTypes, contentTypes()},
		{PartRels, packageRels()},
		{PartCore, coreProps(doc)},
		{PartDocument, documentPart(doc)},
		{PartDocumentRels, documentRels()},
	}

	modified := doc.Created.UTC()
	if doc.Created.IsZero() {
		modified = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, p := range parts {
		data, err := p.tree.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("docx: serialize %s: %w", p.name, err)
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("docx: create entry %s: %w", p.name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return nil, fmt.Errorf("docx: write entry %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("docx: close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// newPart starts an XML part with the standard declaration.
func newPart() *etree.Document {
	d := etree.NewDocument()
	d.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return d
}

// =============================================================================
// PACKAGE PARTS
// =============================================================================

func contentTypes() *etree.Document {
	d := newPart()
	types := d.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)

	for _, ext := range []struct{ ext, ct string }{
		{"rels", ctRelationships},
		{"xml", "application/xml"},
	} {
		def := types.CreateElement("Default")
		def.CreateAttr("Extension", ext.ext)
		def.CreateAttr("ContentType", ext.ct)
	}

	for _, o := range []struct{ part, ct string }{
		{"/" + PartDocument, ctDocumentMain},
		{"/" + PartCore, ctCoreProps},
	} {
		ov := types.CreateElement("Override")
		ov.CreateAttr("PartName", o.part)
		ov.CreateAttr("ContentType", o.ct)
	}
	return d
}

func packageRels() *etree.Document {
	d := newPart()
	rels := d.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsPkgRels)
	addRel(rels, "rId1", relOfficeDoc, PartDocument)
	addRel(rels, "rId2", relCoreProps, PartCore)
	return d
}

func documentRels() *etree.Document {
	d := newPart()
	rels := d.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsPkgRels)
	return d
}

func addRel(parent *etree.Element, id, relType, target string) {
	r := parent.CreateElement("Relationship")
	r.CreateAttr("Id", id)
	r.CreateAttr("Type", relType)
	r.CreateAttr("Target", target)
}

func coreProps(doc *docmodel.Document) *etree.Document {
	d := newPart()
	cp := d.CreateElement("cp:coreProperties")
	cp.CreateAttr("xmlns:cp", nsCoreProps)
	cp.CreateAttr("xmlns:dc", nsDC)
	cp.CreateAttr("xmlns:dcterms", nsDCTerms)
	cp.CreateAttr("xmlns:xsi", nsXSI)

	setIfNotEmpty(cp, "dc:title", doc.Title)
	setIfNotEmpty(cp, "dc:subject", doc.Subject)
	setIfNotEmpty(cp, "dc:creator", doc.Author)
	setIfNotEmpty(cp, "dc:identifier", doc.Identifier)

	if !doc.Created.IsZero() {
		created := cp.CreateElement("dcterms:created")
		created.CreateAttr("xsi:type", "dcterms:W3CDTF")
		created.SetText(doc.Created.UTC().Format(time.RFC3339))
	}
	return d
}

func setIfNotEmpty(parent *etree.Element, tag, value string) {
	if value == "" {
		return
	}
	parent.CreateElement(tag).SetText(value)
}

// =============================================================================
// DOCUMENT BODY
// =============================================================================

func documentPart(doc *docmodel.Document) *etree.Document {
	d := newPart()
	root := d.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)

	body := root.CreateElement("w:body")
	for _, b := range doc.Blocks {
		switch blk := b.(type) {
		case *docmodel.Paragraph:
			writeParagraph(body, *blk)
		case *docmodel.Table:
			writeTable(body, blk)
		}
	}
	writeSection(body)
	return d
}

// writeParagraph appends a w:p for p to parent.
func writeParagraph(parent *etree.Element, p docmodel.Paragraph) {
	wp := parent.CreateElement("w:p")

	ppr := wp.CreateElement("w:pPr")
	if p.SpaceAfterPt > 0 {
		sp := ppr.CreateElement("w:spacing")
		sp.CreateAttr("w:after", strconv.Itoa(int(p.SpaceAfterPt*20)))
	}
	setVal(ppr.CreateElement("w:jc"), jcValue(p.Align))

	for _, run := range p.Runs {
		writeRun(wp, run)
	}
}

// writeRun appends a w:r for run to parent.
func writeRun(parent *etree.Element, run docmodel.Run) {
	wr := parent.CreateElement("w:r")

	if run.Bold || run.SizePt > 0 {
		rpr := wr.CreateElement("w:rPr")
		if run.Bold {
			rpr.CreateElement("w:b")
		}
		if run.SizePt > 0 {
			// Sizes are stored in half-points.
			halfPoints := strconv.Itoa(int(run.SizePt * 2))
			setVal(rpr.CreateElement("w:sz"), halfPoints)
			setVal(rpr.CreateElement("w:szCs"), halfPoints)
		}
	}

	t := wr.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(run.Text)
}

// writeTable appends a w:tbl for t to parent.
func writeTable(parent *etree.Element, t *docmodel.Table) {
	tbl := parent.CreateElement("w:tbl")

	tblPr := tbl.CreateElement("w:tblPr")
	w := tblPr.CreateElement("w:tblW")
	w.CreateAttr("w:w", strconv.Itoa(contentTwips))
	w.CreateAttr("w:type", "dxa")
	setVal(tblPr.CreateElement("w:tblLayout"), "fixed")

	widths := gridWidths(t)
	grid := tbl.CreateElement("w:tblGrid")
	for _, tw := range widths {
		gc := grid.CreateElement("w:gridCol")
		gc.CreateAttr("w:w", strconv.Itoa(tw))
	}

	for _, row := range t.Rows {
		tr := tbl.CreateElement("w:tr")
		if row.Header {
			trPr := tr.CreateElement("w:trPr")
			trPr.CreateElement("w:tblHeader")
		}

		col := 0
		for _, cell := range row.Cells {
			span := cell.GridSpan()
			writeCell(tr, cell, spanWidth(widths, col, span))
			col += span
		}
	}
}

// writeCell appends a w:tc for c to parent.
func writeCell(parent *etree.Element, c docmodel.Cell, widthTwips int) {
	tc := parent.CreateElement("w:tc")
	tcPr := tc.CreateElement("w:tcPr")

	tcW := tcPr.CreateElement("w:tcW")
	tcW.CreateAttr("w:w", strconv.Itoa(widthTwips))
	tcW.CreateAttr("w:type", "dxa")

	if span := c.GridSpan(); span > 1 {
		setVal(tcPr.CreateElement("w:gridSpan"), strconv.Itoa(span))
	}

	if !c.Borders.IsZero() {
		borders := tcPr.CreateElement("w:tcBorders")
		writeBorder(borders, "w:top", c.Borders.Top)
		writeBorder(borders, "w:left", c.Borders.Left)
		writeBorder(borders, "w:bottom", c.Borders.Bottom)
		writeBorder(borders, "w:right", c.Borders.Right)
	}

	if c.Shading != "" {
		shd := tcPr.CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:color", "auto")
		shd.CreateAttr("w:fill", c.Shading)
	}

	// A cell must hold at least one paragraph.
	if len(c.Paragraphs) == 0 {
		writeParagraph(tc, docmodel.Paragraph{})
		return
	}
	for _, p := range c.Paragraphs {
		writeParagraph(tc, p)
	}
}

func writeBorder(parent *etree.Element, tag string, style docmodel.BorderStyle) {
	b := parent.CreateElement(tag)
	if style == docmodel.BorderNone {
		b.CreateAttr("w:val", "nil")
		return
	}
	b.CreateAttr("w:val", "single")
	b.CreateAttr("w:sz", "4")
	b.CreateAttr("w:space", "0")
	b.CreateAttr("w:color", "000000")
}

// writeSection appends the page setup: A4 portrait, one inch margins.
func writeSection(body *etree.Element) {
	sect := body.CreateElement("w:sectPr")

	pgSz := sect.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", strconv.Itoa(pageWidthTwips))
	pgSz.CreateAttr("w:h", strconv.Itoa(pageHeightTwips))

	m := strconv.Itoa(marginTwips)
	pgMar := sect.CreateElement("w:pgMar")
	for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		pgMar.CreateAttr(side, m)
	}
	pgMar.CreateAttr("w:header", "720")
	pgMar.CreateAttr("w:footer", "720")
	pgMar.CreateAttr("w:gutter", "0")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func setVal(e *etree.Element, v string) {
	e.CreateAttr("w:val", v)
}

func jcValue(a docmodel.Alignment) string {
	switch a {
	case docmodel.AlignCenter:
		return "center"
	case docmodel.AlignRight:
		return "right"
	default:
		return "left"
	}
}

// gridWidths scales the relative widths of t to the content width.
func gridWidths(t *docmodel.Table) []int {
	cols := t.Columns()
	if cols == 0 {
		return nil
	}

	weights := t.Widths
	if len(weights) == 0 {
		weights = make([]int, cols)
		for i := range weights {
			weights[i] = 1
		}
	}

	sum := 0
	for _, w := range weights {
		sum += max(w, 0)
	}
	if sum == 0 {
		sum = len(weights)
		weights = make([]int, len(weights))
		for i := range weights {
			weights[i] = 1
		}
	}

	out := make([]int, len(weights))
	for i, w := range weights {
		out[i] = contentTwips * max(w, 0) / sum
	}
	return out
}

// spanWidth sums the grid widths covered by a cell starting at col.
func spanWidth(widths []int, col, span int) int {
	total := 0
	for i := col; i < col+span && i < len(widths); i++ {
		total += widths[i]
	}
	return total
}
