// =============================================================================
// PLN Usage Report - Headless Render Surface
// =============================================================================
//
// This module is the off-screen counterpart of the printable report. It lays
// a report.Document out onto A4 portrait pages with a fixed-width bitmap font
// and returns one image per page, ready to be encoded into a PDF.
//
// CAPTURE PROCESS:
//   1. Clone the mounted document (the mounted instance is never touched)
//   2. Lay the clone out at the base DPI, starting a new page whenever the
//      next block would cross the bottom of the content area
//   3. Upscale every page by the scale factor
//
// GEOMETRY:
//   Pages cover the content area only (A4 minus the margins). The PDF
//   encoder places each page image inside the same margins.
//
// =============================================================================

package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"github.com/ginjaninja78/pln-usage-report/internal/report"
)

// ErrNoDocument is returned when a surface has nothing mounted.
var ErrNoDocument = errors.New("raster: no document to capture")

// A4 page size in inches.
const (
	A4WidthInches  = 8.27
	A4HeightInches = 11.69
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls the layout resolution.
type Options struct {
	// DPI is the base layout resolution.
	// Default: 96
	DPI float64

	// Scale multiplies the base resolution of the captured pages.
	// Default: 2
	Scale float64

	// MarginInches is the page margin excluded from the content area.
	// Default: 1
	MarginInches float64
}

// DefaultOptions returns the default capture options.
func DefaultOptions() Options {
	return Options{
		DPI:          96,
		Scale:        2,
		MarginInches: 1,
	}
}

// normalize fills zero values with defaults.
func (o Options) normalize() Options {
	d := DefaultOptions()
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	if o.MarginInches < 0 || o.MarginInches*2 >= A4WidthInches {
		o.MarginInches = d.MarginInches
	}
	return o
}

// ContentSize returns the content area in base-resolution pixels.
func (o Options) ContentSize() (width, height int) {
	o = o.normalize()
	width = int(math.Round((A4WidthInches - 2*o.MarginInches) * o.DPI))
	height = int(math.Round((A4HeightInches - 2*o.MarginInches) * o.DPI))
	return width, height
}

// =============================================================================
// SURFACE
// =============================================================================

// Surface renders one report document off-screen.
type Surface struct {
	doc  *report.Document
	opts Options
}

// NewSurface mounts doc on a new surface.
func NewSurface(doc *report.Document, opts Options) *Surface {
	return &Surface{doc: doc, opts: opts.normalize()}
}

// Options returns the effective options of the surface.
func (s *Surface) Options() Options {
	return s.opts
}

// Capture lays out a snapshot of the mounted document and returns the
// upscaled page images in order.
func (s *Surface) Capture(ctx context.Context) ([]image.Image, error) {
	if s == nil || s.doc == nil {
		return nil, ErrNoDocument
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := s.doc.Clone()

	w, h := s.opts.ContentSize()
	l := newLayout(w, h)
	l.document(snapshot)

	pages := make([]image.Image, 0, len(l.pages))
	for i, page := range l.pages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("raster: capture page %d: %w", i+1, err)
		}
		pages = append(pages, upscale(page, s.opts.Scale))
	}
	return pages, nil
}

// upscale resizes src by factor with bilinear interpolation.
func upscale(src *image.RGBA, factor float64) image.Image {
	if factor == 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0,
		int(math.Round(float64(b.Dx())*factor)),
		int(math.Round(float64(b.Dy())*factor)),
	))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// newPage returns a white page of the given size.
func newPage(w, h int) *image.RGBA {
	page := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(page, page.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return page
}
