package raster_test

import (
	"context"
	"fmt"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/raster"
	"github.com/ginjaninja78/pln-usage-report/internal/report"
)

var fixedNow = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func renderWith(n int) *report.Document {
	items := make([]model.LineItem, n)
	for i := range items {
		items[i] = model.LineItem{Name: fmt.Sprintf("Item %d", i+1), UnitPrice: 1000, Quantity: 1, Unit: "pcs"}
	}
	return report.Render(model.NewSnapshot(model.Customer{Name: "Budi"}, items), fixedNow)
}

func TestOptions_ContentSize(t *testing.T) {
	w, h := raster.DefaultOptions().ContentSize()
	assert.Equal(t, 602, w)
	assert.Equal(t, 930, h)
}

func TestCapture_SinglePage(t *testing.T) {
	s := raster.NewSurface(renderWith(1), raster.DefaultOptions())

	pages, err := s.Capture(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 1)

	w, h := raster.DefaultOptions().ContentSize()
	b := pages[0].Bounds()
	assert.Equal(t, w*2, b.Dx())
	assert.Equal(t, h*2, b.Dy())

	// Something was drawn on a white page.
	var dark bool
	for y := b.Min.Y; y < b.Max.Y && !dark; y += 3 {
		for x := b.Min.X; x < b.Max.X; x += 3 {
			r, _, _, _ := pages[0].At(x, y).RGBA()
			if r < 0x8000 {
				dark = true
				break
			}
		}
	}
	assert.True(t, dark)
	assert.Equal(t, color.RGBAModel.Convert(color.White), color.RGBAModel.Convert(pages[0].At(b.Max.X-1, b.Max.Y-1)))
}

func TestCapture_Paginates(t *testing.T) {
	opts := raster.Options{DPI: 96, Scale: 1, MarginInches: 1}
	pages, err := raster.NewSurface(renderWith(80), opts).Capture(context.Background())
	require.NoError(t, err)
	assert.Greater(t, len(pages), 1)
}

func TestCapture_DoesNotMutateMountedDocument(t *testing.T) {
	doc := renderWith(3)
	before := doc.Clone()

	_, err := raster.NewSurface(doc, raster.DefaultOptions()).Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, doc)
}

func TestCapture_Errors(t *testing.T) {
	_, err := raster.NewSurface(nil, raster.DefaultOptions()).Capture(context.Background())
	assert.ErrorIs(t, err, raster.ErrNoDocument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = raster.NewSurface(renderWith(1), raster.DefaultOptions()).Capture(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
