package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/qmuntal/stateless"

	"github.com/ginjaninja78/pln-usage-report/internal/report"
	"github.com/ginjaninja78/pln-usage-report/pkg/logger"
)

// =============================================================================
// STATES
// =============================================================================

// Visual exporter states.
const (
	StateIdle      = "Idle"
	StateCapturing = "Capturing"
	StateEncoding  = "Encoding"
	StateSaved     = "Saved"
	StateFailed    = "Failed"
)

const (
	triggerCapture = "capture"
	triggerEncode  = "encode"
	triggerSave    = "save"
	triggerFail    = "fail"
)

// =============================================================================
// OPTIONS
// =============================================================================

// VisualOptions controls the PDF encoding.
type VisualOptions struct {
	// JPEGQuality is the quality of the embedded page images.
	// Default: 98
	JPEGQuality int

	// MarginInches is the page margin on every side.
	// Default: 1
	MarginInches float64
}

// DefaultVisualOptions returns the default encoding options.
func DefaultVisualOptions() VisualOptions {
	return VisualOptions{JPEGQuality: 98, MarginInches: 1}
}

// =============================================================================
// VISUAL EXPORTER
// =============================================================================

// VisualExporter captures the mounted printable surface into a PDF.
//
// STATE MACHINE:
//
//	Idle ──capture──▶ Capturing ──encode──▶ Encoding ──save──▶ Saved
//	                     │                     │
//	                     └───────fail──────────┴──────────▶ Failed
//
// Saved and Failed accept a new capture.
type VisualExporter struct {
	busyFlag

	registry  *SurfaceRegistry
	deliverer Deliverer
	settings  Settings
	opts      VisualOptions
	log       *logger.Logger
	machine   *stateless.StateMachine
}

// NewVisualExporter wires an exporter to a surface registry and a deliverer.
func NewVisualExporter(registry *SurfaceRegistry, deliverer Deliverer, settings Settings, opts VisualOptions, log *logger.Logger) *VisualExporter {
	d := DefaultVisualOptions()
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = d.JPEGQuality
	}
	if opts.MarginInches < 0 {
		opts.MarginInches = d.MarginInches
	}

	e := &VisualExporter{
		registry:  registry,
		deliverer: deliverer,
		settings:  settings,
		opts:      opts,
		log:       log.With("visual-export"),
		machine:   stateless.NewStateMachine(StateIdle),
	}

	e.machine.Configure(StateIdle).
		Permit(triggerCapture, StateCapturing)

	e.machine.Configure(StateCapturing).
		Permit(triggerEncode, StateEncoding).
		Permit(triggerFail, StateFailed)

	e.machine.Configure(StateEncoding).
		Permit(triggerSave, StateSaved).
		Permit(triggerFail, StateFailed)

	e.machine.Configure(StateSaved).
		Permit(triggerCapture, StateCapturing)

	e.machine.Configure(StateFailed).
		Permit(triggerCapture, StateCapturing).
		OnEntry(func(_ context.Context, args ...any) error {
			if len(args) > 0 {
				if err, ok := args[0].(error); ok {
					e.log.Error().Err(err).Msg("visual export failed")
				}
			}
			return nil
		})

	return e
}

// State returns the current state of the exporter.
func (e *VisualExporter) State() string {
	return e.machine.MustState().(string)
}

// Export captures the surface mounted under SurfaceID, encodes it and
// delivers PLN_Usage_Report_<date>.pdf.
//
// RETURNS:
//   - The delivered output.
//   - ErrMissingRenderSurface when nothing is mounted; no file is produced.
//   - ErrExportInProgress when another export is running.
func (e *VisualExporter) Export(ctx context.Context) (*Output, error) {
	return e.ExportAt(ctx, e.settings.now())
}

// ExportAt is Export with the export time fixed by the caller. The time
// stamps the PDF metadata and the file name.
func (e *VisualExporter) ExportAt(ctx context.Context, now time.Time) (*Output, error) {
	if err := e.acquire(); err != nil {
		return nil, err
	}
	defer e.release()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := e.machine.Fire(triggerCapture); err != nil {
		return nil, fmt.Errorf("export: start capture: %w", err)
	}

	// =========================================================================
	// STEP 1: CAPTURE
	// =========================================================================

	surface, ok := e.registry.Lookup(SurfaceID)
	if !ok {
		return nil, e.fail(ErrMissingRenderSurface)
	}

	pages, err := surface.Capture(ctx)
	if err != nil {
		return nil, e.fail(fmt.Errorf("export: capture surface: %w", err))
	}
	if len(pages) == 0 {
		return nil, e.fail(fmt.Errorf("export: capture surface: no pages"))
	}

	// =========================================================================
	// STEP 2: ENCODE
	// =========================================================================

	if err := e.machine.Fire(triggerEncode); err != nil {
		return nil, e.fail(err)
	}

	data, err := EncodePDF(pages, now, e.opts)
	if err != nil {
		return nil, e.fail(err)
	}

	// =========================================================================
	// STEP 3: DELIVER
	// =========================================================================

	name := FileName(e.settings.ReportName, now, "pdf", "")
	location, err := e.deliverer.Deliver(ctx, name, data)
	if err != nil {
		return nil, e.fail(fmt.Errorf("export: deliver %s: %w", name, err))
	}

	if err := e.machine.Fire(triggerSave); err != nil {
		return nil, fmt.Errorf("export: finish: %w", err)
	}

	e.log.Info().
		Str("file", name).
		Int("pages", len(pages)).
		Int("bytes", len(data)).
		Msg("visual export saved")

	return &Output{
		Format:   FormatPDF,
		FileName: name,
		Location: location,
		Bytes:    len(data),
		Pages:    len(pages),
	}, nil
}

// fail moves the machine to Failed and returns err.
func (e *VisualExporter) fail(err error) error {
	if ferr := e.machine.Fire(triggerFail, err); ferr != nil {
		e.log.Warn().Err(ferr).Msg("state transition to Failed rejected")
	}
	return err
}

// =============================================================================
// PDF ENCODING
// =============================================================================

// EncodePDF places each page image, JPEG-encoded, on its own A4 portrait
// page inside the margins of opts. Images keep their aspect ratio and are
// fitted to the content width.
func EncodePDF(pages []image.Image, created time.Time, opts VisualOptions) ([]byte, error) {
	pdf := gofpdf.New("P", "in", "A4", "")
	pdf.SetMargins(opts.MarginInches, opts.MarginInches, opts.MarginInches)
	pdf.SetAutoPageBreak(false, opts.MarginInches)
	pdf.SetTitle(report.Title, true)
	pdf.SetAuthor(report.Organization, true)
	pdf.SetCreationDate(created)

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*opts.MarginInches
	contentH := pageH - 2*opts.MarginInches

	for i, page := range pages {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, page, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
			return nil, fmt.Errorf("export: encode page %d: %w", i+1, err)
		}

		name := fmt.Sprintf("page-%d", i+1)
		imgOpts := gofpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader(name, imgOpts, &buf)

		b := page.Bounds()
		w := contentW
		h := w * float64(b.Dy()) / float64(b.Dx())
		if h > contentH {
			h = contentH
			w = h * float64(b.Dx()) / float64(b.Dy())
		}

		pdf.AddPage()
		pdf.ImageOptions(name, opts.MarginInches, opts.MarginInches, w, h, false, imgOpts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("export: write pdf: %w", err)
	}
	return out.Bytes(), nil
}
