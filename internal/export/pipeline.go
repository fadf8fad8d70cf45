package export

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/pln-usage-report/internal/model"
	"github.com/ginjaninja78/pln-usage-report/internal/raster"
	"github.com/ginjaninja78/pln-usage-report/internal/report"
	"github.com/ginjaninja78/pln-usage-report/pkg/logger"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one format of a pipeline run.
type Result struct {
	// RunID identifies the pipeline run that produced the result.
	RunID string

	// Format is the requested format.
	Format Format

	// FileName is the delivered file name. Empty if the export failed.
	FileName string

	// OutputFile is where the deliverer stored the file.
	OutputFile string

	// Success indicates whether the export was delivered.
	Success bool

	// Error contains the error if the export failed.
	Error error

	// Stats contains export statistics.
	Stats ExportStats
}

// ExportStats contains statistics about one export.
type ExportStats struct {
	// Items is the number of line items in the snapshot.
	Items int

	// Pages is the number of pages produced, when known.
	Pages int

	// Bytes is the size of the delivered file.
	Bytes int

	// Duration is the time taken by the export.
	Duration time.Duration
}

// =============================================================================
// PIPELINE
// =============================================================================

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	Settings Settings
	Raster   raster.Options
	Visual   VisualOptions
}

// Pipeline runs several exports of one snapshot.
//
// EXPORT PROCESS:
//  1. Render the snapshot and mount it on a raster surface under SurfaceID
//  2. Run every requested format in its own goroutine
//  3. Wait for all of them, then unmount the surface
//  4. Return one Result per format, in request order
type Pipeline struct {
	registry   *SurfaceRegistry
	visual     *VisualExporter
	structured *StructuredExporter
	print      *PrintExporter
	opts       PipelineOptions
	log        *logger.Logger
}

// NewPipeline builds the three exporters around deliverer.
func NewPipeline(deliverer Deliverer, opts PipelineOptions, log *logger.Logger) *Pipeline {
	registry := NewSurfaceRegistry()
	return &Pipeline{
		registry:   registry,
		visual:     NewVisualExporter(registry, deliverer, opts.Settings, opts.Visual, log),
		structured: NewStructuredExporter(deliverer, opts.Settings, log),
		print:      NewPrintExporter(deliverer, opts.Settings, log),
		opts:       opts,
		log:        log.With("export"),
	}
}

// Registry returns the surface registry used by the visual exporter.
func (p *Pipeline) Registry() *SurfaceRegistry { return p.registry }

// Visual returns the visual exporter.
func (p *Pipeline) Visual() *VisualExporter { return p.visual }

// Run exports snap in every format of formats.
//
// PARAMETERS:
//   - ctx: Checked before each export starts.
//   - snap: The session snapshot. Each export works on its own copy.
//   - formats: The formats to produce, see ParseFormats.
//
// RETURNS:
//   - One Result per format, in the order of formats.
func (p *Pipeline) Run(ctx context.Context, snap model.Snapshot, formats []Format) []Result {
	runID := uuid.NewString()
	log := p.log.Zerolog().With().Str("run_id", runID).Logger()

	log.Info().Int("formats", len(formats)).Int("items", len(snap.Items)).Msg("export run started")

	// One clock reading per run: the rendered date and every file name agree.
	now := p.opts.Settings.now()

	if slices.Contains(formats, FormatPDF) {
		doc := report.Render(snap.Clone(), now)
		p.registry.Mount(SurfaceID, raster.NewSurface(doc, p.opts.Raster))
		defer p.registry.Unmount(SurfaceID)
	}

	results := make([]Result, len(formats))
	var wg sync.WaitGroup

	for i, f := range formats {
		wg.Add(1)
		go func(i int, f Format, snap model.Snapshot) {
			defer wg.Done()
			results[i] = p.runOne(ctx, f, snap, now)
			results[i].RunID = runID
		}(i, f, snap.Clone())
	}

	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
			log.Info().Str("format", string(r.Format)).Str("file", r.OutputFile).Dur("duration", r.Stats.Duration).Msg("export delivered")
		} else {
			log.Error().Str("format", string(r.Format)).Err(r.Error).Msg("export failed")
		}
	}
	log.Info().Int("succeeded", succeeded).Int("failed", len(results)-succeeded).Msg("export run finished")

	return results
}

// runOne performs a single export and records its outcome.
func (p *Pipeline) runOne(ctx context.Context, f Format, snap model.Snapshot, now time.Time) Result {
	start := time.Now()
	result := Result{
		Format: f,
		Stats:  ExportStats{Items: len(snap.Items)},
	}

	var (
		out *Output
		err error
	)
	switch f {
	case FormatPDF:
		out, err = p.visual.ExportAt(ctx, now)
	case FormatDOCX:
		out, err = p.structured.ExportAt(ctx, snap, now)
	case FormatPrint:
		out, err = p.print.ExportAt(ctx, snap, now)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	result.Stats.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		return result
	}

	result.FileName = out.FileName
	result.OutputFile = out.Location
	result.Stats.Pages = out.Pages
	result.Stats.Bytes = out.Bytes
	result.Success = true
	return result
}
