// =============================================================================
// PLN Usage Report - Export Module
// =============================================================================
//
// This module turns a snapshot of the session into downloadable files.
//
// EXPORTERS:
//   - VisualExporter     : captures the mounted printable surface and encodes
//                          the page images into a PDF
//   - StructuredExporter : builds a word-processor document from the snapshot
//                          and serializes it to .docx
//   - PrintExporter      : draws the report as a vector PDF for printing
//
// Every exporter hands its bytes to a Deliverer together with a file name of
// the form PLN_Usage_Report_<YYYY-MM-DD>.<ext>.
//
// CONCURRENCY:
//   Exporters work on value snapshots and may run at the same time. A second
//   call on the same exporter while one is in flight is rejected with
//   ErrExportInProgress.
//
// =============================================================================

package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ginjaninja78/pln-usage-report/internal/report"
)

var (
	// ErrMissingRenderSurface is returned when no printable surface is mounted.
	ErrMissingRenderSurface = errors.New("export: printable report surface is not mounted")

	// ErrExportInProgress is returned when an exporter is already running.
	ErrExportInProgress = errors.New("export: an export is already in progress")

	// ErrUnknownFormat is returned for an unsupported format name.
	ErrUnknownFormat = errors.New("export: unknown format")
)

// =============================================================================
// FORMATS
// =============================================================================

// Format names one kind of export.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatDOCX  Format = "docx"
	FormatPrint Format = "print"
)

// AllFormats lists every format in pipeline order.
var AllFormats = []Format{FormatPDF, FormatDOCX, FormatPrint}

// ParseFormats turns format names into formats. "all" expands to AllFormats;
// no names means FormatPDF. Duplicates are dropped.
func ParseFormats(names []string) ([]Format, error) {
	if len(names) == 0 {
		return []Format{FormatPDF}, nil
	}

	seen := make(map[Format]bool)
	var out []Format
	add := func(f Format) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}

	for _, name := range names {
		switch n := Format(strings.ToLower(strings.TrimSpace(name))); n {
		case "all":
			for _, f := range AllFormats {
				add(f)
			}
		case FormatPDF, FormatDOCX, FormatPrint:
			add(n)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
		}
	}
	return out, nil
}

// =============================================================================
// FILE NAMES
// =============================================================================

// DefaultReportName is the file name prefix of every export.
const DefaultReportName = "PLN_Usage_Report"

// FileName builds "<reportName>_<YYYY-MM-DD>[_suffix].<ext>" from the local
// date of now.
func FileName(reportName string, now time.Time, ext, suffix string) string {
	if reportName == "" {
		reportName = DefaultReportName
	}
	name := reportName + "_" + report.ISODate(now)
	if suffix != "" {
		name += "_" + suffix
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}

// =============================================================================
// DELIVERY
// =============================================================================

// Deliverer hands a finished file to the user.
type Deliverer interface {
	// Deliver stores data under name and returns where it ended up.
	Deliver(ctx context.Context, name string, data []byte) (string, error)
}

// Output describes one delivered file.
type Output struct {
	Format   Format
	FileName string
	Location string
	Bytes    int
	Pages    int
}

// Settings are shared by every exporter.
type Settings struct {
	// ReportName is the file name prefix.
	// Default: "PLN_Usage_Report"
	ReportName string

	// Now supplies the export date. Default: time.Now
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// busyFlag rejects overlapping runs of one exporter.
type busyFlag struct {
	running atomic.Bool
}

func (b *busyFlag) acquire() error {
	if !b.running.CompareAndSwap(false, true) {
		return ErrExportInProgress
	}
	return nil
}

func (b *busyFlag) release() {
	b.running.Store(false)
}

// Busy reports whether a run is in flight.
func (b *busyFlag) Busy() bool {
	return b.running.Load()
}
