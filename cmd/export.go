// =============================================================================
// PLN Usage Report - Export Command
// =============================================================================
//
// This file defines the 'export' command, which writes the usage report to
// the output directory.
//
// COMMAND USAGE:
//   plnreport export [pdf|docx|print|all]...
//
// FORMATS:
//   pdf    : Visual PDF, a rasterized capture of the printable report
//   docx   : Structured Word document with a native table
//   print  : Print-ready vector PDF
//   all    : All of the above
//
// Without arguments the visual PDF is produced.
//
// EXPORT PIPELINE:
//   1. Restore the session and take a snapshot
//   2. Run every requested format concurrently
//   3. Print the outcome per format
//   4. Append the run to the export summary log
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/pln-usage-report/internal/export"
	"github.com/ginjaninja78/pln-usage-report/internal/raster"
	"github.com/ginjaninja78/pln-usage-report/internal/report"
	"github.com/ginjaninja78/pln-usage-report/internal/totals"
	"github.com/ginjaninja78/pln-usage-report/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// exportName overrides the configured report name.
var exportName string

// noSummary disables the export summary log.
var noSummary bool

// =============================================================================
// EXPORT COMMAND DEFINITION
// =============================================================================

var exportCmd = &cobra.Command{
	Use:       "export [pdf|docx|print|all]...",
	Short:     "Export the usage report as PDF or Word document",
	ValidArgs: []string{"pdf", "docx", "print", "all"},
	Long: `The export command writes the usage report to the output directory.

File names follow <report_name>_<YYYY-MM-DD>.<ext>, for example
PLN_Usage_Report_2026-10-19.pdf. The printable PDF carries a "_print"
suffix. Each format is exported independently: a failure in one does not
stop the others, but the command exits with an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, args)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportName, "name", "", "Report name used for the file names (overrides config)")
	exportCmd.Flags().BoolVar(&noSummary, "no-summary", false, "Do not append to the export summary log")

	rootCmd.AddCommand(exportCmd)
}

// =============================================================================
// MAIN EXPORT FUNCTION
// =============================================================================

// runExport orchestrates one export run.
func runExport(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	formats, err := export.ParseFormats(args)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: RESTORE THE SESSION
	// =========================================================================

	sess, err := openSession()
	if err != nil {
		return err
	}
	snap := sess.Snapshot()

	// =========================================================================
	// STEP 2: RUN THE EXPORTS
	// =========================================================================

	reportName := cfg.ReportName
	if exportName != "" {
		reportName = exportName
	}

	fm := utils.NewFileManager(cfg.OutputDir, cfg.ArchiveDir)
	pipeline := export.NewPipeline(fm, export.PipelineOptions{
		Settings: export.Settings{ReportName: reportName, Now: now},
		Raster: raster.Options{
			DPI:          cfg.Raster.DPI,
			Scale:        cfg.Raster.Scale,
			MarginInches: cfg.Raster.MarginInches,
		},
		Visual: export.VisualOptions{
			JPEGQuality:  cfg.Raster.JPEGQuality,
			MarginInches: cfg.Raster.MarginInches,
		},
	}, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results := pipeline.Run(ctx, snap, formats)

	// =========================================================================
	// STEP 3: COLLECT RESULTS
	// =========================================================================

	out := cmd.OutOrStdout()
	summary := utils.ExportSummary{
		StartTime:  startTime,
		Items:      len(snap.Items),
		GrandTotal: report.FormatRupiah(totals.GrandTotal(snap.Items)),
	}

	for _, result := range results {
		summary.RunID = result.RunID
		if result.Success {
			fmt.Fprintf(out, "  ✓ %-5s -> %s\n", result.Format, result.OutputFile)
			summary.Exported = append(summary.Exported, utils.ExportedFileInfo{
				Format:     string(result.Format),
				OutputFile: filepath.Base(result.OutputFile),
				Bytes:      result.Stats.Bytes,
				Pages:      result.Stats.Pages,
				Duration:   result.Stats.Duration,
			})
		} else {
			fmt.Fprintf(out, "  ✗ %-5s: %v\n", result.Format, result.Error)
			summary.FailedList = append(summary.FailedList, utils.FailedExportInfo{
				Format:       string(result.Format),
				ErrorMessage: result.Error.Error(),
			})
		}
	}
	summary.EndTime = time.Now()

	// =========================================================================
	// STEP 4: SUMMARY
	// =========================================================================

	if !noSummary {
		if _, err := utils.WriteSummaryLog(summary, cfg.OutputDir); err != nil {
			log.Warn().Err(err).Msg("could not write export summary")
		}
	}

	if n := len(summary.FailedList); n > 0 {
		return fmt.Errorf("%d of %d exports failed", n, len(results))
	}
	return nil
}
