// =============================================================================
// PLN Usage Report - Import Command
// =============================================================================
//
// This file defines the 'import' command, which appends line items read from
// a spreadsheet (XLSX) or a delimited text file (CSV).
//
// COMMAND USAGE:
//   plnreport import <file> [flags]
//
// PROCESSING:
//   1. Read the file with the import settings from the configuration
//   2. Validate every data row; invalid rows are reported and skipped
//   3. Append the valid rows to the collection in file order
//
// EXAMPLES:
//   plnreport import materials.xlsx
//   plnreport import materials.csv --delimiter ";" --encoding windows-1252
//   plnreport import materials.xlsx --sheet Juni --dry-run
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/pln-usage-report/internal/importer"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	importSheet     string
	importDelimiter string
	importEncoding  string
	importDryRun    bool
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Append line items from an XLSX or CSV file",
	Long: `Append line items from an XLSX or CSV file.

The columns are located by their header text. The defaults match the report
table: "Nama Barang/Jasa", "Harga STN", "Qty" and "Satuan". A missing Qty
value counts as 1. Rows that fail validation are listed with their row
number and skipped; the valid rows are still imported.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Worksheet to read (default is the first sheet)")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", "", "CSV field delimiter (overrides config)")
	importCmd.Flags().StringVar(&importEncoding, "encoding", "", "CSV character encoding (overrides config)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate the file without changing the collection")

	rootCmd.AddCommand(importCmd)
}

// runImport executes the import command.
func runImport(cmd *cobra.Command, args []string) error {
	settings := cfg.Import
	if importSheet != "" {
		settings.Sheet = importSheet
	}
	if importDelimiter != "" {
		settings.Delimiter = importDelimiter
	}
	if importEncoding != "" {
		settings.Encoding = importEncoding
	}

	result, err := importer.ImportFile(args[0], settings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Errors != nil {
		for _, rowErr := range result.Errors.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  skipped: %v\n", rowErr)
		}
	}

	fmt.Fprintf(out, "Read %d rows from %s: %d valid, %d skipped\n",
		result.RowsRead, result.SourceFile, len(result.Items), result.Skipped)

	if importDryRun || len(result.Items) == 0 {
		return nil
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	if err := sess.AddItems(result.Items); err != nil {
		return fmt.Errorf("failed to add imported items: %w", err)
	}

	fmt.Fprintf(out, "Imported %d items, collection now holds %d\n", len(result.Items), sess.Len())
	return nil
}
