// =============================================================================
// PLN Usage Report - Main Entry Point
// =============================================================================
//
// This is the main entry point for the plnreport CLI application. It
// initializes the Cobra CLI framework and delegates command execution to the
// cmd package.
//
// USAGE:
//   plnreport customer set --name Budi   - Edit the customer information
//   plnreport items add ...              - Add a line item
//   plnreport import items.xlsx          - Bulk-load line items
//   plnreport report                     - Show the report in the terminal
//   plnreport export all                 - Write PDF, DOCX and print PDF
//   plnreport version                    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core logic: model, storage, session, report, export
//   - pkg/       : Shared utilities: logger, file delivery
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/pln-usage-report/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
