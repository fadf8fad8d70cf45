// =============================================================================
// PLN Usage Report - Report Command
// =============================================================================
//
// The 'report' command renders the current customer and items as the usage
// report and prints it as plain text.
//
// COMMAND USAGE:
//   plnreport report
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/pln-usage-report/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the usage report in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		return report.Render(sess.Snapshot(), now()).WriteText(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
