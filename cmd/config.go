// =============================================================================
// PLN Usage Report - Config Command
// =============================================================================
//
// COMMAND USAGE:
//   plnreport config show
//
// Prints the effective configuration as YAML: defaults, then the config
// file, then PLNREPORT_* environment variables.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}

		out := cmd.OutOrStdout()
		if cfg.UsedFile != "" {
			fmt.Fprintf(out, "# loaded from %s\n", cfg.UsedFile)
		} else {
			fmt.Fprintln(out, "# no config file found, using defaults")
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
