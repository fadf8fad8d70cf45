// =============================================================================
// PLN Usage Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (plnreport)
//   ├── customerCmd (plnreport customer show|set)
//   ├── itemsCmd    (plnreport items list|add|edit|delete)
//   ├── importCmd   (plnreport import <file>)
//   ├── reportCmd   (plnreport report)
//   ├── exportCmd   (plnreport export [pdf|docx|print|all])
//   ├── configCmd   (plnreport config show)
//   └── versionCmd  (plnreport version)
//
// CONFIGURATION:
//   Before any command runs, the root command:
//   1. Loads the configuration (file, PLNREPORT_* environment, defaults)
//   2. Sets up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/pln-usage-report/internal/config"
	"github.com/ginjaninja78/pln-usage-report/internal/session"
	"github.com/ginjaninja78/pln-usage-report/internal/storage"
	"github.com/ginjaninja78/pln-usage-report/pkg/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// Empty searches for plnreport.yaml.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// cfg and log are set up before every command by initConfig.
var (
	cfg *config.Config
	log = logger.Nop()
)

// now is the clock used for report dates.
var now = time.Now

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "plnreport",
	Short: "PLN Usage Report - record equipment usage and export the report",
	Long: `plnreport keeps the customer information and the list of goods and
services used for one PLN job, and produces the usage report
"LAPORAN PENGGUNAAN PERALATAN PLN" as PDF or Word document.

Data is stored locally in the data directory and restored on every run.

Example Usage:
  plnreport customer set --name "Budi" --id 123 --power "1300 VA"
  plnreport items add --name Cable --price "Rp 50.000" --qty 2 --unit m
  plnreport report                  # Show the report in the terminal
  plnreport export all              # Write PDF, DOCX and printable PDF`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initConfig()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is ./plnreport.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initConfig loads the configuration and builds the logger.
func initConfig() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log = logger.New(logger.Config{Env: cfg.LogEnv, Level: level})

	if cfg.UsedFile != "" {
		log.Debug().Str("file", cfg.UsedFile).Msg("using config file")
	}
	return nil
}

// openSession restores the session from the data directory.
func openSession() (*session.Session, error) {
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	return session.Open(storage.NewRepository(store, log), log), nil
}
