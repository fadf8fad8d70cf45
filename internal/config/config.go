// =============================================================================
// PLN Usage Report - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Values come from, in
// increasing priority:
//   1. Built-in defaults
//   2. The config file (plnreport.yaml in the working directory or the user
//      config directory, or the file given with --config)
//   3. PLNREPORT_* environment variables, e.g. PLNREPORT_OUTPUT_DIR or
//      PLNREPORT_RASTER_SCALE
//
// EXAMPLE FILE:
//
//   data_dir: ./data
//   output_dir: ./output
//   archive_dir: ./output_archive
//   log_level: info
//   raster:
//     scale: 2
//   import:
//     delimiter: ";"
//     columns:
//       name: Item
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/pln-usage-report/internal/importer"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PLNREPORT"

// FileName is the config file name searched when no path is given.
const FileName = "plnreport"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// DataDir holds the persisted customer and item records.
	// Default: "./data"
	DataDir string `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`

	// OutputDir receives exported files.
	// Default: "./output"
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`

	// ArchiveDir receives a copy of every exported file. Empty disables it.
	ArchiveDir string `mapstructure:"archive_dir" yaml:"archive_dir"`

	// =========================================================================
	// REPORT SETTINGS
	// =========================================================================

	// ReportName is the exported file name prefix.
	// Default: "PLN_Usage_Report"
	ReportName string `mapstructure:"report_name" yaml:"report_name" validate:"required,excludesall=/\\"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "trace", "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=trace debug info warn error"`

	// LogEnv selects the log format: "development" for console output,
	// anything else for JSON.
	// Default: "development"
	LogEnv string `mapstructure:"log_env" yaml:"log_env"`

	// =========================================================================
	// EXPORT SETTINGS
	// =========================================================================

	Raster RasterConfig `mapstructure:"raster" yaml:"raster"`

	// =========================================================================
	// IMPORT SETTINGS
	// =========================================================================

	Import importer.Settings `mapstructure:"import" yaml:"import"`

	// UsedFile is the config file that was read, if any.
	UsedFile string `mapstructure:"-" yaml:"-"`
}

// RasterConfig controls the visual PDF export.
type RasterConfig struct {
	// DPI is the base layout resolution.
	// Default: 96
	DPI float64 `mapstructure:"dpi" yaml:"dpi" validate:"gt=0"`

	// Scale multiplies the captured resolution.
	// Default: 2
	Scale float64 `mapstructure:"scale" yaml:"scale" validate:"gt=0,lte=8"`

	// JPEGQuality is the quality of the embedded page images.
	// Default: 98
	JPEGQuality int `mapstructure:"jpeg_quality" yaml:"jpeg_quality" validate:"min=1,max=100"`

	// MarginInches is the page margin on every side.
	// Default: 1
	MarginInches float64 `mapstructure:"margin_inches" yaml:"margin_inches" validate:"gte=0,lt=4"`
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration.
//
// PARAMETERS:
//   - configFile: An explicit config file. Empty searches for plnreport.yaml
//     and carries on with defaults when none exists.
//
// RETURNS:
//   - The validated configuration.
//   - An error if an explicit file cannot be read or a value is invalid.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, FileName))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.UsedFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	d := importer.DefaultSettings()
	return &Config{
		DataDir:    "./data",
		OutputDir:  "./output",
		ReportName: "PLN_Usage_Report",
		LogLevel:   "info",
		LogEnv:     "development",
		Raster: RasterConfig{
			DPI:          96,
			Scale:        2,
			JPEGQuality:  98,
			MarginInches: 1,
		},
		Import: d,
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("archive_dir", d.ArchiveDir)
	v.SetDefault("report_name", d.ReportName)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_env", d.LogEnv)

	v.SetDefault("raster.dpi", d.Raster.DPI)
	v.SetDefault("raster.scale", d.Raster.Scale)
	v.SetDefault("raster.jpeg_quality", d.Raster.JPEGQuality)
	v.SetDefault("raster.margin_inches", d.Raster.MarginInches)

	v.SetDefault("import.delimiter", d.Import.Delimiter)
	v.SetDefault("import.encoding", d.Import.Encoding)
	v.SetDefault("import.header_rows", d.Import.HeaderRows)
	v.SetDefault("import.data_start_row", d.Import.DataStartRow)
	v.SetDefault("import.sheet", d.Import.Sheet)
	v.SetDefault("import.columns.name", d.Import.Columns.Name)
	v.SetDefault("import.columns.unit_price", d.Import.Columns.UnitPrice)
	v.SetDefault("import.columns.quantity", d.Import.Columns.Quantity)
	v.SetDefault("import.columns.unit", d.Import.Columns.Unit)
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks every value against its allowed range.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%s: failed rule %q (value: %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}

// EnsureDirs creates the data, output and archive directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, c.OutputDir, c.ArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
