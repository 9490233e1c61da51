// Package config provides configuration management for the catalog tools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "catalogcsv.yaml"

// Configuration validation errors.
var (
	ErrMissingNormalizeFile   = errors.New("normalize.file is required")
	ErrMissingMaterializeOut  = errors.New("materialize.output is required")
	ErrSameCatalogAndOutput   = errors.New("materialize.catalog and materialize.output must differ")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat       = errors.New("logging.format must be 'text' or 'json'")
	ErrInvalidLineEnding      = errors.New("output.line_ending must be 'lf' or 'crlf'")
	ErrReportOverwritesExport = errors.New("report.path must not be an input or export path")
	ErrSQLiteOverwritesFile   = errors.New("output.sqlite_path must not be a catalog, export or report path")
)

// Config represents the complete tool configuration.
type Config struct {
	Normalize   NormalizeConfig   `yaml:"normalize"`
	Materialize MaterializeConfig `yaml:"materialize"`
	Output      OutputConfig      `yaml:"output"`
	Report      ReportConfig      `yaml:"report"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// NormalizeConfig contains column normalizer settings.
type NormalizeConfig struct {
	File   string `yaml:"file"`
	DryRun bool   `yaml:"dry_run"`
}

// MaterializeConfig contains record materializer settings.
type MaterializeConfig struct {
	Catalog string `yaml:"catalog"`
	Output  string `yaml:"output"`
}

// OutputConfig defines how export files are written.
type OutputConfig struct {
	LineEnding   string `yaml:"line_ending"`
	SQLitePath   string `yaml:"sqlite_path"`
	CreateBackup bool   `yaml:"create_backup"`
}

// ReportConfig defines the optional markdown run report.
type ReportConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Normalize: NormalizeConfig{
			File: "export.csv",
		},
		Materialize: MaterializeConfig{
			Catalog: "products.yaml",
			Output:  "export.csv",
		},
		Output: OutputConfig{
			LineEnding: "crlf",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from YAML file. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Resolve loads path when set. With an empty path it loads DefaultPath if
// that file exists and falls back to Default otherwise.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadConfig(path)
	}

	if _, err := os.Stat(DefaultPath); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	return LoadConfig(DefaultPath)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Normalize.File == "" {
		return ErrMissingNormalizeFile
	}

	if c.Materialize.Output == "" {
		return ErrMissingMaterializeOut
	}

	if samePath(c.Materialize.Catalog, c.Materialize.Output) {
		return ErrSameCatalogAndOutput
	}

	if c.Output.LineEnding != "lf" && c.Output.LineEnding != "crlf" {
		return ErrInvalidLineEnding
	}

	if samePath(c.Report.Path, c.Normalize.File, c.Materialize.Catalog, c.Materialize.Output) {
		return ErrReportOverwritesExport
	}

	if samePath(c.Output.SQLitePath, c.Normalize.File, c.Materialize.Catalog, c.Materialize.Output, c.Report.Path) {
		return ErrSQLiteOverwritesFile
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// samePath reports whether path names the same file as any of others.
// Paths are compared in absolute clean form, and by file identity when both
// exist, so "./x", "x" and a symlink to x all match. Empty paths never match.
func samePath(path string, others ...string) bool {
	if path == "" {
		return false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	info, statErr := os.Stat(path)

	for _, o := range others {
		if o == "" {
			continue
		}

		oabs, err := filepath.Abs(o)
		if err != nil {
			oabs = filepath.Clean(o)
		}

		if abs == oabs {
			return true
		}

		if statErr != nil {
			continue
		}

		if oinfo, err := os.Stat(o); err == nil && os.SameFile(info, oinfo) {
			return true
		}
	}

	return false
}

// CRLF reports whether rows end with \r\n.
func (o *OutputConfig) CRLF() bool {
	return o.LineEnding == "crlf"
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Normalize: %s, Materialize: %s -> %s, Backup: %t}",
		c.Normalize.File,
		c.Materialize.Catalog,
		c.Materialize.Output,
		c.Output.CreateBackup,
	)
}
