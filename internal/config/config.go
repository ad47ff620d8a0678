// Package config loads and validates declref's configuration from
// .declref/config.json.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Source names the table source the symbol table is built from.
const (
	SourceManifest   = "manifest"
	SourceScip       = "scip"
	SourceTypeScript = "typescript"
)

// Config represents the complete declref configuration
type Config struct {
	Version int    `json:"version" mapstructure:"version"`
	Package string `json:"package" mapstructure:"package"`

	Table   TableConfig   `json:"table" mapstructure:"table"`
	Batch   BatchConfig   `json:"batch" mapstructure:"batch"`
	History HistoryConfig `json:"history" mapstructure:"history"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// TableConfig selects and configures the symbol-table source
type TableConfig struct {
	Source       string   `json:"source" mapstructure:"source"`
	ManifestPath string   `json:"manifestPath" mapstructure:"manifestPath"`
	ScipIndex    string   `json:"scipIndex" mapstructure:"scipIndex"`
	SourceRoots  []string `json:"sourceRoots" mapstructure:"sourceRoots"`
	Ignore       []string `json:"ignore" mapstructure:"ignore"`
}

// BatchConfig configures batch resolution
type BatchConfig struct {
	Workers int `json:"workers" mapstructure:"workers"`
}

// HistoryConfig configures run-history persistence
type HistoryConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Table: TableConfig{
			Source:       SourceManifest,
			ManifestPath: "DECLARATIONS.toml",
			ScipIndex:    ".scip/index.scip",
			SourceRoots:  []string{"src"},
			Ignore:       []string{"node_modules", "dist", "build"},
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		History: HistoryConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .declref/config.json under the
// project root, falling back to defaults when no config file exists.
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".declref"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .declref/config.json
func (c *Config) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, ".declref")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create .declref directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version %d (expected 1)", c.Version)
	}
	if c.Package == "" {
		return fmt.Errorf("package name is required")
	}

	switch c.Table.Source {
	case SourceManifest:
		if c.Table.ManifestPath == "" {
			return fmt.Errorf("table.manifestPath is required for the manifest source")
		}
	case SourceScip:
		if c.Table.ScipIndex == "" {
			return fmt.Errorf("table.scipIndex is required for the scip source")
		}
	case SourceTypeScript:
		if len(c.Table.SourceRoots) == 0 {
			return fmt.Errorf("table.sourceRoots is required for the typescript source")
		}
	default:
		return fmt.Errorf("unknown table source %q (expected manifest, scip, or typescript)", c.Table.Source)
	}

	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1")
	}
	return nil
}
