package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"declref/internal/config"
	"declref/internal/extract"
	"declref/internal/logging"
	"declref/internal/manifest"
	"declref/internal/model"
	"declref/internal/scipindex"
)

var (
	tableOnce   sync.Once
	sharedTable *model.SymbolTable
	sharedCfg   *config.Config
	tableErr    error
)

// getTable loads the configuration and builds the symbol table from the
// configured source. The table is lazily built on first use and shared
// by every command in the process.
func getTable(projectRoot string, logger *logging.Logger) (*model.SymbolTable, *config.Config, error) {
	tableOnce.Do(func() {
		cfg, err := config.LoadConfig(projectRoot)
		if err != nil {
			tableErr = fmt.Errorf("failed to load config: %w", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			tableErr = fmt.Errorf("invalid config: %w", err)
			return
		}
		sharedCfg = cfg

		table, err := buildTable(projectRoot, cfg, logger)
		if err != nil {
			tableErr = err
			return
		}
		sharedTable = table
	})

	return sharedTable, sharedCfg, tableErr
}

// buildTable dispatches on the configured table source.
func buildTable(projectRoot string, cfg *config.Config, logger *logging.Logger) (*model.SymbolTable, error) {
	switch cfg.Table.Source {
	case config.SourceManifest:
		path := filepath.Join(projectRoot, cfg.Table.ManifestPath)
		logger.Debug("Building symbol table from manifest", map[string]interface{}{
			"path": path,
		})
		return manifest.Load(path)

	case config.SourceScip:
		path := filepath.Join(projectRoot, cfg.Table.ScipIndex)
		logger.Debug("Building symbol table from SCIP index", map[string]interface{}{
			"path": path,
		})
		index, err := scipindex.LoadIndex(path)
		if err != nil {
			return nil, err
		}
		return scipindex.BuildTable(index, cfg.Package)

	case config.SourceTypeScript:
		if !extract.IsAvailable() {
			return nil, fmt.Errorf("the typescript table source requires a CGO-enabled build; use a manifest or SCIP index instead")
		}
		roots := make([]string, len(cfg.Table.SourceRoots))
		for i, root := range cfg.Table.SourceRoots {
			roots[i] = filepath.Join(projectRoot, root)
		}
		logger.Debug("Building symbol table from TypeScript sources", map[string]interface{}{
			"roots": roots,
		})
		extractor := extract.NewExtractor()
		return extractor.ExtractPackage(context.Background(), cfg.Package, roots, cfg.Table.Ignore)

	default:
		return nil, fmt.Errorf("unknown table source %q", cfg.Table.Source)
	}
}

// mustGetTable returns the shared symbol table and config or exits on error.
func mustGetTable(projectRoot string, logger *logging.Logger) (*model.SymbolTable, *config.Config) {
	table, cfg, err := getTable(projectRoot, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building symbol table: %v\n", err)
		os.Exit(1)
	}
	return table, cfg
}

// getProjectRoot returns the project root directory.
func getProjectRoot() (string, error) {
	return os.Getwd()
}

// mustGetProjectRoot returns the project root or exits on error.
func mustGetProjectRoot() string {
	projectRoot, err := getProjectRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return projectRoot
}

// newLogger creates a logger for command execution.
// Precedence: CLI flag > DECLREF_LOG_* env var > config.json logging section
func newLogger(cfg *config.Config) *logging.Logger {
	format := logging.HumanFormat
	level := logging.InfoLevel
	if cfg != nil {
		if cfg.Logging.Format == "json" {
			format = logging.JSONFormat
		}
		level = logging.ParseLevel(cfg.Logging.Level)
	}
	if env := os.Getenv("DECLREF_LOG_FORMAT"); env == "json" {
		format = logging.JSONFormat
	} else if env == "human" {
		format = logging.HumanFormat
	}
	if env := os.Getenv("DECLREF_LOG_LEVEL"); env != "" {
		level = logging.ParseLevel(env)
	}
	if logFormatFlag == "json" {
		format = logging.JSONFormat
	} else if logFormatFlag == "human" {
		format = logging.HumanFormat
	}
	if logLevelFlag != "" {
		level = logging.ParseLevel(logLevelFlag)
	}
	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  level,
	})
}

// bootstrapLogger creates a logger before any config is available.
func bootstrapLogger() *logging.Logger {
	return newLogger(nil)
}
