package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Table.Source != SourceManifest {
		t.Errorf("Table.Source = %q, want manifest", cfg.Table.Source)
	}
	if cfg.Batch.Workers < 1 {
		t.Errorf("Batch.Workers = %d, want >= 1", cfg.Batch.Workers)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Table.Source != SourceManifest {
		t.Errorf("missing config did not fall back to defaults: %+v", cfg)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".declref"), 0755); err != nil {
		t.Fatal(err)
	}
	content := `{
  "version": 1,
  "package": "widgets",
  "table": {"source": "scip", "scipIndex": "out/index.scip"},
  "logging": {"format": "json", "level": "debug"}
}`
	if err := os.WriteFile(filepath.Join(dir, ".declref", "config.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Package != "widgets" {
		t.Errorf("Package = %q, want widgets", cfg.Package)
	}
	if cfg.Table.Source != SourceScip || cfg.Table.ScipIndex != "out/index.scip" {
		t.Errorf("Table = %+v", cfg.Table)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	// Untouched sections keep their defaults.
	if cfg.Batch.Workers != 4 {
		t.Errorf("Batch.Workers = %d, want default 4", cfg.Batch.Workers)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Package = "widgets"
	cfg.Table.Source = SourceTypeScript
	cfg.Table.SourceRoots = []string{"lib"}

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Package != "widgets" || loaded.Table.Source != SourceTypeScript {
		t.Errorf("loaded = %+v", loaded)
	}
	if len(loaded.Table.SourceRoots) != 1 || loaded.Table.SourceRoots[0] != "lib" {
		t.Errorf("SourceRoots = %v, want [lib]", loaded.Table.SourceRoots)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Package = "widgets"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"wrong version", func(c *Config) { c.Version = 2 }},
		{"missing package", func(c *Config) { c.Package = "" }},
		{"unknown source", func(c *Config) { c.Table.Source = "lsp" }},
		{"manifest without path", func(c *Config) { c.Table.ManifestPath = "" }},
		{"scip without index", func(c *Config) {
			c.Table.Source = SourceScip
			c.Table.ScipIndex = ""
		}},
		{"typescript without roots", func(c *Config) {
			c.Table.Source = SourceTypeScript
			c.Table.SourceRoots = nil
		}},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}
