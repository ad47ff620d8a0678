package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"declref/internal/model"

	"github.com/spf13/cobra"
)

var (
	exportsOutput string
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List the exports of the analyzed package",
	Long: `Lists every exported name of the configured package in binding order,
with the declaration kinds behind it or the re-export target.`,
	RunE: runExports,
}

// exportEntry is one export in machine-readable output.
type exportEntry struct {
	Name     string   `json:"name"`
	Kinds    []string `json:"kinds,omitempty"`
	Reexport string   `json:"reexport,omitempty"`
}

func init() {
	exportsCmd.Flags().StringVarP(&exportsOutput, "output", "o", "human", "Output format: human or json")
	rootCmd.AddCommand(exportsCmd)
}

func runExports(cmd *cobra.Command, args []string) error {
	projectRoot := mustGetProjectRoot()
	logger := bootstrapLogger()
	table, cfg := mustGetTable(projectRoot, logger)

	mod, ok := table.RootModuleOf(cfg.Package)
	if !ok {
		return fmt.Errorf("symbol table has no root module for package %q", cfg.Package)
	}

	graph := table.Graph()
	var entries []exportEntry
	for _, name := range mod.ExportNames() {
		entity, _ := mod.Export(name)
		entry := exportEntry{Name: name}
		switch e := entity.(type) {
		case *model.LocalEntity:
			for _, decl := range e.Decls {
				entry.Kinds = append(entry.Kinds, string(graph.Kind(decl)))
			}
		case *model.ImportedEntity:
			entry.Reexport = e.Target
		}
		entries = append(entries, entry)
	}

	switch exportsOutput {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "human":
		for _, entry := range entries {
			if entry.Reexport != "" {
				fmt.Printf("%-24s re-export of %s\n", entry.Name, entry.Reexport)
				continue
			}
			fmt.Printf("%-24s %s\n", entry.Name, strings.Join(entry.Kinds, ", "))
		}
		fmt.Printf("\n%d exports in %s\n", len(entries), mod.Name())
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected human or json)", exportsOutput)
	}
}
