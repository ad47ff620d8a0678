package main

import (
	"fmt"
	"os"
	"path/filepath"

	"declref/internal/config"

	"github.com/spf13/cobra"
)

var (
	initForce   bool
	initPackage string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize declref configuration",
	Long:  "Creates a .declref/ directory with default configuration in the current project root",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration")
	initCmd.Flags().StringVarP(&initPackage, "package", "p", "", "Name of the package to analyze")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	projectRoot := mustGetProjectRoot()

	configPath := filepath.Join(projectRoot, ".declref", "config.json")
	if _, statErr := os.Stat(configPath); statErr == nil && !initForce {
		// Idempotent behavior: already initialized is success (CI-friendly)
		fmt.Println("declref already initialized.")
		fmt.Printf("Configuration at: %s\n", configPath)
		fmt.Println("\nRun 'declref init --force' to reinitialize.")
		return nil
	}

	cfg := config.DefaultConfig()
	cfg.Package = initPackage
	if cfg.Package == "" {
		cfg.Package = filepath.Base(projectRoot)
	}

	if err := cfg.Save(projectRoot); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Println("declref initialized successfully!")
	fmt.Printf("Configuration written to: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Describe your package's exports in DECLARATIONS.toml,")
	fmt.Println("     or point table.source at a SCIP index or TypeScript sources")
	fmt.Println("  2. Run 'declref exports' to check the symbol table")
	fmt.Println("  3. Run 'declref resolve <reference>' to resolve references")

	return nil
}
