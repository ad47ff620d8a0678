package main

import (
	"fmt"
	"os"

	"declref/internal/batch"
	"declref/internal/history"

	"github.com/spf13/cobra"
)

var (
	batchFile    string
	batchOutput  string
	batchWorkers int
	batchRecord  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Resolve a file of references concurrently",
	Long: `Reads references from a file (or stdin with --file -), one per line,
resolves them against the configured symbol table across a worker pool,
and prints a report in input order. Blank lines and '#' comments are
skipped.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "-", "File of references, one per line ('-' for stdin)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "human", "Output format: human, json, or yaml")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Worker pool size (default: from config)")
	batchCmd.Flags().BoolVar(&batchRecord, "record", false, "Record the run in the history database")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	projectRoot := mustGetProjectRoot()
	logger := bootstrapLogger()
	table, cfg := mustGetTable(projectRoot, logger)
	logger = newLogger(cfg)

	input := os.Stdin
	if batchFile != "-" {
		f, err := os.Open(batchFile)
		if err != nil {
			return fmt.Errorf("failed to open reference file: %w", err)
		}
		defer func() { _ = f.Close() }()
		input = f
	}

	refs, err := batch.ReadReferences(input)
	if err != nil {
		return fmt.Errorf("failed to read references: %w", err)
	}
	if len(refs) == 0 {
		return fmt.Errorf("no references to resolve")
	}

	workers := cfg.Batch.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	runner := batch.NewRunner(table, logger, workers)
	rep := runner.Run(cmd.Context(), cfg.Package, refs)

	if batchRecord || cfg.History.Enabled {
		store, err := history.Open(projectRoot, logger)
		if err != nil {
			logger.Warn("Failed to open history database, run not recorded", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer func() { _ = store.Close() }()
			if err := store.RecordRun(rep); err != nil {
				logger.Warn("Failed to record run", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	if err := rep.Write(os.Stdout, batchOutput); err != nil {
		return err
	}

	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d references failed to resolve", rep.Failed, rep.Total)
	}
	return nil
}
