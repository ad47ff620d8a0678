package main

import (
	"fmt"
	"os"

	"declref/internal/reference"
	"declref/internal/report"
	"declref/internal/resolver"

	"github.com/spf13/cobra"
)

var (
	resolveOutput string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <reference>...",
	Short: "Resolve one or more declaration references",
	Long: `Resolves each reference against the configured symbol table and prints
the declaration it points at, or the failure code explaining why it
does not resolve.

A failing reference does not stop the run; the exit code is non-zero
when any reference failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "human", "Output format: human, json, or yaml")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	projectRoot := mustGetProjectRoot()
	logger := bootstrapLogger()
	table, cfg := mustGetTable(projectRoot, logger)
	logger = newLogger(cfg)

	res := resolver.New(table)
	graph := table.Graph()
	rep := report.New(cfg.Package)

	for _, text := range args {
		ref, err := reference.Parse(text)
		if err != nil {
			rep.AddInvalid(text, err)
			continue
		}
		node, fail := res.Resolve(ref, cfg.Package)
		if fail != nil {
			rep.AddFailed(text, fail)
			continue
		}
		rep.AddResolved(text, graph.Path(node), graph.Kind(node))
	}

	if err := rep.Write(os.Stdout, resolveOutput); err != nil {
		return err
	}

	if rep.Failed > 0 {
		logger.Debug("Some references failed to resolve", map[string]interface{}{
			"failed": rep.Failed,
		})
		return fmt.Errorf("%d of %d references failed to resolve", rep.Failed, rep.Total)
	}
	return nil
}
