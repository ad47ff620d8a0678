package main

import (
	"fmt"
	"sort"

	"declref/internal/history"

	"github.com/spf13/cobra"
)

var (
	historyLimit    int
	historyFailures bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded resolution runs",
	Long: `Shows runs recorded by 'declref batch --record', newest first. With
--failures, aggregates failure codes across every recorded run instead.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show")
	historyCmd.Flags().BoolVar(&historyFailures, "failures", false, "Aggregate failure codes across all runs")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	projectRoot := mustGetProjectRoot()
	logger := bootstrapLogger()

	store, err := history.Open(projectRoot, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if historyFailures {
		counts, err := store.FailureCounts()
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			fmt.Println("No failures recorded.")
			return nil
		}
		codes := make([]string, 0, len(counts))
		for code := range counts {
			codes = append(codes, code)
		}
		sort.Slice(codes, func(i, j int) bool {
			if counts[codes[i]] != counts[codes[j]] {
				return counts[codes[i]] > counts[codes[j]]
			}
			return codes[i] < codes[j]
		})
		for _, code := range codes {
			fmt.Printf("%6d  %s\n", counts[code], code)
		}
		return nil
	}

	runs, err := store.Runs(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded. Run 'declref batch --record' first.")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("%s  %s  %s  %d references: %d resolved, %d failed\n",
			run.GeneratedAt.Format("2006-01-02 15:04:05"), run.RunID, run.Package,
			run.Total, run.Resolved, run.Failed)
	}
	return nil
}
