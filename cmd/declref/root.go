package main

import (
	"declref/internal/version"

	"github.com/spf13/cobra"
)

var (
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "declref",
	Short: "declref - Declaration reference resolver",
	Long: `declref resolves structured declaration references like widgets#Button.onClick:function
against a package's export table and declaration graph, reporting exactly
one declaration per reference or a precise failure code.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("declref version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default: from config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (default: from config)")
}
