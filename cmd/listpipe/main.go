// Package main implements the listpipe CLI: it reads structured records
// from a file or stdin and renders them as a table, json, yaml, csv, tsv
// or a hierarchy tree, degrading automatically when output is piped.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "listpipe",
	Short: "Render structured records as tables, serial formats or trees",
	Long: `listpipe turns a list of structured records (JSON or YAML) into
human- or machine-consumable output.

Records flow through a fixed pipeline: filter, column extraction via
templated expressions, stable multi-key sort, formatting, and routing.
Tables are styled on interactive terminals and degrade to tab-separated
values when output is piped, so downstream line-oriented tools keep
working unchanged.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger. Diagnostics go to stderr and never touch
		// the data stream.
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a .listpipe.yaml config file")

	rootCmd.AddCommand(renderCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
