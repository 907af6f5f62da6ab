package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "callisto",
	Short: "Callisto - distributed tracing toolkit",
	Long: `Callisto is a distributed-tracing toolkit for instrumented services.

It provides:
  - Hierarchical span creation with deterministic sampling
  - W3C trace-context propagation (traceparent/tracestate/baggage)
  - Batched OTLP-style export to an HTTP collector with bounded retry
  - An optional local SQLite span archive with scheduled pruning

For more information, visit: https://github.com/mercator-hq/callisto`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "callisto.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
