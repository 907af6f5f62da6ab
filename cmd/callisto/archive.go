package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/archive"
	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/trace"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Work with the local span archive",
}

var archiveQueryFlags struct {
	traceID string
	format  string
}

var archiveQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List archived spans of a trace",
	Long: `Print every archived span of one trace, ordered by start time.

Examples:
  callisto archive query --trace-id 4bf92f3577b34da6a3ce929d0e0e4736
  callisto archive query --trace-id 4bf92f3577b34da6a3ce929d0e0e4736 --format json`,
	RunE: archiveQuery,
}

var archivePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune archived spans past the configured retention",
	RunE:  archivePrune,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveQueryCmd)
	archiveCmd.AddCommand(archivePruneCmd)

	archiveQueryCmd.Flags().StringVar(&archiveQueryFlags.traceID, "trace-id", "", "trace to list (required)")
	archiveQueryCmd.Flags().StringVar(&archiveQueryFlags.format, "format", "text", "output format: text, json")
	archiveQueryCmd.MarkFlagRequired("trace-id")
}

func openArchive() (*archive.Store, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()
	if !cfg.Archive.Enabled {
		return nil, cli.NewConfigError("archive.enabled", "the archive is disabled")
	}

	return archive.New(archive.Config{
		Path:          cfg.Archive.Path,
		RetentionDays: cfg.Archive.RetentionDays,
		PruneSchedule: cfg.Archive.PruneSchedule,
		BusyTimeout:   cfg.Archive.BusyTimeout,
	})
}

func archiveQuery(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()
	spans, err := store.SpansByTrace(ctx, archiveQueryFlags.traceID)
	if err != nil {
		return cli.NewCommandError("archive query", err)
	}

	if archiveQueryFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, spans)
	}

	if len(spans) == 0 {
		fmt.Printf("no archived spans for trace %s\n", archiveQueryFlags.traceID)
		return nil
	}
	for _, s := range spans {
		printSpan(s)
	}
	return nil
}

func printSpan(s *trace.Span) {
	start := time.Unix(0, s.StartTime).UTC().Format(time.RFC3339Nano)
	duration := time.Duration(s.Duration()).Round(time.Microsecond)

	fmt.Printf("%s  %-24s %s  %s", s.SpanID, s.Name, start, duration)
	if s.ParentSpanID != "" {
		fmt.Printf("  parent=%s", s.ParentSpanID)
	}
	if s.Status != trace.StatusUnset {
		fmt.Printf("  status=%s", s.Status)
	}
	fmt.Println()
}

func archivePrune(cmd *cobra.Command, args []string) error {
	store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()
	deleted, err := store.PruneExpired(ctx)
	if err != nil {
		return cli.NewCommandError("archive prune", err)
	}

	fmt.Printf("pruned %d spans\n", deleted)
	return nil
}
