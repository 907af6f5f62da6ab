package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/archive"
	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/export"
	"mercator-hq/callisto/pkg/propagation"
	"mercator-hq/callisto/pkg/trace"
)

var sendFlags struct {
	name     string
	endpoint string
	parent   string
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a test span through the configured pipeline",
	Long: `Create one span, end it, and deliver it to the configured destination.

This exercises the whole pipeline the way an instrumented service
would: sampling, serialization, batching, retry, and (if enabled) the
local archive. Use it to verify collector connectivity and
authentication headers before deploying instrumented code.

Examples:
  # Send using the configured exporter
  callisto send --name smoke-test

  # Override the collector endpoint
  callisto send --endpoint http://localhost:4318

  # Continue a remote trace
  callisto send --parent 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01`,
	RunE: sendSpan,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendFlags.name, "name", "callisto-test", "span operation name")
	sendCmd.Flags().StringVar(&sendFlags.endpoint, "endpoint", "", "override collector endpoint")
	sendCmd.Flags().StringVar(&sendFlags.parent, "parent", "", "traceparent header to continue")
}

func sendSpan(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if sendFlags.endpoint != "" {
		cfg.Export.Enabled = true
		cfg.Export.Endpoint = sendFlags.endpoint
	}

	exporter, cleanup, err := buildExporter(cfg)
	if err != nil {
		return cli.NewCommandError("send", err)
	}
	defer cleanup()

	tracer := trace.New(
		trace.Config{
			ServiceName:    cfg.Service.Name,
			ServiceVersion: cfg.Service.Version,
			Environment:    cfg.Service.Environment,
		},
		trace.WithSampler(cfg.Sampling.Sampler()),
		trace.WithExporter(exporter),
	)

	var span *trace.Span
	if sendFlags.parent != "" {
		parent := propagation.Parse(sendFlags.parent)
		if !parent.IsValid() {
			return cli.NewCommandError("send", fmt.Errorf("malformed traceparent %q", sendFlags.parent))
		}
		span = tracer.StartFromContext(sendFlags.name, parent)
	} else {
		span = tracer.StartRoot(sendFlags.name)
	}

	span.SetKind(trace.KindClient)
	span.SetAttribute("callisto.origin", "cli")
	span.AddEvent("sent", nil)
	span.SetStatus(trace.StatusOK, "")
	tracer.End(span)

	ctx := cli.SetupSignalHandler()
	start := time.Now()
	exported := tracer.Shutdown(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	if exported == 0 {
		if !span.Sampled {
			fmt.Printf("span %s not sampled, nothing sent\n", span.SpanID)
			return nil
		}
		return cli.NewCommandError("send", fmt.Errorf("span was not delivered"))
	}

	fmt.Printf("sent span %s of trace %s in %s\n", span.SpanID, span.TraceID, elapsed)
	fmt.Printf("traceparent: %s\n", propagation.Format(span.Context()))
	return nil
}

// buildExporter picks the export destination from the configuration:
// the HTTP pipeline when export is enabled, otherwise the local archive
// when that is enabled.
func buildExporter(cfg *config.Config) (trace.SpanExporter, func(), error) {
	switch {
	case cfg.Export.Enabled:
		return export.New(cfg.ExporterConfig()), func() {}, nil
	case cfg.Archive.Enabled:
		store, err := archive.New(archive.Config{
			Path:          cfg.Archive.Path,
			RetentionDays: cfg.Archive.RetentionDays,
			PruneSchedule: cfg.Archive.PruneSchedule,
			BusyTimeout:   cfg.Archive.BusyTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("neither export nor archive is enabled in %s", cfgFile)
	}
}
