package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/propagation"
)

var inspectFlags struct {
	format string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <traceparent>",
	Short: "Decode a traceparent header",
	Long: `Parse a W3C traceparent header and print its fields.

A valid header has the form

  00-<32 hex trace id>-<16 hex span id>-<2 hex flags>

Examples:
  callisto inspect 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
  callisto inspect --format json 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-00`,
	Args: cobra.ExactArgs(1),
	RunE: inspectHeader,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFlags.format, "format", "text", "output format: text, json")
}

type inspectResult struct {
	Valid   bool   `json:"valid"`
	TraceID string `json:"trace_id,omitempty"`
	SpanID  string `json:"span_id,omitempty"`
	Sampled bool   `json:"sampled,omitempty"`
}

func inspectHeader(cmd *cobra.Command, args []string) error {
	tc := propagation.Parse(args[0])
	result := inspectResult{
		Valid:   tc.IsValid(),
		TraceID: tc.TraceID,
		SpanID:  tc.SpanID,
		Sampled: tc.Sampled,
	}

	if inspectFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, result); err != nil {
			return cli.NewCommandError("inspect", err)
		}
	} else {
		if !result.Valid {
			fmt.Println("invalid traceparent header")
		} else {
			fmt.Printf("trace id: %s\n", result.TraceID)
			fmt.Printf("span id:  %s\n", result.SpanID)
			fmt.Printf("sampled:  %v\n", result.Sampled)
		}
	}

	if !result.Valid {
		// Non-zero exit so scripts can branch on validity.
		return cli.NewCommandError("inspect", fmt.Errorf("malformed header %q", args[0]))
	}
	return nil
}
