package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load the configuration file, apply defaults and environment variable
overrides, and report any validation errors.

Examples:
  # Validate the default config file
  callisto validate

  # Validate a specific file
  callisto validate --config /etc/callisto/callisto.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	fmt.Printf("%s: configuration is valid\n", cfgFile)
	if verbose {
		fmt.Printf("  service:  %s", cfg.Service.Name)
		if cfg.Service.Version != "" {
			fmt.Printf(" (%s)", cfg.Service.Version)
		}
		fmt.Println()
		fmt.Printf("  sampler:  %s\n", cfg.Sampling.Sampler().Description())
		if cfg.Export.Enabled {
			fmt.Printf("  export:   %s (timeout %s, %d retries)\n",
				cfg.Export.Endpoint, cfg.Export.Timeout, cfg.Export.RetryCount)
		} else {
			fmt.Println("  export:   disabled")
		}
		if cfg.Archive.Enabled {
			fmt.Printf("  archive:  %s (retention %d days)\n",
				cfg.Archive.Path, cfg.Archive.RetentionDays)
		} else {
			fmt.Println("  archive:  disabled")
		}
	}
	return nil
}
