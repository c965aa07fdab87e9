package commands

import (
	"github.com/spf13/cobra"

	"github.com/shipway-dev/shipway/cmd/shipway/handlers"
)

// Build returns the command running the build stage alone.
func Build() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and push the application image",
		Long: `Build the application image and push it to the registry.

Two tags are published per run: a unique run-<N> tag and latest. The
command succeeds only once the registry acknowledges the pushed tag.

Examples:
  shipway build
  shipway build -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Build(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: shipway.yaml)")

	return cmd
}
