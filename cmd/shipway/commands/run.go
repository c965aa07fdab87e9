package commands

import (
	"github.com/spf13/cobra"

	"github.com/shipway-dev/shipway/cmd/shipway/handlers"
)

// Run returns the command executing the full pipeline.
//
// Stage order is fixed: build, provision, deploy. The first failing
// stage is terminal. A run record is written to the state directory in
// every terminal status.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: shipway.yaml)
//	--trigger:    Trigger recorded in the run record (default: manual)
func Run() *cobra.Command {
	var configPath string
	var trigger string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: build, provision, deploy",
		Long: `Run the full deployment pipeline.

The pipeline builds and pushes the application image, converges the
infrastructure with terraform, and rolls the image out to the host over
SSH. The provision stage is skipped when remote.host is configured.

Examples:
  # Run using shipway.yaml in the current directory
  shipway run

  # Run using a specific config file
  shipway run -c production.yaml

  # Record a CI trigger in the run record
  shipway run --trigger push`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Run(cmd.Context(), configPath, trigger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: shipway.yaml)")
	cmd.Flags().StringVar(&trigger, "trigger", "manual", "Trigger recorded in the run record")

	return cmd
}
