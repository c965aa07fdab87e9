package commands

import (
	"github.com/spf13/cobra"

	"github.com/shipway-dev/shipway/cmd/shipway/handlers"
)

// Provision returns the command running the provision stage alone.
func Provision() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Converge the target infrastructure",
		Long: `Converge the target infrastructure with terraform.

Re-running against unchanged resources is a no-op and returns the same
host address. After apply, the instance is cross-checked against the
EC2 API; drift between state and cloud is reported as a conflict.

Examples:
  shipway provision
  shipway provision -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: shipway.yaml)")

	return cmd
}
