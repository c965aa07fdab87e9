package commands

import (
	"github.com/spf13/cobra"

	"github.com/shipway-dev/shipway/cmd/shipway/handlers"
)

// Status returns the command reporting deployment readiness.
func Status() *cobra.Command {
	var configPath string
	var waitReady bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report replica readiness for the deployed application",
		Long: `Report the deployment's replica readiness and latest run summary.

With manifests.kubeconfig configured, the cluster is inspected directly;
otherwise the report is limited to the latest persisted run record.

With --wait, the command blocks until the deployment has all desired
replicas available (bounded by SHIPWAY_TIMEOUT_ROLLOUT) before reporting.

Examples:
  shipway status
  shipway status -c production.yaml
  shipway status --wait`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, waitReady)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: shipway.yaml)")
	cmd.Flags().BoolVar(&waitReady, "wait", false, "Wait for the deployment to become ready before reporting")

	return cmd
}
