package commands

import (
	"github.com/spf13/cobra"

	"github.com/shipway-dev/shipway/cmd/shipway/handlers"
)

// Deploy returns the command running the deploy stage alone.
//
// The image defaults to the one recorded by the latest run; --image
// overrides it with an explicit reference.
func Deploy() *cobra.Command {
	var configPath string
	var image string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Roll an already-built image out to the host",
		Long: `Deploy an image to the remote host without building or provisioning.

Without --image, the image reference recorded by the latest run is
deployed. The host comes from remote.host, or from the latest run's
provision result.

Examples:
  # Redeploy the image from the latest run
  shipway deploy

  # Deploy an explicit reference (e.g. roll back to an earlier run tag)
  shipway deploy --image registry.example.com/app:run-41`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath, image)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: shipway.yaml)")
	cmd.Flags().StringVar(&image, "image", "", "Image reference to deploy (default: latest run's image)")

	return cmd
}
