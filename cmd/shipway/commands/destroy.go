package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipway-dev/shipway/cmd/shipway/handlers"
)

// Destroy returns the command tearing down the provisioned infrastructure.
func Destroy() *cobra.Command {
	var configPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Tear down the provisioned infrastructure",
		Long: `Destroy all infrastructure managed by the terraform workdir.

This is irreversible. The command asks for confirmation unless --force
is given.

Examples:
  shipway destroy
  shipway destroy --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				fmt.Print("This destroys the environment's infrastructure. Type 'yes' to continue: ")
				var answer string
				fmt.Scanln(&answer)
				if answer != "yes" {
					fmt.Println("Aborted.")
					return nil
				}
			}
			return handlers.Destroy(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: shipway.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
