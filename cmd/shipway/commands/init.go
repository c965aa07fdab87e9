package commands

import (
	"github.com/spf13/cobra"

	"github.com/shipway-dev/shipway/cmd/shipway/handlers"
)

// Init returns the command running the configuration wizard.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		Long: `Run the interactive configuration wizard and write shipway.yaml.

The generated file is fully expanded: defaults are written out
explicitly so the config documents itself.

Examples:
  shipway init
  shipway init -o production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "shipway.yaml", "Path to write the configuration file")

	return cmd
}
