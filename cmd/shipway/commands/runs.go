package commands

import (
	"github.com/spf13/cobra"

	"github.com/shipway-dev/shipway/cmd/shipway/handlers"
)

// Runs returns the command listing recorded runs.
func Runs() *cobra.Command {
	var configPath string
	var archived bool
	var id int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Long: `List run records, or show a single run with --id.

Records come from the local state directory. With --archived, they are
read from the configured archive bucket instead: a listing shows the
archived record keys, and --id downloads and renders one record.

Examples:
  shipway runs
  shipway runs --id 41
  shipway runs --archived
  shipway runs --archived --id 41`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Runs(cmd.Context(), configPath, archived, id)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: shipway.yaml)")
	cmd.Flags().BoolVar(&archived, "archived", false, "Read run records from the archive bucket")
	cmd.Flags().IntVar(&id, "id", 0, "Show a single run by id")

	return cmd
}
