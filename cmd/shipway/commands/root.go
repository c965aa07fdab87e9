// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the shipway CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shipway",
		Short: "Build, provision and deploy an application to a remote Kubernetes host",
	}

	// Pipeline commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Run())
	cmd.AddCommand(Build())
	cmd.AddCommand(Provision())
	cmd.AddCommand(Deploy())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Status())
	cmd.AddCommand(Runs())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
