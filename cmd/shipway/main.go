// Package main is the entry point for the shipway CLI.
//
// shipway builds an application container image, provisions the target
// infrastructure with terraform, and rolls the image out to a remote
// single-node Kubernetes host over SSH. Each pipeline run is recorded
// under a monotonic run id in the local state directory.
//
// Commands: init, run, build, provision, deploy, destroy, status.
//
// For detailed usage information, run:
//
//	shipway --help
package main

import (
	"fmt"
	"os"

	"github.com/shipway-dev/shipway/cmd/shipway/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
