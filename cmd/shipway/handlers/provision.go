package handlers

import (
	"context"
	"fmt"

	"github.com/shipway-dev/shipway/internal/pipeline"
)

// Provision runs the provision stage alone and prints the host address.
func Provision(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := newStore(cfg.StateDir)
	if err != nil {
		return err
	}

	stage, err := provisionStage(ctx, cfg)
	if err != nil {
		return err
	}

	controller := pipeline.NewController(cfg, nil, store, []pipeline.Stage{stage})
	run, err := controller.Run(ctx, "provision")
	if err != nil {
		return err
	}

	if run.Stage("provision").Status == pipeline.StatusSkipped {
		fmt.Printf("\nProvisioning skipped, host configured explicitly:\n  %s\n", run.Host)
		return nil
	}

	fmt.Printf("\nInfrastructure converged. Host address:\n  %s\n", run.Host)
	return nil
}
