package handlers

import (
	"context"
	"fmt"

	"github.com/shipway-dev/shipway/internal/pipeline"
)

// Build runs the build stage alone. The run counter still advances so
// the unique tag stays distinct from full pipeline runs.
func Build(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := newStore(cfg.StateDir)
	if err != nil {
		return err
	}

	controller := pipeline.NewController(cfg, nil, store, []pipeline.Stage{buildStage()})
	run, err := controller.Run(ctx, "build")
	if err != nil {
		return err
	}

	fmt.Printf("\nImage pushed and verified:\n  %s\n", run.Image)
	return nil
}
