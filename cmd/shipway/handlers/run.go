package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/shipway-dev/shipway/internal/pipeline"
)

// Run executes the full pipeline: build, provision, deploy.
//
// The run is recorded under a fresh monotonic id in the state directory
// and, when archival is configured, uploaded with its log transcript to
// object storage. The first failing stage is terminal and its error is
// returned with the component's typed error reachable via errors.As.
func Run(ctx context.Context, configPath, trigger string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := newStore(cfg.StateDir)
	if err != nil {
		return err
	}

	provision, err := provisionStage(ctx, cfg)
	if err != nil {
		return err
	}
	stages := []pipeline.Stage{
		buildStage(),
		provision,
		deployStage(cfg),
	}

	observer := pipeline.NewRecordingObserver(pipeline.NewConsoleObserver())
	controller := pipeline.NewController(cfg, observer, store, stages)

	run, runErr := controller.Run(ctx, trigger)

	if run != nil {
		if err := archiveRun(ctx, cfg, run, observer.Transcript()); err != nil {
			log.Printf("Warning: run archive failed: %v", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	printRunSuccess(run)
	return nil
}

// printRunSuccess outputs the run summary and next steps.
func printRunSuccess(run *pipeline.Run) {
	fmt.Printf("\nRun %d complete!\n", run.ID)
	fmt.Printf("  Image: %s\n", run.Image)
	fmt.Printf("  Host:  %s\n", run.Host)
	if run.URL != "" {
		fmt.Printf("\nYour application is reachable at:\n")
		fmt.Printf("  %s\n", run.URL)
	}
}
