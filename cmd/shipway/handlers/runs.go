package handlers

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shipway-dev/shipway/internal/config"
	"github.com/shipway-dev/shipway/internal/pipeline"
)

// Runs lists recorded runs, or shows a single run when id is positive.
// With archived set, records are read from the archive bucket instead
// of the local state directory.
func Runs(ctx context.Context, configPath string, archived bool, id int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if archived {
		return archivedRuns(ctx, cfg, id)
	}

	store, err := newStore(cfg.StateDir)
	if err != nil {
		return err
	}

	if id > 0 {
		run, err := store.Load(id)
		if err != nil {
			return err
		}
		printRunDetail(run)
		return nil
	}

	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, run := range runs {
		printRunLine(run)
	}
	return nil
}

// archivedRuns serves the --archived path against object storage. A
// listing shows archived record keys; a lookup by id downloads and
// renders the record.
func archivedRuns(ctx context.Context, cfg *config.Config, id int) error {
	if !cfg.Archive.Enabled {
		return fmt.Errorf("archive is not enabled for environment %s", cfg.Environment)
	}

	browser, err := newArchiveBrowser(ctx, cfg.Archive)
	if err != nil {
		return fmt.Errorf("failed to create archive client: %w", err)
	}

	if id > 0 {
		key := pipeline.ArchiveRecordKey(cfg.Environment, id)
		data, err := browser.GetObject(ctx, cfg.Archive.Bucket, key)
		if err != nil {
			return fmt.Errorf("failed to fetch archived run %d: %w", id, err)
		}
		var run pipeline.Run
		if err := yaml.Unmarshal(data, &run); err != nil {
			return fmt.Errorf("corrupt archived run record %s: %w", key, err)
		}
		printRunDetail(&run)
		return nil
	}

	keys, err := browser.ListObjects(ctx, cfg.Archive.Bucket, pipeline.ArchivePrefix(cfg.Environment))
	if err != nil {
		return fmt.Errorf("failed to list archived runs: %w", err)
	}

	listed := 0
	for _, key := range keys {
		if !strings.HasSuffix(key, ".yaml") {
			continue
		}
		fmt.Println(key)
		listed++
	}
	if listed == 0 {
		fmt.Printf("No archived runs for environment %s.\n", cfg.Environment)
	}
	return nil
}

func printRunLine(run *pipeline.Run) {
	line := fmt.Sprintf("run %-4d %-10s trigger %-9s", run.ID, run.Status, run.Trigger)
	if run.Image != "" {
		line += "  " + run.Image
	}
	fmt.Println(line)
}

func printRunDetail(run *pipeline.Run) {
	fmt.Printf("Run %d (%s)\n", run.ID, run.Status)
	fmt.Printf("  Environment: %s\n", run.Environment)
	fmt.Printf("  Trigger:     %s\n", run.Trigger)
	if run.Image != "" {
		fmt.Printf("  Image:       %s\n", run.Image)
	}
	if run.Host != "" {
		fmt.Printf("  Host:        %s\n", run.Host)
	}
	if run.URL != "" {
		fmt.Printf("  URL:         %s\n", run.URL)
	}
	for _, stage := range run.Stages {
		fmt.Printf("  %-10s %s\n", stage.Name, stage.Status)
		if stage.Error != "" {
			fmt.Printf("             %s\n", stage.Error)
		}
	}
}
