package handlers

import (
	"context"
	"fmt"

	"github.com/shipway-dev/shipway/internal/infra"
	"github.com/shipway-dev/shipway/internal/pipeline"
	"github.com/shipway-dev/shipway/internal/registry"
)

// resolveStage seeds the pipeline state for a deploy-only run: the image
// from an explicit flag or the latest run record, the host from the
// config override or the latest run's provision result.
type resolveStage struct {
	store    *pipeline.Store
	imageRef string
}

func (s *resolveStage) Name() string { return "resolve" }

func (s *resolveStage) Execute(ctx *pipeline.Context) error {
	var latest *pipeline.Run
	if s.imageRef == "" || ctx.Config.Remote.Host == "" {
		var err error
		latest, err = s.store.Latest()
		if err != nil {
			return err
		}
	}

	imageRef := s.imageRef
	if imageRef == "" {
		if latest == nil || latest.Image == "" {
			return fmt.Errorf("no previous build found; run 'shipway build' first or pass --image")
		}
		imageRef = latest.Image
	}
	image, err := registry.Parse(imageRef)
	if err != nil {
		return fmt.Errorf("invalid image reference %q: %w", imageRef, err)
	}
	ctx.State.Image = image

	host := ctx.Config.Remote.Host
	if host == "" {
		if latest == nil || latest.Host == "" {
			return fmt.Errorf("no host known; set remote.host or run 'shipway provision' first")
		}
		host = latest.Host
	}
	ctx.State.Host = infra.ProvisionedHost{Address: host}

	return nil
}

// Deploy rolls an image out to the host without building or provisioning.
func Deploy(ctx context.Context, configPath, image string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := newStore(cfg.StateDir)
	if err != nil {
		return err
	}

	stages := []pipeline.Stage{
		&resolveStage{store: store, imageRef: image},
		deployStage(cfg),
	}

	controller := pipeline.NewController(cfg, nil, store, stages)
	run, err := controller.Run(ctx, "deploy")
	if err != nil {
		return err
	}

	fmt.Printf("\nDeployed %s\n", run.Image)
	fmt.Printf("  %s\n", run.URL)
	return nil
}
