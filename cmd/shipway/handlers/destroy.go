package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/shipway-dev/shipway/internal/infra"
)

// Destroy tears down the environment's infrastructure.
func Destroy(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Infra.Workdir == "" {
		return fmt.Errorf("infra.workdir is not configured; nothing to destroy")
	}

	log.Printf("Destroying infrastructure for environment: %s", cfg.Environment)

	provisioner := infra.NewProvisioner(newRunner(), nil)
	if err := provisioner.Teardown(ctx, infra.Spec{
		Workdir:       cfg.Infra.Workdir,
		Region:        cfg.Infra.Region,
		Environment:   cfg.Environment,
		AddressOutput: cfg.Infra.AddressOutput,
	}); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	log.Printf("Environment %s destroyed successfully", cfg.Environment)
	return nil
}
