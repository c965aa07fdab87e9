package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/shipway-dev/shipway/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the configuration wizard.
	runWizard = config.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = config.Save
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := result.ToConfig()

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("shipway - build, provision, deploy")
	fmt.Println("==================================")
	fmt.Println()
	fmt.Println("This wizard creates a pipeline configuration with sensible defaults.")
	fmt.Println("The generated YAML is fully expanded and explicit.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Pipeline Summary")
	fmt.Println("----------------")
	fmt.Printf("  Application:  %s (port %d)\n", cfg.AppName, cfg.Build.Port)
	fmt.Printf("  Environment:  %s\n", cfg.Environment)
	fmt.Printf("  Image:        %s/%s\n", cfg.Registry.Host, cfg.Registry.Repository)
	fmt.Printf("  Infra:        %s (%s)\n", cfg.Infra.Workdir, cfg.Infra.Region)
	fmt.Printf("  Service port: %d\n", cfg.Manifests.NodePort)
	if cfg.Archive.Enabled {
		fmt.Printf("  Archive:      s3://%s\n", cfg.Archive.Bucket)
	}
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Put the deployment and service manifests under manifests/")
	fmt.Println("  2. Run 'shipway run' to execute the full pipeline")
}
