package handlers

import (
	"context"
	"fmt"

	"github.com/shipway-dev/shipway/internal/k8s"
	"github.com/shipway-dev/shipway/internal/pipeline"
)

// Status reports the latest run summary and, when a kubeconfig is
// configured, live replica readiness from the cluster. With waitReady
// set, the report is taken only after the deployment converges (bounded
// by the rollout timeout).
func Status(ctx context.Context, configPath string, waitReady bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if waitReady && cfg.Manifests.Kubeconfig == "" {
		return fmt.Errorf("--wait requires manifests.kubeconfig to be configured")
	}

	store, err := newStore(cfg.StateDir)
	if err != nil {
		return err
	}

	latest, err := store.Latest()
	if err != nil {
		return err
	}

	var report *k8s.DeploymentReport
	if cfg.Manifests.Kubeconfig != "" {
		client, err := newStatusClient(cfg.Manifests.Kubeconfig)
		if err != nil {
			return fmt.Errorf("failed to create cluster client: %w", err)
		}
		if waitReady {
			timeouts := loadTimeouts()
			if err := client.WaitForDeploymentReady(ctx, cfg.Manifests.Namespace, cfg.AppName,
				timeouts.Rollout, timeouts.PollInterval); err != nil {
				return fmt.Errorf("deployment %s/%s did not become ready: %w",
					cfg.Manifests.Namespace, cfg.AppName, err)
			}
		}
		report, err = client.DeploymentStatus(ctx, cfg.Manifests.Namespace, cfg.AppName)
		if err != nil {
			return fmt.Errorf("failed to query deployment status: %w", err)
		}
	}

	fmt.Print(renderStatus(cfg.AppName, latest, report))

	if latest == nil && report == nil {
		fmt.Println("No runs recorded and no kubeconfig configured.")
	}
	return nil
}

func describeRun(run *pipeline.Run) string {
	return fmt.Sprintf("run %d (%s, trigger %s)", run.ID, run.Status, run.Trigger)
}
