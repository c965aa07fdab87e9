// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shipway-dev/shipway/internal/build"
	"github.com/shipway-dev/shipway/internal/config"
	"github.com/shipway-dev/shipway/internal/deploy"
	"github.com/shipway-dev/shipway/internal/infra"
	"github.com/shipway-dev/shipway/internal/k8s"
	"github.com/shipway-dev/shipway/internal/pipeline"
	"github.com/shipway-dev/shipway/internal/platform/ec2"
	"github.com/shipway-dev/shipway/internal/platform/exec"
	"github.com/shipway-dev/shipway/internal/platform/s3"
	"github.com/shipway-dev/shipway/internal/platform/ssh"
	"github.com/shipway-dev/shipway/internal/registry"
)

// StatusReporter is the cluster inspection surface used by Status.
// Implemented by k8s.Client.
type StatusReporter interface {
	DeploymentStatus(ctx context.Context, namespace, name string) (*k8s.DeploymentReport, error)
	WaitForDeploymentReady(ctx context.Context, namespace, name string, timeout, interval time.Duration) error
}

// ArchiveBrowser is the object-storage read surface used by Runs.
// Implemented by s3.Client.
type ArchiveBrowser interface {
	ListObjects(ctx context.Context, bucket, prefix string) ([]string, error)
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// findConfigFile finds the default config file.
	findConfigFile = config.FindConfigFile

	// loadTimeouts loads the timeout configuration from the environment.
	loadTimeouts = config.LoadTimeouts

	// newRunner creates the local tool runner for docker and terraform.
	newRunner = func() exec.Runner {
		return exec.NewOSRunner()
	}

	// newRegistryClient creates the registry client for push verification.
	newRegistryClient = func() registry.Client {
		return registry.NewRemoteClient()
	}

	// newVerifier creates the post-apply instance verifier. A missing
	// region disables verification.
	newVerifier = func(ctx context.Context, region string) (infra.InstanceVerifier, error) {
		if region == "" {
			return nil, nil
		}
		return ec2.NewClient(ctx, region)
	}

	// readPrivateKey reads the SSH private key file.
	readPrivateKey = os.ReadFile

	// newCommunicator creates the SSH session to a host. Session and
	// retry bounds come from the run's timeout set (SHIPWAY_TIMEOUT_SESSION,
	// SHIPWAY_RETRY_MAX_ATTEMPTS, SHIPWAY_RETRY_INITIAL_DELAY).
	newCommunicator = func(cfg *config.Config, host string, timeouts *config.Timeouts) (deploy.Communicator, error) {
		key, err := readPrivateKey(cfg.Remote.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		return ssh.NewClient(&ssh.Config{
			Host:        host,
			Port:        cfg.Remote.Port,
			User:        cfg.Remote.User,
			PrivateKey:  key,
			DialTimeout: timeouts.Session,
			MaxRetries:  timeouts.RetryMaxAttempts,
			RetryDelay:  timeouts.RetryInitialDelay,
		})
	}

	// newStore creates the run-record store.
	newStore = pipeline.NewStore

	// newObjectStore creates the object storage client for run archival.
	newObjectStore = func(ctx context.Context, archive config.ArchiveConfig) (pipeline.ObjectStore, error) {
		return s3.NewClient(ctx, archive.Region, s3.Options{
			Endpoint:  archive.Endpoint,
			AccessKey: archive.AccessKey,
			SecretKey: archive.SecretKey,
		})
	}

	// newArchiveBrowser creates the object storage client for reading
	// archived run records.
	newArchiveBrowser = func(ctx context.Context, archive config.ArchiveConfig) (ArchiveBrowser, error) {
		return s3.NewClient(ctx, archive.Region, s3.Options{
			Endpoint:  archive.Endpoint,
			AccessKey: archive.AccessKey,
			SecretKey: archive.SecretKey,
		})
	}

	// newStatusClient creates the kubeconfig-based cluster client.
	newStatusClient = func(kubeconfigPath string) (StatusReporter, error) {
		return k8s.NewClient(kubeconfigPath)
	}
)

// loadConfig loads and validates the configuration. An empty path falls
// back to shipway.yaml in the current directory.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config file found: %w\nRun 'shipway init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// buildStage assembles the build stage from the configured factories.
func buildStage() *pipeline.BuildStage {
	return &pipeline.BuildStage{
		Builder: build.NewBuilder(newRunner(), newRegistryClient()),
	}
}

// provisionStage assembles the provision stage, wiring in the cloud
// verifier when a region is configured.
func provisionStage(ctx context.Context, cfg *config.Config) (*pipeline.ProvisionStage, error) {
	verifier, err := newVerifier(ctx, cfg.Infra.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to create instance verifier: %w", err)
	}
	return &pipeline.ProvisionStage{
		Provisioner: infra.NewProvisioner(newRunner(), verifier),
	}, nil
}

// deployStage assembles the deploy stage. The deployer is created per
// run because the host address is a provision result; the timeouts are
// the ones the pipeline context loaded for the run.
func deployStage(cfg *config.Config) *pipeline.DeployStage {
	return &pipeline.DeployStage{
		NewDeployer: func(host string, timeouts *config.Timeouts) (pipeline.Deployer, error) {
			comm, err := newCommunicator(cfg, host, timeouts)
			if err != nil {
				return nil, err
			}
			return deploy.NewDeployer(comm, timeouts.Rollout, timeouts.PollInterval), nil
		},
	}
}

// archiveRun uploads the run record and transcript when archival is
// enabled. Failures are reported to the caller but never change the
// run's outcome.
func archiveRun(ctx context.Context, cfg *config.Config, run *pipeline.Run, transcript string) error {
	if !cfg.Archive.Enabled {
		return nil
	}

	store, err := newObjectStore(ctx, cfg.Archive)
	if err != nil {
		return fmt.Errorf("failed to create archive client: %w", err)
	}
	return pipeline.NewArchiver(store, cfg.Archive.Bucket).Archive(ctx, run, transcript)
}
