package pipeline

import (
	"context"
	"fmt"

	"github.com/shipway-dev/shipway/internal/build"
	"github.com/shipway-dev/shipway/internal/config"
	"github.com/shipway-dev/shipway/internal/deploy"
	"github.com/shipway-dev/shipway/internal/infra"
	"github.com/shipway-dev/shipway/internal/manifest"
	"github.com/shipway-dev/shipway/internal/registry"
)

// ImageBuilder produces and pushes the application image.
// Implemented by build.Builder.
type ImageBuilder interface {
	Build(ctx context.Context, desc build.Descriptor, runID int) (registry.ImageReference, error)
}

// Provisioner converges the infrastructure for an environment.
// Implemented by infra.Provisioner.
type Provisioner interface {
	Provision(ctx context.Context, spec infra.Spec) (infra.ProvisionedHost, error)
}

// Deployer rolls the image out to a host. Implemented by deploy.Deployer.
type Deployer interface {
	Deploy(ctx context.Context, spec deploy.Spec) (*deploy.Result, error)
}

// DeployerFactory creates a Deployer bound to a host. The host address is
// only known once the provision stage has run; the timeouts are the run's
// single loaded set, so session and rollout bounds follow the same
// environment overrides as the other stages.
type DeployerFactory func(host string, timeouts *config.Timeouts) (Deployer, error)

// BuildStage builds the image, pushes the unique and latest tags, and
// records the verified reference in the shared state.
type BuildStage struct {
	Builder ImageBuilder
}

func (s *BuildStage) Name() string { return "build" }

func (s *BuildStage) Execute(ctx *Context) error {
	cfg := ctx.Config

	desc := build.Descriptor{
		Context:    cfg.Build.Context,
		Dockerfile: cfg.Build.Dockerfile,
		Port:       cfg.Build.Port,
		Registry:   cfg.Registry.Host,
		Repository: cfg.Registry.Repository,
	}

	buildCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.Build)
	defer cancel()

	ref, err := s.Builder.Build(buildCtx, desc, ctx.RunID)
	if err != nil {
		return err
	}

	ctx.State.Image = ref
	ctx.Observer.Event(Event{
		Type:     EventStepCompleted,
		Stage:    s.Name(),
		Resource: ref.String(),
		Message:  "image pushed and verified",
	})
	return nil
}

// ProvisionStage converges the infrastructure and records the host
// address. When remote.host is configured the stage is skipped and the
// override becomes the host.
type ProvisionStage struct {
	Provisioner Provisioner
}

func (s *ProvisionStage) Name() string { return "provision" }

func (s *ProvisionStage) Execute(ctx *Context) error {
	cfg := ctx.Config

	if cfg.Remote.Host != "" {
		ctx.State.Host = infra.ProvisionedHost{Address: cfg.Remote.Host}
		return fmt.Errorf("host %s configured explicitly: %w", cfg.Remote.Host, ErrSkipped)
	}

	provisionCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.Provision)
	defer cancel()

	host, err := s.Provisioner.Provision(provisionCtx, infra.Spec{
		Workdir:       cfg.Infra.Workdir,
		Region:        cfg.Infra.Region,
		Environment:   cfg.Environment,
		AddressOutput: cfg.Infra.AddressOutput,
	})
	if err != nil {
		return err
	}

	ctx.State.Host = host
	ctx.Observer.Event(Event{
		Type:     EventStepCompleted,
		Stage:    s.Name(),
		Resource: host.Address,
		Message:  "infrastructure converged",
	})
	return nil
}

// DeployStage rewrites the manifests to the built image and rolls it out
// to the provisioned host.
type DeployStage struct {
	NewDeployer DeployerFactory
}

func (s *DeployStage) Name() string { return "deploy" }

func (s *DeployStage) Execute(ctx *Context) error {
	cfg := ctx.Config

	if ctx.State.Host.Address == "" {
		return fmt.Errorf("no host to deploy to")
	}
	if ctx.State.Image.Tag == "" {
		return fmt.Errorf("no image to deploy")
	}

	deploymentYAML, err := manifest.Load(cfg.Manifests.Deployment)
	if err != nil {
		return err
	}
	serviceYAML, err := manifest.Load(cfg.Manifests.Service)
	if err != nil {
		return err
	}

	// The rewrite produces a new document; the file on disk stays as-is.
	rewritten, err := manifest.RewriteImage(deploymentYAML, cfg.AppName, ctx.State.Image.String())
	if err != nil {
		return err
	}

	nodePort, err := manifest.ServiceNodePort(serviceYAML)
	if err != nil {
		return err
	}
	if int(nodePort) != cfg.Manifests.NodePort {
		return fmt.Errorf("service manifest exposes node port %d, config expects %d", nodePort, cfg.Manifests.NodePort)
	}

	deployer, err := s.NewDeployer(ctx.State.Host.Address, ctx.Timeouts)
	if err != nil {
		return fmt.Errorf("failed to create deployer for %s: %w", ctx.State.Host.Address, err)
	}

	result, err := deployer.Deploy(ctx, deploy.Spec{
		AppName:    cfg.AppName,
		Namespace:  cfg.Manifests.Namespace,
		Host:       ctx.State.Host.Address,
		NodePort:   cfg.Manifests.NodePort,
		Image:      ctx.State.Image,
		Deployment: rewritten,
		Service:    serviceYAML,
	})
	if err != nil {
		return err
	}

	ctx.State.Deploy = result
	ctx.Observer.Event(Event{
		Type:     EventStepCompleted,
		Stage:    s.Name(),
		Resource: result.URL,
		Message:  fmt.Sprintf("rollout ready, %d replicas", len(result.Replicas)),
	})
	return nil
}
