// Package build produces and publishes the application container image.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shipway-dev/shipway/internal/platform/exec"
	"github.com/shipway-dev/shipway/internal/registry"
)

// Descriptor is the immutable recipe for producing a container image.
type Descriptor struct {
	// Context is the source tree the image is built from.
	Context string

	// Dockerfile is the build descriptor path, relative to Context.
	Dockerfile string

	// Port the application listens on. Recorded for manifest generation;
	// the Dockerfile's EXPOSE is authoritative at build time.
	Port int

	// Registry and Repository locate the published image.
	Registry   string
	Repository string
}

// Validate reports the first missing or invalid descriptor field.
func (d Descriptor) Validate() error {
	if d.Context == "" {
		return fmt.Errorf("build context is required")
	}
	if info, err := os.Stat(d.Context); err != nil || !info.IsDir() {
		return fmt.Errorf("build context %q is not a directory", d.Context)
	}
	if d.Registry == "" {
		return fmt.Errorf("registry host is required")
	}
	if d.Repository == "" {
		return fmt.Errorf("repository is required")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("port must be in 1-65535, got %d", d.Port)
	}
	return nil
}

// Error is a build stage failure.
type Error struct {
	// Op names the failing step: "validate", "build", "push" or "verify".
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("image build %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Builder produces a tagged image from a Descriptor and pushes it.
//
// Every run publishes two tags: the stable channel tag "latest" and a
// unique "run-<N>" tag, so each run stays independently addressable and
// a previous image can be redeployed by tag.
type Builder struct {
	runner   exec.Runner
	registry registry.Client
}

// NewBuilder creates a Builder using the given tool runner and registry client.
func NewBuilder(runner exec.Runner, reg registry.Client) *Builder {
	return &Builder{runner: runner, registry: reg}
}

// Build builds and pushes the image for runID, returning the unique
// per-run reference. The reference is only returned once the registry
// acknowledges the pushed tag, so callers may hand it to the deployer
// without a further existence check.
func (b *Builder) Build(ctx context.Context, desc Descriptor, runID int) (registry.ImageReference, error) {
	var zero registry.ImageReference

	if err := desc.Validate(); err != nil {
		return zero, &Error{Op: "validate", Err: err}
	}

	uniqueRef := registry.ImageReference{
		Registry:   desc.Registry,
		Repository: desc.Repository,
		Tag:        fmt.Sprintf("run-%d", runID),
	}
	latestRef := uniqueRef.WithTag("latest")

	dockerfile := desc.Dockerfile
	if dockerfile == "" {
		dockerfile = "Dockerfile"
	}

	_, err := b.runner.Run(ctx, "", "docker", "build",
		"-t", uniqueRef.String(),
		"-t", latestRef.String(),
		"-f", filepath.Join(desc.Context, dockerfile),
		desc.Context,
	)
	if err != nil {
		return zero, &Error{Op: "build", Err: err}
	}

	for _, ref := range []registry.ImageReference{uniqueRef, latestRef} {
		if _, err := b.runner.Run(ctx, "", "docker", "push", ref.String()); err != nil {
			return zero, &Error{Op: "push", Err: err}
		}
	}

	exists, err := b.registry.TagExists(ctx, uniqueRef)
	if err != nil {
		return zero, &Error{Op: "verify", Err: err}
	}
	if !exists {
		return zero, &Error{Op: "verify", Err: fmt.Errorf("pushed tag %s not found in registry", uniqueRef)}
	}

	return uniqueRef, nil
}
