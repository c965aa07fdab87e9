// Package pipeline sequences the build, provision and deploy stages of a
// shipway run and records the outcome.
//
// Stages share a Context that is progressively populated: the build stage
// records the pushed image reference, the provision stage the host
// address, the deploy stage the rollout result. The controller owns the
// run record exclusively for the duration of the run and persists it to
// the local state directory at completion.
package pipeline

import (
	"context"
	"errors"

	"github.com/shipway-dev/shipway/internal/config"
	"github.com/shipway-dev/shipway/internal/deploy"
	"github.com/shipway-dev/shipway/internal/infra"
	"github.com/shipway-dev/shipway/internal/registry"
)

// ErrSkipped is returned by a stage that decided not to run. The
// controller records the stage as skipped and continues.
var ErrSkipped = errors.New("stage skipped")

// Stage is one sequential step of a pipeline run.
type Stage interface {
	// Name returns the stage name used in events and run records.
	Name() string

	// Execute runs the stage. Returning ErrSkipped marks the stage
	// skipped; any other error is terminal for the run.
	Execute(ctx *Context) error
}

// State holds the shared results of pipeline stages. It is progressively
// populated as each stage completes and read by subsequent stages.
type State struct {
	// Image is the unique, registry-verified reference produced by the
	// build stage.
	Image registry.ImageReference

	// Host is the instance the deploy stage targets, populated by the
	// provision stage or taken from the remote.host override.
	Host infra.ProvisionedHost

	// Deploy is the rollout result, populated by the deploy stage.
	Deploy *deploy.Result
}

// Context wraps all dependencies and state needed by a pipeline stage.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Observer Observer
	Timeouts *config.Timeouts

	// RunID is the monotonic id of the current run, fixed before the
	// first stage executes.
	RunID int
}

// NewContext creates a pipeline context for one run.
func NewContext(ctx context.Context, cfg *config.Config, observer Observer, runID int) *Context {
	if observer == nil {
		observer = NewConsoleObserver()
	}
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    &State{},
		Observer: observer,
		Timeouts: config.LoadTimeouts(),
		RunID:    runID,
	}
}
