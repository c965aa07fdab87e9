package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shipway-dev/shipway/internal/config"
)

// Controller runs the pipeline stages in fixed order and owns the run
// record for the duration of the run.
type Controller struct {
	cfg      *config.Config
	observer Observer
	store    *Store
	stages   []Stage
}

// NewController creates a controller over the given stages. observer may
// be nil, in which case events go to the console.
func NewController(cfg *config.Config, observer Observer, store *Store, stages []Stage) *Controller {
	if observer == nil {
		observer = NewConsoleObserver()
	}
	return &Controller{
		cfg:      cfg,
		observer: observer,
		store:    store,
		stages:   stages,
	}
}

// Run executes the stages strictly in order. The first stage failure is
// terminal: later stages do not run, and the stage's error is returned
// wrapped so errors.As still reaches the component's typed error. The
// run record is persisted to the state directory in every terminal
// status.
func (c *Controller) Run(ctx context.Context, trigger string) (*Run, error) {
	release, err := AcquireRunLock(c.cfg.StateDir, c.cfg.Environment)
	if err != nil {
		return nil, err
	}
	defer release()

	id, err := c.store.NextID()
	if err != nil {
		return nil, err
	}

	run := &Run{
		ID:          id,
		Environment: c.cfg.Environment,
		Trigger:     trigger,
		Status:      StatusRunning,
		StartedAt:   time.Now(),
	}

	c.observer.Event(Event{
		Type:    EventRunStarted,
		Message: fmt.Sprintf("run %d triggered by %s", id, trigger),
		Fields:  map[string]string{"environment": c.cfg.Environment},
	})

	pctx := NewContext(ctx, c.cfg, c.observer, id)
	runErr := c.runStages(pctx, run)

	run.FinishedAt = time.Now()
	run.Image = pctx.State.Image.String()
	if pctx.State.Image.Tag == "" {
		run.Image = ""
	}
	run.Host = pctx.State.Host.Address
	if pctx.State.Deploy != nil {
		run.URL = pctx.State.Deploy.URL
	}

	if runErr != nil {
		run.Status = StatusFailed
	} else {
		run.Status = StatusSucceeded
	}

	c.observer.Event(Event{
		Type:    EventRunCompleted,
		Message: fmt.Sprintf("run %d %s in %v", id, run.Status, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond)),
	})

	if err := c.store.Save(run); err != nil {
		// The stage error matters more than the bookkeeping one.
		if runErr != nil {
			c.observer.Printf("failed to persist run record: %v", err)
			return run, runErr
		}
		return run, err
	}

	return run, runErr
}

func (c *Controller) runStages(pctx *Context, run *Run) error {
	for _, stage := range c.stages {
		outcome := StageOutcome{
			Name:      stage.Name(),
			Status:    StatusRunning,
			StartedAt: time.Now(),
		}
		LogStageStart(c.observer, stage.Name())

		err := stage.Execute(pctx)
		outcome.FinishedAt = time.Now()

		switch {
		case err == nil:
			outcome.Status = StatusSucceeded
			LogStageComplete(c.observer, stage.Name(), outcome.FinishedAt.Sub(outcome.StartedAt))

		case errors.Is(err, ErrSkipped):
			outcome.Status = StatusSkipped
			LogStageSkipped(c.observer, stage.Name(), err.Error())
			err = nil

		default:
			outcome.Status = StatusFailed
			outcome.Error = err.Error()
			LogStageFailed(c.observer, stage.Name(), err)
			run.Stages = append(run.Stages, outcome)
			return fmt.Errorf("%s stage: %w", stage.Name(), err)
		}

		run.Stages = append(run.Stages, outcome)
	}
	return nil
}
