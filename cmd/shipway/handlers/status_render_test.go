package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shipway-dev/shipway/internal/k8s"
	"github.com/shipway-dev/shipway/internal/pipeline"
)

func TestRenderStatus(t *testing.T) {
	latest := &pipeline.Run{
		ID:          3,
		Environment: "staging",
		Trigger:     "manual",
		Status:      pipeline.StatusSucceeded,
		StartedAt:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Stages: []pipeline.StageOutcome{
			{Name: "build", Status: pipeline.StatusSucceeded},
			{Name: "provision", Status: pipeline.StatusSkipped},
			{Name: "deploy", Status: pipeline.StatusSucceeded},
		},
		Image: "registry.example.com/app:run-3",
		Host:  "203.0.113.7",
		URL:   "http://203.0.113.7:30000",
	}
	report := &k8s.DeploymentReport{
		Name:      "app",
		Namespace: "default",
		Image:     "registry.example.com/app:run-3",
		Desired:   2,
		Ready:     1,
		Pods: []k8s.PodStatus{
			{Name: "app-6f7b9-x2k4l", Phase: "Running", Ready: true},
			{Name: "app-6f7b9-p9rm3", Phase: "Pending", Ready: false},
		},
	}

	t.Run("contains expected sections", func(t *testing.T) {
		output := renderStatus("app", latest, report)
		assert.Contains(t, output, "shipway status: app")
		assert.Contains(t, output, "Latest Run")
		assert.Contains(t, output, "run 3 (succeeded, trigger manual)")
		assert.Contains(t, output, "registry.example.com/app:run-3")
		assert.Contains(t, output, "http://203.0.113.7:30000")
		assert.Contains(t, output, "Replicas")
		assert.Contains(t, output, "1/2 ready")
		assert.Contains(t, output, "app-6f7b9-x2k4l")
		assert.Contains(t, output, "not ready")
	})

	t.Run("no latest run", func(t *testing.T) {
		output := renderStatus("app", nil, report)
		assert.NotContains(t, output, "Latest Run")
		assert.Contains(t, output, "Replicas")
	})

	t.Run("no cluster report", func(t *testing.T) {
		output := renderStatus("app", latest, nil)
		assert.Contains(t, output, "Latest Run")
		assert.NotContains(t, output, "Replicas")
	})

	t.Run("stage markers", func(t *testing.T) {
		output := renderStatus("app", latest, nil)
		assert.Contains(t, output, "skipped")
		assert.Contains(t, output, "ok")
	})
}

func TestRenderStatus_FailedRun(t *testing.T) {
	latest := &pipeline.Run{
		ID:      4,
		Trigger: "manual",
		Status:  pipeline.StatusFailed,
		Stages: []pipeline.StageOutcome{
			{Name: "build", Status: pipeline.StatusFailed, Error: "docker build: exit status 1"},
		},
	}

	output := renderStatus("app", latest, nil)
	assert.Contains(t, output, "run 4 (failed, trigger manual)")
	assert.Contains(t, output, "failed")
}

func TestDescribeRun(t *testing.T) {
	run := &pipeline.Run{ID: 12, Status: pipeline.StatusSucceeded, Trigger: "deploy"}
	assert.Equal(t, "run 12 (succeeded, trigger deploy)", describeRun(run))
}
