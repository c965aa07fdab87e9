package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipway-dev/shipway/internal/k8s"
	"github.com/shipway-dev/shipway/internal/pipeline"
)

func TestStatus_NoRunsNoKubeconfig(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t)
	mockHandlerFactories(t, cfg, &fakeRunner{}, &healthyComm{})
	newStatusClient = func(_ string) (StatusReporter, error) {
		t.Fatal("cluster client must not be created without a kubeconfig")
		return nil, nil
	}

	err := Status(context.Background(), "shipway.yaml", false)
	assert.NoError(t, err)
}

func TestStatus_WithClusterReport(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t)
	cfg.Manifests.Kubeconfig = "/home/dev/.kube/config"
	mockHandlerFactories(t, cfg, &fakeRunner{}, &healthyComm{})

	var queriedNamespace, queriedName string
	newStatusClient = func(path string) (StatusReporter, error) {
		assert.Equal(t, "/home/dev/.kube/config", path)
		return &fakeStatusReporter{
			statusFunc: func(_ context.Context, namespace, name string) (*k8s.DeploymentReport, error) {
				queriedNamespace = namespace
				queriedName = name
				return &k8s.DeploymentReport{
					Name:      name,
					Namespace: namespace,
					Image:     "registry.example.com/app:run-3",
					Desired:   2,
					Ready:     2,
					Pods: []k8s.PodStatus{
						{Name: "app-1", Phase: "Running", Ready: true},
						{Name: "app-2", Phase: "Running", Ready: true},
					},
				}, nil
			},
		}, nil
	}

	err := Status(context.Background(), "shipway.yaml", false)
	require.NoError(t, err)
	assert.Equal(t, "default", queriedNamespace)
	assert.Equal(t, "app", queriedName)
}

func TestStatus_ClusterQueryFails(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t)
	cfg.Manifests.Kubeconfig = "/home/dev/.kube/config"
	mockHandlerFactories(t, cfg, &fakeRunner{}, &healthyComm{})

	newStatusClient = func(_ string) (StatusReporter, error) {
		return &fakeStatusReporter{
			statusFunc: func(_ context.Context, _, _ string) (*k8s.DeploymentReport, error) {
				return nil, errors.New("connection refused")
			},
		}, nil
	}

	err := Status(context.Background(), "shipway.yaml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query deployment status")
}

func TestStatus_WaitBlocksUntilReady(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t)
	cfg.Manifests.Kubeconfig = "/home/dev/.kube/config"
	mockHandlerFactories(t, cfg, &fakeRunner{}, &healthyComm{})
	t.Setenv("SHIPWAY_TIMEOUT_ROLLOUT", "90s")
	t.Setenv("SHIPWAY_POLL_INTERVAL", "2s")

	var waited bool
	newStatusClient = func(_ string) (StatusReporter, error) {
		return &fakeStatusReporter{
			statusFunc: func(_ context.Context, namespace, name string) (*k8s.DeploymentReport, error) {
				require.True(t, waited, "status must be reported after the rollout wait completes")
				return &k8s.DeploymentReport{Name: name, Namespace: namespace, Desired: 1, Ready: 1}, nil
			},
			waitFunc: func(_ context.Context, namespace, name string, timeout, interval time.Duration) error {
				waited = true
				assert.Equal(t, "default", namespace)
				assert.Equal(t, "app", name)
				assert.Equal(t, 90*time.Second, timeout)
				assert.Equal(t, 2*time.Second, interval)
				return nil
			},
		}, nil
	}

	err := Status(context.Background(), "shipway.yaml", true)
	require.NoError(t, err)
	assert.True(t, waited)
}

func TestStatus_WaitRolloutFails(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t)
	cfg.Manifests.Kubeconfig = "/home/dev/.kube/config"
	mockHandlerFactories(t, cfg, &fakeRunner{}, &healthyComm{})

	newStatusClient = func(_ string) (StatusReporter, error) {
		return &fakeStatusReporter{
			statusFunc: func(_ context.Context, _, _ string) (*k8s.DeploymentReport, error) {
				t.Fatal("status must not be reported when the rollout wait fails")
				return nil, nil
			},
			waitFunc: func(_ context.Context, _, _ string, _, _ time.Duration) error {
				return errors.New("deadline exceeded")
			},
		}, nil
	}

	err := Status(context.Background(), "shipway.yaml", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not become ready")
}

func TestStatus_WaitRequiresKubeconfig(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t)
	mockHandlerFactories(t, cfg, &fakeRunner{}, &healthyComm{})

	err := Status(context.Background(), "shipway.yaml", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--wait requires manifests.kubeconfig")
}

func TestStatus_LatestRunWithoutCluster(t *testing.T) {
	saveAndRestoreFactories(t)

	cfg := testConfig(t)
	mockHandlerFactories(t, cfg, &fakeRunner{}, &healthyComm{})

	store, err := pipeline.NewStore(cfg.StateDir)
	require.NoError(t, err)
	id, err := store.NextID()
	require.NoError(t, err)
	require.NoError(t, store.Save(&pipeline.Run{
		ID:          id,
		Environment: cfg.Environment,
		Trigger:     "manual",
		Status:      pipeline.StatusSucceeded,
		Image:       "registry.example.com/app:run-1",
		URL:         "http://203.0.113.7:30000",
	}))

	err = Status(context.Background(), "shipway.yaml", false)
	assert.NoError(t, err)
}
