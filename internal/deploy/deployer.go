// Package deploy rolls a built image out to a provisioned host over SSH.
//
// A deployment attempt is a fixed step sequence, each gated on the one
// before it: establish the remote session, pull the image on the host,
// apply the rewritten manifests, trigger a rollout restart, then poll the
// deployment until every replica reports ready or the timeout elapses.
package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/shipway-dev/shipway/internal/registry"
)

const (
	defaultRolloutTimeout = 5 * time.Minute
	defaultPollInterval   = 5 * time.Second
)

// Communicator executes commands on the remote host. Satisfied by
// platform/ssh.Client.
type Communicator interface {
	Execute(ctx context.Context, command string) (string, error)
	ExecuteWithInput(ctx context.Context, command string, input []byte) (string, error)
}

// Spec describes a single deployment attempt. Manifests are the already
// rewritten YAML documents; the deployer never touches files on disk.
type Spec struct {
	AppName    string
	Namespace  string
	Host       string
	NodePort   int
	Image      registry.ImageReference
	Deployment []byte
	Service    []byte
}

// Validate checks the spec before any remote command is issued.
func (s Spec) Validate() error {
	if s.AppName == "" {
		return fmt.Errorf("app name cannot be empty")
	}
	if s.Namespace == "" {
		return fmt.Errorf("namespace cannot be empty")
	}
	if s.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if s.NodePort < 1 || s.NodePort > 65535 {
		return fmt.Errorf("node port %d out of range", s.NodePort)
	}
	if len(s.Deployment) == 0 {
		return fmt.Errorf("deployment manifest cannot be empty")
	}
	return nil
}

// ReplicaStatus is the readiness of one pod backing the deployment.
type ReplicaStatus struct {
	Name  string
	Ready bool
}

// Result is a successful deployment attempt.
type Result struct {
	Transitions []State
	Replicas    []ReplicaStatus
	URL         string
}

// Deployer drives deployment attempts against a remote host.
type Deployer struct {
	comm           Communicator
	rolloutTimeout time.Duration
	pollInterval   time.Duration
}

// NewDeployer returns a deployer using comm for remote execution.
// Zero durations fall back to defaults.
func NewDeployer(comm Communicator, rolloutTimeout, pollInterval time.Duration) *Deployer {
	if rolloutTimeout <= 0 {
		rolloutTimeout = defaultRolloutTimeout
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Deployer{
		comm:           comm,
		rolloutTimeout: rolloutTimeout,
		pollInterval:   pollInterval,
	}
}

// Deploy runs the full step sequence for spec. On success the result carries
// the recorded state transitions, per-replica readiness and the externally
// reachable URL. On failure the returned error is a *Error whose Transitions
// show how far the attempt got.
func (d *Deployer) Deploy(ctx context.Context, spec Spec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid deploy spec: %w", err)
	}

	a := &attempt{transitions: []State{StatePending}}

	// (a) establish session. A cheap client-side command proves the
	// connection and that kubectl is present on the host.
	if _, err := d.comm.Execute(ctx, "kubectl version --client"); err != nil {
		return nil, a.fail(KindSessionFailure, "session", err)
	}
	a.advance(StateSessionEstablished)

	// (b) pull the image on the host.
	if _, err := d.comm.Execute(ctx, "docker pull "+spec.Image.String()); err != nil {
		return nil, a.fail(KindPullFailure, "pull", err)
	}
	a.advance(StateImagePulled)

	// (c) apply the rewritten manifests via stdin.
	applyCmd := fmt.Sprintf("kubectl apply -n %s -f -", spec.Namespace)
	if _, err := d.comm.ExecuteWithInput(ctx, applyCmd, combineManifests(spec.Deployment, spec.Service)); err != nil {
		return nil, a.fail(KindApplyRejected, "apply", err)
	}
	a.advance(StateManifestApplied)

	// (d) rollout restart. Issued unconditionally, even when the image tag
	// already changed in (c) and the apply alone would have rolled the
	// pods; likely redundant in that case, but kept so a re-deploy of the
	// same tag still picks up the freshly pulled image.
	restartCmd := fmt.Sprintf("kubectl rollout restart deployment/%s -n %s", spec.AppName, spec.Namespace)
	if _, err := d.comm.Execute(ctx, restartCmd); err != nil {
		return nil, a.fail(KindApplyRejected, "restart", err)
	}
	a.advance(StateRolloutTriggered)

	// (e) poll until ready replicas match desired. A cancelled parent
	// context is an aborted attempt, not a slow rollout; only the poll
	// deadline itself classifies as a timeout.
	replicas, err := d.waitReady(ctx, spec)
	if err != nil {
		if ctx.Err() != nil {
			a.advance(StateFailed)
			return nil, fmt.Errorf("deploy aborted while waiting for rollout of %s/%s: %w",
				spec.Namespace, spec.AppName, ctx.Err())
		}
		a.advance(StateTimedOut)
		return nil, &Error{
			Kind:        KindRolloutTimeout,
			Step:        "rollout",
			Transitions: a.transitions,
			Replicas:    replicas,
			Err:         err,
		}
	}
	a.advance(StateReady)

	return &Result{
		Transitions: a.transitions,
		Replicas:    replicas,
		URL:         fmt.Sprintf("http://%s:%d", spec.Host, spec.NodePort),
	}, nil
}

// waitReady polls the remote deployment status until every desired replica
// is ready. It returns the last observed replica statuses either way, so a
// timeout still reports partial progress.
func (d *Deployer) waitReady(ctx context.Context, spec Spec) ([]ReplicaStatus, error) {
	var last []ReplicaStatus

	getCmd := fmt.Sprintf("kubectl get deployment %s -n %s -o json", spec.AppName, spec.Namespace)
	podsCmd := fmt.Sprintf("kubectl get pods -n %s -l app=%s -o json", spec.Namespace, spec.AppName)

	err := wait.PollUntilContextTimeout(ctx, d.pollInterval, d.rolloutTimeout, true, func(ctx context.Context) (bool, error) {
		out, err := d.comm.Execute(ctx, getCmd)
		if err != nil {
			return false, nil
		}

		var dep appsv1.Deployment
		if err := json.Unmarshal([]byte(out), &dep); err != nil {
			return false, nil
		}

		if podsOut, err := d.comm.Execute(ctx, podsCmd); err == nil {
			if statuses, err := parsePodStatuses(podsOut); err == nil {
				last = statuses
			}
		}

		desired := int32(1)
		if dep.Spec.Replicas != nil {
			desired = *dep.Spec.Replicas
		}
		return dep.Status.ReadyReplicas == desired && desired > 0, nil
	})
	if err != nil {
		return last, fmt.Errorf("deployment %s/%s not ready within %s: %w",
			spec.Namespace, spec.AppName, d.rolloutTimeout, err)
	}
	return last, nil
}

func parsePodStatuses(out string) ([]ReplicaStatus, error) {
	var pods corev1.PodList
	if err := json.Unmarshal([]byte(out), &pods); err != nil {
		return nil, err
	}

	statuses := make([]ReplicaStatus, 0, len(pods.Items))
	for i := range pods.Items {
		pod := &pods.Items[i]
		statuses = append(statuses, ReplicaStatus{
			Name:  pod.Name,
			Ready: isPodReady(pod),
		})
	}
	return statuses, nil
}

func isPodReady(pod *corev1.Pod) bool {
	if pod.Status.Phase != corev1.PodRunning {
		return false
	}
	for _, condition := range pod.Status.Conditions {
		if condition.Type == corev1.PodReady &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

func combineManifests(docs ...[]byte) []byte {
	var combined []byte
	for _, doc := range docs {
		if len(doc) == 0 {
			continue
		}
		if len(combined) > 0 {
			combined = append(combined, []byte("\n---\n")...)
		}
		combined = append(combined, doc...)
	}
	return combined
}

// attempt tracks the state transitions of a single deployment attempt.
type attempt struct {
	transitions []State
}

func (a *attempt) advance(s State) {
	a.transitions = append(a.transitions, s)
}

func (a *attempt) fail(kind ErrorKind, step string, err error) *Error {
	a.advance(StateFailed)
	return &Error{
		Kind:        kind,
		Step:        step,
		Transitions: a.transitions,
		Err:         err,
	}
}
