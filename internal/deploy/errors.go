package deploy

import (
	"errors"
	"fmt"
)

// ErrorKind identifies which deployment step failed.
type ErrorKind string

const (
	// KindSessionFailure means the remote session could not be established.
	KindSessionFailure ErrorKind = "session_failure"
	// KindPullFailure means the image could not be pulled on the host.
	KindPullFailure ErrorKind = "pull_failure"
	// KindApplyRejected means the cluster rejected the manifests or the
	// rollout restart command.
	KindApplyRejected ErrorKind = "apply_rejected"
	// KindRolloutTimeout means the rollout did not become ready in time.
	// The error carries the last observed per-replica readiness.
	KindRolloutTimeout ErrorKind = "rollout_timeout"
)

// Error is the failure of a deployment attempt. Transitions records every
// state the attempt passed through, including the terminal one.
type Error struct {
	Kind        ErrorKind
	Step        string
	Transitions []State
	Replicas    []ReplicaStatus
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deploy %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("deploy %s failed", e.Step)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the deployment error kind, or "" if err is not a deploy
// error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
