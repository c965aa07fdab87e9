// Package exec provides an injectable runner for external tool invocations.
//
// Pipeline components never call os/exec directly. They depend on the
// Runner interface so tests can substitute fakes and so the set of tools
// the pipeline shells out to stays visible in one place.
package exec

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external command and returns its combined output.
type Runner interface {
	// Run executes name with args in dir (empty dir means the current
	// working directory). Returns combined stdout+stderr.
	Run(ctx context.Context, dir, name string, args ...string) (string, error)

	// RunWithInput is Run with data piped to the command's stdin.
	RunWithInput(ctx context.Context, dir string, input []byte, name string, args ...string) (string, error)
}

// OSRunner runs commands on the local system.
type OSRunner struct{}

// NewOSRunner creates a Runner backed by os/exec.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run implements Runner.
func (r *OSRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	return r.RunWithInput(ctx, dir, nil, name, args...)
}

// RunWithInput implements Runner.
func (r *OSRunner) RunWithInput(ctx context.Context, dir string, input []byte, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- command names come from a fixed allow-list, never user input
	cmd.Dir = dir
	if input != nil {
		cmd.Stdin = strings.NewReader(string(input))
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	return string(output), nil
}

// IsExitError reports whether err wraps a non-zero exit from the tool,
// as opposed to the tool not being found or the context being cancelled.
func IsExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
