// Package infra converges cloud infrastructure through the declarative
// provisioning tool and verifies the result against the cloud API.
package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shipway-dev/shipway/internal/platform/ec2"
	"github.com/shipway-dev/shipway/internal/platform/exec"
)

// Spec is the declarative target-state description for one environment.
// The terraform module under Workdir owns the resource details (VPC,
// security group, instance); the spec only carries what the pipeline
// needs to drive and verify it.
type Spec struct {
	Workdir       string
	Region        string
	Environment   string
	AddressOutput string
}

// ProvisionedHost is a running compute instance satisfying a Spec.
type ProvisionedHost struct {
	Address string
}

// InstanceVerifier confirms the converged instance exists and runs.
// Implemented by ec2.Client; nil disables verification.
type InstanceVerifier interface {
	FindInstance(ctx context.Context, env string) (*ec2.Instance, error)
}

// Provisioner drives the declarative-infrastructure tool.
//
// Provision is idempotent: the tool's convergence semantics make a
// re-run against unchanged resources a no-op, and the same address
// comes back both times.
type Provisioner struct {
	runner   exec.Runner
	verifier InstanceVerifier
}

// NewProvisioner creates a Provisioner. verifier may be nil.
func NewProvisioner(runner exec.Runner, verifier InstanceVerifier) *Provisioner {
	return &Provisioner{runner: runner, verifier: verifier}
}

// Provision converges the spec and returns the instance's public address.
func (p *Provisioner) Provision(ctx context.Context, spec Spec) (ProvisionedHost, error) {
	var zero ProvisionedHost

	if spec.Workdir == "" {
		return zero, &Error{Kind: KindInvalid, Op: "init", Err: fmt.Errorf("workdir is required")}
	}

	if out, err := p.runner.Run(ctx, spec.Workdir, "terraform", "init", "-input=false"); err != nil {
		return zero, classify("init", out, err)
	}

	if out, err := p.runner.Run(ctx, spec.Workdir, "terraform", "apply", "-auto-approve", "-input=false"); err != nil {
		return zero, classify("apply", out, err)
	}

	out, err := p.runner.Run(ctx, spec.Workdir, "terraform", "output", "-json")
	if err != nil {
		return zero, classify("output", out, err)
	}

	outputs, err := parseOutputs([]byte(out))
	if err != nil {
		return zero, &Error{Kind: KindInvalid, Op: "output", Err: err}
	}

	address, ok := outputs[spec.AddressOutput]
	if !ok || address == "" {
		return zero, &Error{Kind: KindInvalid, Op: "output",
			Err: fmt.Errorf("output %q missing from terraform state", spec.AddressOutput)}
	}

	if err := p.verify(ctx, spec, address); err != nil {
		return zero, err
	}

	return ProvisionedHost{Address: address}, nil
}

// Teardown destroys the environment's resources.
func (p *Provisioner) Teardown(ctx context.Context, spec Spec) error {
	if spec.Workdir == "" {
		return &Error{Kind: KindInvalid, Op: "destroy", Err: fmt.Errorf("workdir is required")}
	}

	if out, err := p.runner.Run(ctx, spec.Workdir, "terraform", "destroy", "-auto-approve", "-input=false"); err != nil {
		return classify("destroy", out, err)
	}
	return nil
}

// verify cross-checks the tool's claimed address against the cloud API.
func (p *Provisioner) verify(ctx context.Context, spec Spec, address string) error {
	if p.verifier == nil {
		return nil
	}

	inst, err := p.verifier.FindInstance(ctx, spec.Environment)
	if err != nil {
		switch {
		case ec2.IsTransient(err):
			return &Error{Kind: KindTransient, Op: "verify", Err: err}
		case ec2.IsInvalid(err):
			return &Error{Kind: KindInvalid, Op: "verify", Err: err}
		default:
			return &Error{Kind: KindTransient, Op: "verify", Err: err}
		}
	}

	if !inst.Running() {
		return &Error{Kind: KindConflict, Op: "verify",
			Err: fmt.Errorf("no running instance tagged Environment=%s; state has drifted", spec.Environment)}
	}

	if inst.PublicAddress != address {
		return &Error{Kind: KindConflict, Op: "verify",
			Err: fmt.Errorf("instance address %s does not match terraform output %s", inst.PublicAddress, address)}
	}

	return nil
}

// classify maps tool failures onto the provisioning error taxonomy by
// inspecting the tool's output. Unrecognized failures are conflicts:
// they need a human, and the output is carried verbatim.
func classify(op, output string, err error) *Error {
	combined := fmt.Errorf("%w\n%s", err, strings.TrimSpace(output))

	switch {
	case containsAny(output,
		"Error acquiring the state lock",
		"state lock",
		"Saved plan is stale",
		"does not match the configuration"):
		return &Error{Kind: KindConflict, Op: op, Err: combined}

	case containsAny(output,
		"Invalid",
		"Unsupported argument",
		"Missing required argument",
		"Reference to undeclared",
		"UnauthorizedOperation",
		"AuthFailure"):
		return &Error{Kind: KindInvalid, Op: op, Err: combined}

	case containsAny(output,
		"timeout",
		"connection reset",
		"connection refused",
		"RequestLimitExceeded",
		"Throttling",
		"503",
		"ServiceUnavailable"):
		return &Error{Kind: KindTransient, Op: op, Err: combined}

	default:
		return &Error{Kind: KindConflict, Op: op, Err: combined}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseOutputs flattens `terraform output -json` into name -> value
// for string-valued outputs.
func parseOutputs(data []byte) (map[string]string, error) {
	var raw map[string]struct {
		Value any `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse terraform outputs: %w", err)
	}

	outputs := make(map[string]string, len(raw))
	for name, out := range raw {
		if s, ok := out.Value.(string); ok {
			outputs[name] = s
		}
	}
	return outputs, nil
}
