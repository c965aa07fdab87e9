// Package ec2 provides a thin client for verifying provisioned instances.
//
// The declarative-infrastructure tool owns resource creation; this client
// only confirms that the instance the tool claims to have converged
// actually exists and is running, so drift surfaces as a distinct error
// instead of a late deploy failure.
package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// API is the subset of the EC2 API the client uses.
type API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

// Instance describes a running compute instance.
type Instance struct {
	ID            string
	PublicAddress string
	State         string
}

// Client looks up instances by environment tag.
type Client struct {
	api API
}

// NewClient creates a Client for the given region using the default
// AWS credential chain.
func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Client{api: ec2.NewFromConfig(cfg)}, nil
}

// NewClientWithAPI creates a Client over an existing API implementation.
func NewClientWithAPI(api API) *Client {
	return &Client{api: api}
}

// FindInstance returns the instance tagged Environment=env, or nil if
// none exists (terminated instances are ignored).
func (c *Client) FindInstance(ctx context.Context, env string) (*Instance, error) {
	out, err := c.api.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{Name: aws.String("tag:Environment"), Values: []string{env}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("describe instances for environment %q: %w", env, err)
	}

	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			if inst.State == nil || inst.State.Name == types.InstanceStateNameTerminated {
				continue
			}

			found := &Instance{State: string(inst.State.Name)}
			if inst.InstanceId != nil {
				found.ID = *inst.InstanceId
			}
			if inst.PublicIpAddress != nil {
				found.PublicAddress = *inst.PublicIpAddress
			}
			return found, nil
		}
	}

	return nil, nil
}

// Running reports whether the instance is in the running state.
func (i *Instance) Running() bool {
	return i != nil && i.State == string(types.InstanceStateNameRunning)
}
