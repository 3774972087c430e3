// Package identity resolves the current AWS caller identity. The account
// id feeds the execute-api source ARN used in Lambda permission grants.
package identity

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Caller holds the resolved caller identity.
type Caller struct {
	AccountID string
	ARN       string
}

// STSClient defines the subset of the STS API used for identity resolution.
// This interface enables mock injection for testing.
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Resolver resolves the current AWS caller identity to a Caller.
type Resolver struct {
	client STSClient
}

// NewResolver creates a Resolver with the given STS client.
func NewResolver(client STSClient) *Resolver {
	return &Resolver{client: client}
}

// Resolve calls STS GetCallerIdentity once per command invocation.
func (r *Resolver) Resolve(ctx context.Context) (*Caller, error) {
	out, err := r.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("sts get-caller-identity: %w", err)
	}

	if out.Account == nil {
		return nil, fmt.Errorf("sts get-caller-identity returned nil account")
	}

	caller := &Caller{AccountID: *out.Account}
	if out.Arn != nil {
		caller.ARN = *out.Arn
	}
	return caller, nil
}

var _ STSClient = (*sts.Client)(nil)
