// Package aws provides thin wrappers around AWS SDK clients used by apigw.
// Each interface wraps exactly one AWS SDK method, enabling mock injection
// in tests. This file defines the API Gateway (REST API v1) operations.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/apigateway"
)

// ---------------------------------------------------------------------------
// REST API interfaces
// ---------------------------------------------------------------------------

// GetRestApisAPI defines the subset of the API Gateway API used for listing
// REST APIs when resolving an API by name.
type GetRestApisAPI interface {
	GetRestApis(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error)
}

// CreateRestApiAPI defines the subset of the API Gateway API used for
// creating a new REST API.
type CreateRestApiAPI interface {
	CreateRestApi(ctx context.Context, params *apigateway.CreateRestApiInput, optFns ...func(*apigateway.Options)) (*apigateway.CreateRestApiOutput, error)
}

// ---------------------------------------------------------------------------
// Resource tree interfaces
// ---------------------------------------------------------------------------

// GetResourcesAPI defines the subset of the API Gateway API used for
// fetching the resource tree of a REST API.
type GetResourcesAPI interface {
	GetResources(ctx context.Context, params *apigateway.GetResourcesInput, optFns ...func(*apigateway.Options)) (*apigateway.GetResourcesOutput, error)
}

// CreateResourceAPI defines the subset of the API Gateway API used for
// creating a child resource under a parent.
type CreateResourceAPI interface {
	CreateResource(ctx context.Context, params *apigateway.CreateResourceInput, optFns ...func(*apigateway.Options)) (*apigateway.CreateResourceOutput, error)
}

// DeleteResourceAPI defines the subset of the API Gateway API used for
// deleting a resource node (and implicitly its children).
type DeleteResourceAPI interface {
	DeleteResource(ctx context.Context, params *apigateway.DeleteResourceInput, optFns ...func(*apigateway.Options)) (*apigateway.DeleteResourceOutput, error)
}

// ---------------------------------------------------------------------------
// Method, integration, and deployment interfaces
// ---------------------------------------------------------------------------

// GetMethodAPI defines the subset of the API Gateway API used for checking
// whether a method exists on a resource.
type GetMethodAPI interface {
	GetMethod(ctx context.Context, params *apigateway.GetMethodInput, optFns ...func(*apigateway.Options)) (*apigateway.GetMethodOutput, error)
}

// PutMethodAPI defines the subset of the API Gateway API used for creating
// a method on a resource.
type PutMethodAPI interface {
	PutMethod(ctx context.Context, params *apigateway.PutMethodInput, optFns ...func(*apigateway.Options)) (*apigateway.PutMethodOutput, error)
}

// PutIntegrationAPI defines the subset of the API Gateway API used for
// wiring a method to its backend integration.
type PutIntegrationAPI interface {
	PutIntegration(ctx context.Context, params *apigateway.PutIntegrationInput, optFns ...func(*apigateway.Options)) (*apigateway.PutIntegrationOutput, error)
}

// CreateDeploymentAPI defines the subset of the API Gateway API used for
// deploying the current resource tree to a stage.
type CreateDeploymentAPI interface {
	CreateDeployment(ctx context.Context, params *apigateway.CreateDeploymentInput, optFns ...func(*apigateway.Options)) (*apigateway.CreateDeploymentOutput, error)
}

// ---------------------------------------------------------------------------
// Compile-time interface satisfaction checks
// ---------------------------------------------------------------------------

var (
	_ GetRestApisAPI      = (*apigateway.Client)(nil)
	_ CreateRestApiAPI    = (*apigateway.Client)(nil)
	_ GetResourcesAPI     = (*apigateway.Client)(nil)
	_ CreateResourceAPI   = (*apigateway.Client)(nil)
	_ DeleteResourceAPI   = (*apigateway.Client)(nil)
	_ GetMethodAPI        = (*apigateway.Client)(nil)
	_ PutMethodAPI        = (*apigateway.Client)(nil)
	_ PutIntegrationAPI   = (*apigateway.Client)(nil)
	_ CreateDeploymentAPI = (*apigateway.Client)(nil)
)
