// Package aws provides thin wrappers around AWS SDK clients used by apigw.
// This file defines the Lambda operations needed for integration wiring,
// permission grants, and direct invocation.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// GetFunctionAPI defines the subset of the Lambda API used for resolving a
// function name to its ARN.
type GetFunctionAPI interface {
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
}

// AddPermissionAPI defines the subset of the Lambda API used for granting
// API Gateway permission to invoke a function.
type AddPermissionAPI interface {
	AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
}

// InvokeAPI defines the subset of the Lambda API used for synchronous
// direct invocation.
type InvokeAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

var (
	_ GetFunctionAPI   = (*lambda.Client)(nil)
	_ AddPermissionAPI = (*lambda.Client)(nil)
	_ InvokeAPI        = (*lambda.Client)(nil)
)
