package gateway

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	apigwaws "github.com/nicholasgasior/apigw/internal/aws"
)

// apiPageLimit is the page size requested from GetRestApis.
const apiPageLimit = 500

// Input holds the desired endpoint description for a CreateOrUpdate run.
type Input struct {
	APIName      string // REST API name, looked up before creating
	ResourcePath string // slash-delimited resource path, e.g. "my-resource" or "a/b"
	HTTPMethod   string // HTTP verb for the method binding
	FunctionName string // Lambda function name or ARN
	Stage        string // deployment stage, e.g. "prod"
}

// Result holds the outcome of a successful CreateOrUpdate run.
type Result struct {
	APIID     string
	InvokeURL string
}

// Provisioner converges an API Gateway REST API to a desired endpoint
// wiring. Every pipeline step re-derives its decision from freshly fetched
// remote state, so repeated runs with the same Input are idempotent: they
// reuse the existing API, resource tree, and method, overwrite the
// integration, absorb the already-granted permission, and redeploy.
//
// The one unconditional side effect is the deployment: a new one is created
// on every run, even when nothing changed, so the stage always reflects the
// latest wiring.
type Provisioner struct {
	getRestApis      apigwaws.GetRestApisAPI
	createRestApi    apigwaws.CreateRestApiAPI
	getMethod        apigwaws.GetMethodAPI
	putMethod        apigwaws.PutMethodAPI
	putIntegration   apigwaws.PutIntegrationAPI
	createDeployment apigwaws.CreateDeploymentAPI
	getFunction      apigwaws.GetFunctionAPI
	addPermission    apigwaws.AddPermissionAPI

	resolver *Resolver

	region    string
	accountID string

	stepFn func(step string)
}

// NewProvisioner creates a Provisioner with all required AWS interfaces.
// region and accountID feed the derived integration URI, source ARN, and
// invoke URL.
func NewProvisioner(
	getRestApis apigwaws.GetRestApisAPI,
	createRestApi apigwaws.CreateRestApiAPI,
	getResources apigwaws.GetResourcesAPI,
	createResource apigwaws.CreateResourceAPI,
	getMethod apigwaws.GetMethodAPI,
	putMethod apigwaws.PutMethodAPI,
	putIntegration apigwaws.PutIntegrationAPI,
	createDeployment apigwaws.CreateDeploymentAPI,
	getFunction apigwaws.GetFunctionAPI,
	addPermission apigwaws.AddPermissionAPI,
	region, accountID string,
) *Provisioner {
	return &Provisioner{
		getRestApis:      getRestApis,
		createRestApi:    createRestApi,
		getMethod:        getMethod,
		putMethod:        putMethod,
		putIntegration:   putIntegration,
		createDeployment: createDeployment,
		getFunction:      getFunction,
		addPermission:    addPermission,
		resolver:         NewResolver(getResources, createResource),
		region:           region,
		accountID:        accountID,
	}
}

// WithStepNotifier sets a callback invoked before each pipeline step with a
// short progress description. Used by the CLI to narrate verbose runs.
// Returns p for chaining.
func (p *Provisioner) WithStepNotifier(fn func(step string)) *Provisioner {
	p.stepFn = fn
	return p
}

func (p *Provisioner) notify(step string) {
	if p.stepFn != nil {
		p.stepFn(step)
	}
}

// CreateOrUpdate runs the provisioning pipeline for the desired endpoint
// and returns the API id and invoke URL. Any step failure aborts the run
// with a StepError naming the failed step; resources created by earlier
// steps are left in place and picked up by the next run.
func (p *Provisioner) CreateOrUpdate(ctx context.Context, in Input) (*Result, error) {
	p.notify("Resolving REST API...")
	apiID, err := p.resolveAPI(ctx, in.APIName)
	if err != nil {
		return nil, stepErr("resolve api", err)
	}

	p.notify("Resolving resource path...")
	resourceID, err := p.resolver.ResolveOrCreate(ctx, apiID, in.ResourcePath)
	if err != nil {
		return nil, stepErr("resolve resource path", err)
	}

	p.notify("Asserting method...")
	if err := p.assertMethod(ctx, apiID, resourceID, in.HTTPMethod); err != nil {
		return nil, stepErr("assert method", err)
	}

	p.notify("Wiring Lambda integration...")
	functionARN, err := p.wireIntegration(ctx, apiID, resourceID, in.HTTPMethod, in.FunctionName)
	if err != nil {
		return nil, stepErr("put integration", err)
	}

	p.notify("Granting invoke permission...")
	if err := p.grantPermission(ctx, apiID, in.FunctionName, functionARN); err != nil {
		return nil, stepErr("grant permission", err)
	}

	p.notify("Creating deployment...")
	if err := p.deploy(ctx, apiID, in.Stage); err != nil {
		return nil, stepErr("create deployment", err)
	}

	return &Result{
		APIID:     apiID,
		InvokeURL: InvokeURL(apiID, p.region, in.Stage, in.ResourcePath),
	}, nil
}

// resolveAPI finds an existing REST API by name, paging through GetRestApis,
// or creates one. On duplicate names the first match in page order wins.
func (p *Provisioner) resolveAPI(ctx context.Context, name string) (string, error) {
	var position *string
	for {
		out, err := p.getRestApis.GetRestApis(ctx, &apigateway.GetRestApisInput{
			Position: position,
			Limit:    aws.Int32(apiPageLimit),
		})
		if err != nil {
			return "", fmt.Errorf("apigateway get-rest-apis: %w", err)
		}

		for _, api := range out.Items {
			if aws.ToString(api.Name) == name && api.Id != nil {
				return *api.Id, nil
			}
		}

		if out.Position == nil {
			break
		}
		position = out.Position
	}

	created, err := p.createRestApi.CreateRestApi(ctx, &apigateway.CreateRestApiInput{
		Name:        aws.String(name),
		Description: aws.String("Created by apigw"),
		EndpointConfiguration: &apigwtypes.EndpointConfiguration{
			Types: []apigwtypes.EndpointType{apigwtypes.EndpointTypeRegional},
		},
	})
	if err != nil {
		return "", fmt.Errorf("apigateway create-rest-api %q: %w", name, err)
	}
	return aws.ToString(created.Id), nil
}

// assertMethod ensures a method of the requested verb exists on the
// resource. An existing method is left untouched, whatever its settings:
// authorization policy is configuration, not something this pipeline
// overwrites. Missing methods are created with no auth and no API key.
func (p *Provisioner) assertMethod(ctx context.Context, apiID, resourceID, httpMethod string) error {
	_, err := p.getMethod.GetMethod(ctx, &apigateway.GetMethodInput{
		RestApiId:  aws.String(apiID),
		ResourceId: aws.String(resourceID),
		HttpMethod: aws.String(httpMethod),
	})
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("apigateway get-method %s: %w", httpMethod, err)
	}

	_, err = p.putMethod.PutMethod(ctx, &apigateway.PutMethodInput{
		RestApiId:         aws.String(apiID),
		ResourceId:        aws.String(resourceID),
		HttpMethod:        aws.String(httpMethod),
		AuthorizationType: aws.String("NONE"),
		ApiKeyRequired:    false,
	})
	if err != nil && !isConflict(err) {
		return fmt.Errorf("apigateway put-method %s: %w", httpMethod, err)
	}
	return nil
}

// wireIntegration resolves the function ARN and overwrites the method's
// integration to proxy to it. Overwritten unconditionally: the function
// reference is the primary mutable input of the whole operation.
func (p *Provisioner) wireIntegration(ctx context.Context, apiID, resourceID, httpMethod, functionName string) (string, error) {
	fn, err := p.getFunction.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(functionName),
	})
	if err != nil {
		if isNotFound(err) {
			return "", &NotFoundError{Kind: "function", Name: functionName}
		}
		return "", fmt.Errorf("lambda get-function %q: %w", functionName, err)
	}
	functionARN := aws.ToString(fn.Configuration.FunctionArn)

	// Lambda integrations are always invoked with POST regardless of the
	// client-facing method; AWS_PROXY forwards the full request and returns
	// the function's response verbatim.
	_, err = p.putIntegration.PutIntegration(ctx, &apigateway.PutIntegrationInput{
		RestApiId:             aws.String(apiID),
		ResourceId:            aws.String(resourceID),
		HttpMethod:            aws.String(httpMethod),
		Type:                  apigwtypes.IntegrationTypeAwsProxy,
		IntegrationHttpMethod: aws.String("POST"),
		Uri:                   aws.String(IntegrationURI(p.region, functionARN)),
	})
	if err != nil {
		return "", fmt.Errorf("apigateway put-integration %s: %w", httpMethod, err)
	}
	return functionARN, nil
}

// grantPermission adds the resource-based statement allowing this API to
// invoke the function. A ResourceConflictException means the statement is
// already in place, which is the desired end state.
func (p *Provisioner) grantPermission(ctx context.Context, apiID, functionName, functionARN string) error {
	_, err := p.addPermission.AddPermission(ctx, &lambda.AddPermissionInput{
		FunctionName: aws.String(functionARN),
		StatementId:  aws.String(StatementID(apiID, functionName)),
		Action:       aws.String("lambda:InvokeFunction"),
		Principal:    aws.String("apigateway.amazonaws.com"),
		SourceArn:    aws.String(SourceARN(p.region, p.accountID, apiID)),
	})
	if err != nil && !isConflict(err) {
		return fmt.Errorf("lambda add-permission %q: %w", functionName, err)
	}
	return nil
}

// deploy snapshots the current resource tree onto the stage.
func (p *Provisioner) deploy(ctx context.Context, apiID, stage string) error {
	_, err := p.createDeployment.CreateDeployment(ctx, &apigateway.CreateDeploymentInput{
		RestApiId: aws.String(apiID),
		StageName: aws.String(stage),
	})
	if err != nil {
		return fmt.Errorf("apigateway create-deployment stage %q: %w", stage, err)
	}
	return nil
}
