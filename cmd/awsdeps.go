// Package cmd provides CLI commands for apigw.
// This file defines the shared AWS client infrastructure used by
// PersistentPreRunE to initialize SDK clients once and share them
// across subcommands via context.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go/middleware"

	"github.com/nicholasgasior/apigw/internal/cli"
	"github.com/nicholasgasior/apigw/internal/config"
	"github.com/nicholasgasior/apigw/internal/identity"
	"github.com/nicholasgasior/apigw/internal/logging"
)

// awsClients holds pre-initialized AWS SDK clients and resolved identity.
// Created once in PersistentPreRunE and stored on the command context.
type awsClients struct {
	apigwClient  *apigateway.Client
	lambdaClient *lambda.Client

	accountID string // resolved caller account (source ARN input)
	callerARN string // full caller ARN (audit log)
	region    string // effective region after flag/config/SDK resolution
	creds     aws.CredentialsProvider

	// appConfig holds the loaded user preferences: default api id,
	// default function name, stage, etc.
	appConfig *config.Config
}

// awsClientsKey is the context key for storing awsClients.
type awsClientsKey struct{}

// awsClientsFromContext retrieves the awsClients from the context.
// Returns nil if no clients have been stored.
func awsClientsFromContext(ctx context.Context) *awsClients {
	v, _ := ctx.Value(awsClientsKey{}).(*awsClients)
	return v
}

// contextWithAWSClients returns a new context carrying the given awsClients.
func contextWithAWSClients(ctx context.Context, clients *awsClients) context.Context {
	return context.WithValue(ctx, awsClientsKey{}, clients)
}

// commandNeedsAWS returns true if the command requires AWS client
// initialization. Commands that operate locally (version, config, help)
// return false.
func commandNeedsAWS(cmdName string) bool {
	switch cmdName {
	case "version", "config", "set", "get", "help":
		return false
	default:
		return true
	}
}

// resolveCredentialSource decides where AWS credentials come from. A named
// profile (flag, then config file, then AWS_PROFILE) always wins over
// explicit AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY static keys; the keys
// are consulted only when no profile is set anywhere.
func resolveCredentialSource(cliCtx *cli.CLIContext, appCfg *config.Config) (profile string, useStaticKeys bool) {
	profile = cliCtx.Profile
	if profile == "" {
		profile = appCfg.Profile
	}
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile != "" {
		return profile, false
	}
	return "", os.Getenv("AWS_ACCESS_KEY_ID") != "" && os.Getenv("AWS_SECRET_ACCESS_KEY") != ""
}

// initAWSClients resolves credentials and region, creates the SDK clients,
// resolves the caller identity, and loads the apigw config.
func initAWSClients(ctx context.Context, cliCtx *cli.CLIContext) (*awsClients, error) {
	appCfg, err := config.Load(config.DefaultConfigDir())
	if err != nil {
		return nil, fmt.Errorf("load apigw config: %w", err)
	}

	region := cliCtx.Region
	if region == "" {
		region = appCfg.Region
	}

	var opts []func(*awscfg.LoadOptions) error
	if region != "" {
		opts = append(opts, awscfg.WithRegion(region))
	}
	profile, useStaticKeys := resolveCredentialSource(cliCtx, appCfg)
	if profile != "" {
		opts = append(opts, awscfg.WithSharedConfigProfile(profile))
	} else if useStaticKeys {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				os.Getenv("AWS_ACCESS_KEY_ID"),
				os.Getenv("AWS_SECRET_ACCESS_KEY"),
				os.Getenv("AWS_SESSION_TOKEN"))))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if awsCfg.Region != "" {
		region = awsCfg.Region
	}

	// Record every SDK call to the structured log; mirrored to stderr with
	// --debug. Logging must never block command execution, so setup errors
	// are ignored.
	logDir := filepath.Join(config.DefaultConfigDir(), "logs")
	if logger, lerr := logging.NewStructuredLogger(logDir, cliCtx.Debug); lerr == nil {
		awsCfg.APIOptions = append(awsCfg.APIOptions, apiCallLogMiddleware(logger))
	}

	stsClient := sts.NewFromConfig(awsCfg)
	caller, err := identity.NewResolver(stsClient).Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return &awsClients{
		apigwClient:  apigateway.NewFromConfig(awsCfg),
		lambdaClient: lambda.NewFromConfig(awsCfg),
		accountID:    caller.AccountID,
		callerARN:    caller.ARN,
		region:       region,
		creds:        awsCfg.Credentials,
		appConfig:    appCfg,
	}, nil
}

// apiCallLogMiddleware returns an SDK middleware registration that records
// each AWS API call (service, operation, duration, result) to logger.
func apiCallLogMiddleware(logger logging.Logger) func(*middleware.Stack) error {
	return func(stack *middleware.Stack) error {
		return stack.Deserialize.Add(middleware.DeserializeMiddlewareFunc("apigwCallLog",
			func(ctx context.Context, in middleware.DeserializeInput, next middleware.DeserializeHandler) (middleware.DeserializeOutput, middleware.Metadata, error) {
				start := time.Now()
				out, md, err := next.HandleDeserialize(ctx, in)
				logger.Log(awsmiddleware.GetServiceID(ctx), awsmiddleware.GetOperationName(ctx), time.Since(start), err)
				return out, md, err
			}), middleware.After)
	}
}

// auditCommand appends an audit record for a command invocation.
// Best-effort: audit failures never fail the command.
func auditCommand(command, apiID, callerARN string) {
	path := filepath.Join(config.DefaultConfigDir(), "audit.log")
	auditor, err := logging.NewAuditLogger(path)
	if err != nil {
		return
	}
	defer auditor.Close()
	_ = auditor.LogCommand(command, apiID, callerARN)
}
