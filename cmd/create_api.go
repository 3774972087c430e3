package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicholasgasior/apigw/internal/cli"
	"github.com/nicholasgasior/apigw/internal/gateway"
	"github.com/nicholasgasior/apigw/internal/progress"
)

// createAPIDeps holds the injectable dependencies for the create-api command.
type createAPIDeps struct {
	provisioner     *gateway.Provisioner
	defaultFunction string
	defaultStage    string
	callerARN       string
}

// newCreateAPICommand creates the production create-api command.
func newCreateAPICommand() *cobra.Command {
	return newCreateAPICommandWithDeps(nil)
}

// newCreateAPICommandWithDeps creates the create-api command with explicit
// dependencies for testing.
func newCreateAPICommandWithDeps(deps *createAPIDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-api",
		Short: "Create or update an API Gateway endpoint backed by Lambda",
		Long: "Idempotently converge an API Gateway REST API so that the given " +
			"resource path and method proxy to a Lambda function, then deploy to the stage. " +
			"Safe to run repeatedly: existing APIs, resources, and methods are reused.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps != nil {
				return runCreateAPI(cmd, deps)
			}
			clients := awsClientsFromContext(cmd.Context())
			if clients == nil {
				return fmt.Errorf("AWS clients not configured")
			}
			return runCreateAPI(cmd, &createAPIDeps{
				provisioner: gateway.NewProvisioner(
					clients.apigwClient, clients.apigwClient,
					clients.apigwClient, clients.apigwClient,
					clients.apigwClient, clients.apigwClient,
					clients.apigwClient, clients.apigwClient,
					clients.lambdaClient, clients.lambdaClient,
					clients.region, clients.accountID,
				),
				defaultFunction: clients.appConfig.LambdaFunctionName,
				defaultStage:    clients.appConfig.Stage,
				callerARN:       clients.callerARN,
			})
		},
	}

	cmd.Flags().String("name", "", "REST API name (required)")
	cmd.Flags().String("path", "", "Resource path, e.g. my-resource or a/b (required)")
	cmd.Flags().String("method", "GET", "HTTP method for the endpoint")
	cmd.Flags().String("function", "", "Lambda function name or ARN (default from config)")
	cmd.Flags().String("stage", "", "Deployment stage (default from config)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

// createAPIJSON is the JSON representation of a create-api result.
type createAPIJSON struct {
	APIID     string `json:"api_id"`
	InvokeURL string `json:"invoke_url"`
}

// runCreateAPI executes the create-api command logic.
func runCreateAPI(cmd *cobra.Command, deps *createAPIDeps) error {
	ctx := cmd.Context()

	cliCtx := cli.FromCommand(cmd)
	jsonOutput := cliCtx != nil && cliCtx.JSON

	name, _ := cmd.Flags().GetString("name")
	path, _ := cmd.Flags().GetString("path")
	method, _ := cmd.Flags().GetString("method")
	function, _ := cmd.Flags().GetString("function")
	stage, _ := cmd.Flags().GetString("stage")

	if function == "" {
		function = deps.defaultFunction
	}
	if function == "" {
		return fmt.Errorf("no Lambda function given; pass --function or set lambda_function_name in config")
	}
	if stage == "" {
		stage = deps.defaultStage
	}
	if stage == "" {
		stage = "prod"
	}
	method = strings.ToUpper(method)

	sp := progress.NewCommandSpinner(cmd.OutOrStdout(), jsonOutput)
	sp.Start(fmt.Sprintf("Provisioning %s /%s -> %s...", method, strings.Trim(path, "/"), function))

	if cliCtx != nil && cliCtx.Verbose {
		deps.provisioner.WithStepNotifier(sp.Update)
	}

	result, err := deps.provisioner.CreateOrUpdate(ctx, gateway.Input{
		APIName:      name,
		ResourcePath: path,
		HTTPMethod:   method,
		FunctionName: function,
		Stage:        stage,
	})
	if err != nil {
		sp.Fail("Provisioning failed.")
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			_ = enc.Encode(map[string]string{"error": err.Error()})
			return silentExitError{}
		}
		return fmt.Errorf("creating API Gateway endpoint: %w", err)
	}

	sp.Stop("Endpoint deployed.")

	auditCommand("create-api", result.APIID, deps.callerARN)

	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(createAPIJSON{APIID: result.APIID, InvokeURL: result.InvokeURL})
	}

	fmt.Fprintf(w, "API ID:     %s\n", result.APIID)
	fmt.Fprintf(w, "Invoke URL: %s\n", result.InvokeURL)
	fmt.Fprintf(w, "\nTest with:\n  curl -X %s %s\n", method, result.InvokeURL)
	return nil
}
