package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nicholasgasior/apigw/internal/cli"
	"github.com/nicholasgasior/apigw/internal/invoke"
)

// invokeLambdaDeps holds the injectable dependencies for the invoke-lambda
// command.
type invokeLambdaDeps struct {
	invoker         *invoke.Invoker
	defaultFunction string
}

// newInvokeLambdaCommand creates the production invoke-lambda command.
func newInvokeLambdaCommand() *cobra.Command {
	return newInvokeLambdaCommandWithDeps(nil)
}

// newInvokeLambdaCommandWithDeps creates the invoke-lambda command with
// explicit dependencies for testing.
func newInvokeLambdaCommandWithDeps(deps *invokeLambdaDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke-lambda",
		Short: "Invoke the backend Lambda function directly",
		Long: "Invoke a Lambda function synchronously with a JSON payload, bypassing " +
			"API Gateway, and print the decoded response.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps != nil {
				return runInvokeLambda(cmd, deps)
			}
			clients := awsClientsFromContext(cmd.Context())
			if clients == nil {
				return fmt.Errorf("AWS clients not configured")
			}
			return runInvokeLambda(cmd, &invokeLambdaDeps{
				invoker:         invoke.NewInvoker(clients.lambdaClient),
				defaultFunction: clients.appConfig.LambdaFunctionName,
			})
		},
	}

	cmd.Flags().String("function", "", "Lambda function name or ARN (default from config)")
	cmd.Flags().String("payload", "", "JSON payload to send")

	return cmd
}

// runInvokeLambda executes the invoke-lambda command logic.
func runInvokeLambda(cmd *cobra.Command, deps *invokeLambdaDeps) error {
	ctx := cmd.Context()

	cliCtx := cli.FromCommand(cmd)
	jsonOutput := cliCtx != nil && cliCtx.JSON

	function, _ := cmd.Flags().GetString("function")
	payloadArg, _ := cmd.Flags().GetString("payload")

	if function == "" {
		function = deps.defaultFunction
	}
	if function == "" {
		return fmt.Errorf("no Lambda function given; pass --function or set lambda_function_name in config")
	}

	var payload any
	if payloadArg != "" {
		if !json.Valid([]byte(payloadArg)) {
			return fmt.Errorf("--payload is not valid JSON")
		}
		payload = json.RawMessage(payloadArg)
	}

	result, err := deps.invoker.Invoke(ctx, function, payload)
	if err != nil {
		return fmt.Errorf("invoking %s: %w", function, err)
	}

	w := cmd.OutOrStdout()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if jsonOutput {
		return enc.Encode(map[string]json.RawMessage{"response": result})
	}

	fmt.Fprintf(w, "Response from %s:\n", function)
	return enc.Encode(result)
}
