package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicholasgasior/apigw/internal/apicall"
	"github.com/nicholasgasior/apigw/internal/cli"
	"github.com/nicholasgasior/apigw/internal/gateway"
)

// callAPIDeps holds the injectable dependencies for the call-api command.
type callAPIDeps struct {
	client       *apicall.Client
	defaultAPIID string
	defaultStage string
	region       string

	// invokeURL derives the endpoint URL. Defaults to gateway.InvokeURL;
	// overridden in tests to target a local server.
	invokeURL func(apiID, region, stage, path string) string
}

// newCallAPICommand creates the production call-api command.
func newCallAPICommand() *cobra.Command {
	return newCallAPICommandWithDeps(nil)
}

// newCallAPICommandWithDeps creates the call-api command with explicit
// dependencies for testing.
func newCallAPICommandWithDeps(deps *callAPIDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call-api",
		Short: "Call a deployed API Gateway endpoint",
		Long: "Derive the invoke URL for a deployed resource and perform one HTTP request " +
			"against it. A non-2xx response is reported as a result, not an error.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps != nil {
				return runCallAPI(cmd, deps)
			}
			clients := awsClientsFromContext(cmd.Context())
			if clients == nil {
				return fmt.Errorf("AWS clients not configured")
			}
			return runCallAPI(cmd, &callAPIDeps{
				client:       apicall.NewClient(clients.region, clients.creds),
				defaultAPIID: clients.appConfig.APIGatewayID,
				defaultStage: clients.appConfig.Stage,
				region:       clients.region,
			})
		},
	}

	cmd.Flags().String("api-id", "", "REST API id (default from config)")
	cmd.Flags().String("path", "", "Resource path (required)")
	cmd.Flags().String("method", "GET", "HTTP method")
	cmd.Flags().String("data", "", "JSON request body")
	cmd.Flags().String("stage", "", "Deployment stage (default from config)")
	cmd.Flags().Bool("sign", false, "SigV4-sign the request with the resolved credentials")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

// callAPIJSON is the JSON representation of a call-api result.
type callAPIJSON struct {
	Status int             `json:"status"`
	JSON   json.RawMessage `json:"json,omitempty"`
	Text   string          `json:"text,omitempty"`
}

// runCallAPI executes the call-api command logic.
func runCallAPI(cmd *cobra.Command, deps *callAPIDeps) error {
	ctx := cmd.Context()

	cliCtx := cli.FromCommand(cmd)
	jsonOutput := cliCtx != nil && cliCtx.JSON

	apiID, _ := cmd.Flags().GetString("api-id")
	path, _ := cmd.Flags().GetString("path")
	method, _ := cmd.Flags().GetString("method")
	data, _ := cmd.Flags().GetString("data")
	stage, _ := cmd.Flags().GetString("stage")
	sign, _ := cmd.Flags().GetBool("sign")

	if apiID == "" {
		apiID = deps.defaultAPIID
	}
	if apiID == "" {
		return fmt.Errorf("no API id given; pass --api-id or set api_gateway_id in config")
	}
	if stage == "" {
		stage = deps.defaultStage
	}
	if stage == "" {
		stage = "prod"
	}

	var body []byte
	if data != "" {
		if !json.Valid([]byte(data)) {
			return fmt.Errorf("--data is not valid JSON")
		}
		body = []byte(data)
	}

	derive := deps.invokeURL
	if derive == nil {
		derive = gateway.InvokeURL
	}
	url := derive(apiID, deps.region, stage, path)

	resp, err := deps.client.Do(ctx, apicall.Request{
		URL:    url,
		Method: strings.ToUpper(method),
		Body:   body,
		Sign:   sign,
	})
	if err != nil {
		return fmt.Errorf("calling %s: %w", url, err)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(callAPIJSON{Status: resp.StatusCode, JSON: resp.JSON, Text: resp.Text})
	}

	fmt.Fprintf(w, "%s %s\n", strings.ToUpper(method), url)
	fmt.Fprintf(w, "Status: %d\n", resp.StatusCode)
	if resp.JSON != nil {
		var pretty strings.Builder
		enc := json.NewEncoder(&pretty)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp.JSON); err == nil {
			fmt.Fprint(w, pretty.String())
			return nil
		}
	}
	if resp.Text != "" {
		fmt.Fprintln(w, resp.Text)
	}
	return nil
}
