package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apigwaws "github.com/nicholasgasior/apigw/internal/aws"
	"github.com/nicholasgasior/apigw/internal/cli"
	"github.com/nicholasgasior/apigw/internal/gateway"
)

// listResourcesDeps holds the injectable dependencies for the
// list-resources command.
type listResourcesDeps struct {
	getResources apigwaws.GetResourcesAPI
	defaultAPIID string
}

// newListResourcesCommand creates the production list-resources command.
func newListResourcesCommand() *cobra.Command {
	return newListResourcesCommandWithDeps(nil)
}

// newListResourcesCommandWithDeps creates the list-resources command with
// explicit dependencies for testing.
func newListResourcesCommandWithDeps(deps *listResourcesDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-resources",
		Short: "List the resource tree of a REST API",
		Long:  "List every resource of an API Gateway REST API with its id, path, and bound methods.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps != nil {
				return runListResources(cmd, deps)
			}
			clients := awsClientsFromContext(cmd.Context())
			if clients == nil {
				return fmt.Errorf("AWS clients not configured")
			}
			return runListResources(cmd, &listResourcesDeps{
				getResources: clients.apigwClient,
				defaultAPIID: clients.appConfig.APIGatewayID,
			})
		},
	}

	cmd.Flags().String("api-id", "", "REST API id (default from config)")

	return cmd
}

// resourceJSON is the JSON representation of one resource node.
type resourceJSON struct {
	ID      string   `json:"id"`
	Path    string   `json:"path"`
	Methods []string `json:"methods,omitempty"`
}

// runListResources executes the list-resources command logic.
func runListResources(cmd *cobra.Command, deps *listResourcesDeps) error {
	ctx := cmd.Context()

	cliCtx := cli.FromCommand(cmd)
	jsonOutput := cliCtx != nil && cliCtx.JSON

	apiID, _ := cmd.Flags().GetString("api-id")
	if apiID == "" {
		apiID = deps.defaultAPIID
	}
	if apiID == "" {
		return fmt.Errorf("no API id given; pass --api-id or set api_gateway_id in config")
	}

	resources, err := gateway.ListResources(ctx, deps.getResources, apiID)
	if err != nil {
		return fmt.Errorf("listing resources: %w", err)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		items := make([]resourceJSON, 0, len(resources))
		for _, r := range resources {
			items = append(items, resourceJSON{ID: r.ID, Path: r.Path, Methods: r.Methods})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(resources) == 0 {
		fmt.Fprintln(w, "No resources found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tMETHODS")
	for _, r := range resources {
		methods := strings.Join(r.Methods, ",")
		if methods == "" {
			methods = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Path, methods)
	}
	return tw.Flush()
}
