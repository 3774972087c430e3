package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nicholasgasior/apigw/internal/cli"
	"github.com/nicholasgasior/apigw/internal/gateway"
)

// deleteResourceDeps holds the injectable dependencies for the
// delete-resource command.
type deleteResourceDeps struct {
	deleter      *gateway.Deleter
	defaultAPIID string
	callerARN    string
}

// newDeleteResourceCommand creates the production delete-resource command.
func newDeleteResourceCommand() *cobra.Command {
	return newDeleteResourceCommandWithDeps(nil)
}

// newDeleteResourceCommandWithDeps creates the delete-resource command with
// explicit dependencies for testing.
func newDeleteResourceCommandWithDeps(deps *deleteResourceDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-resource",
		Short: "Delete a resource from a REST API",
		Long: "Delete a resource node (and its children) from an API Gateway REST API, " +
			"addressed either by resource id or by path.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps != nil {
				return runDeleteResource(cmd, deps)
			}
			clients := awsClientsFromContext(cmd.Context())
			if clients == nil {
				return fmt.Errorf("AWS clients not configured")
			}
			return runDeleteResource(cmd, &deleteResourceDeps{
				deleter:      gateway.NewDeleter(clients.apigwClient, clients.apigwClient),
				defaultAPIID: clients.appConfig.APIGatewayID,
				callerARN:    clients.callerARN,
			})
		},
	}

	cmd.Flags().String("api-id", "", "REST API id (default from config)")
	cmd.Flags().String("resource-id", "", "Resource id to delete")
	cmd.Flags().String("path", "", "Resource path to delete")
	cmd.MarkFlagsMutuallyExclusive("resource-id", "path")

	return cmd
}

// runDeleteResource executes the delete-resource command logic.
func runDeleteResource(cmd *cobra.Command, deps *deleteResourceDeps) error {
	ctx := cmd.Context()

	cliCtx := cli.FromCommand(cmd)
	jsonOutput := cliCtx != nil && cliCtx.JSON

	apiID, _ := cmd.Flags().GetString("api-id")
	resourceID, _ := cmd.Flags().GetString("resource-id")
	path, _ := cmd.Flags().GetString("path")

	if apiID == "" {
		apiID = deps.defaultAPIID
	}
	if apiID == "" {
		return fmt.Errorf("no API id given; pass --api-id or set api_gateway_id in config")
	}
	if resourceID == "" && path == "" {
		return fmt.Errorf("one of --resource-id or --path is required")
	}

	var err error
	target := resourceID
	if resourceID != "" {
		err = deps.deleter.DeleteByID(ctx, apiID, resourceID)
	} else {
		target = path
		err = deps.deleter.DeleteByPath(ctx, apiID, path)
	}
	if err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}

	auditCommand("delete-resource", apiID, deps.callerARN)

	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{"deleted": target, "api_id": apiID})
	}

	fmt.Fprintf(w, "Deleted resource %s from API %s\n", target, apiID)
	return nil
}
