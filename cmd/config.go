package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/nicholasgasior/apigw/internal/cli"
	"github.com/nicholasgasior/apigw/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Display current configuration",
		Long:  "Display all apigw configuration values. Uses ~/.config/apigw/config.toml.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := config.DefaultConfigDir()
			cfg, err := config.Load(configDir)
			if err != nil {
				return err
			}

			cliCtx := cli.FromCommand(cmd)
			if cliCtx != nil && cliCtx.JSON {
				return printConfigJSON(cmd, cfg)
			}

			return printConfigHuman(cmd, cfg)
		},
	}

	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func printConfigJSON(cmd *cobra.Command, cfg *config.Config) error {
	data := map[string]any{
		"region":               cfg.Region,
		"profile":              cfg.Profile,
		"api_gateway_id":       cfg.APIGatewayID,
		"lambda_function_name": cfg.LambdaFunctionName,
		"stage":                cfg.Stage,
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printConfigHuman(cmd *cobra.Command, cfg *config.Config) error {
	w := cmd.OutOrStdout()

	display := func(v string) string {
		if v == "" {
			return "(not set)"
		}
		return v
	}

	_, err := fmt.Fprintf(w,
		"region               %s\n"+
			"profile              %s\n"+
			"api_gateway_id       %s\n"+
			"lambda_function_name %s\n"+
			"stage                %s\n",
		display(cfg.Region),
		display(cfg.Profile),
		display(cfg.APIGatewayID),
		display(cfg.LambdaFunctionName),
		cfg.Stage,
	)
	return err
}
