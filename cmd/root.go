package cmd

import (
	"fmt"

	"github.com/nicholasgasior/apigw/internal/cli"
	"github.com/spf13/cobra"
)

// NewRootCommand creates and returns the root cobra command with all global
// persistent flags registered. Subcommands are attached here.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "apigw",
		Short: "Provision and call API Gateway endpoints backed by Lambda",
		Long: "Provision an API Gateway REST API fronting a Lambda function, " +
			"and round-trip requests through the deployed endpoint or the function directly.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cliCtx := cli.NewCLIContext(cmd)
			ctx := cli.WithContext(cmd.Context(), cliCtx)

			if commandNeedsAWS(cmd.Name()) {
				clients, err := initAWSClients(ctx, cliCtx)
				if err != nil {
					return fmt.Errorf("initialize AWS clients: %w", err)
				}
				ctx = contextWithAWSClients(ctx, clients)
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags shared by every verb.
	rootCmd.PersistentFlags().String("profile", "", "AWS named profile (takes precedence over access keys)")
	rootCmd.PersistentFlags().String("region", "", "AWS region (overrides config)")
	rootCmd.PersistentFlags().Bool("json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().Bool("verbose", false, "Show progress steps")
	rootCmd.PersistentFlags().Bool("debug", false, "Show AWS SDK call details")

	// Register subcommands
	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newCreateAPICommand())
	rootCmd.AddCommand(newCallAPICommand())
	rootCmd.AddCommand(newInvokeLambdaCommand())
	rootCmd.AddCommand(newListResourcesCommand())
	rootCmd.AddCommand(newDeleteResourceCommand())

	return rootCmd
}

// Execute creates the root command and runs it. Called from main.
func Execute() error {
	return NewRootCommand().Execute()
}
