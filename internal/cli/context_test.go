package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
)

func newFlaggedCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("profile", "", "")
	cmd.Flags().String("region", "", "")
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().Bool("debug", false, "")
	return cmd
}

func TestNewCLIContext(t *testing.T) {
	cmd := newFlaggedCommand()
	if err := cmd.Flags().Set("profile", "dev"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("region", "us-east-1"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("json", "true"); err != nil {
		t.Fatal(err)
	}

	cliCtx := NewCLIContext(cmd)
	if cliCtx.Profile != "dev" {
		t.Errorf("Profile = %q, want dev", cliCtx.Profile)
	}
	if cliCtx.Region != "us-east-1" {
		t.Errorf("Region = %q, want us-east-1", cliCtx.Region)
	}
	if !cliCtx.JSON {
		t.Error("JSON = false, want true")
	}
	if cliCtx.Verbose || cliCtx.Debug {
		t.Error("unset bool flags should be false")
	}
}

func TestContextRoundTrip(t *testing.T) {
	want := &CLIContext{Profile: "dev", JSON: true}
	ctx := WithContext(context.Background(), want)

	if got := FromContext(ctx); got != want {
		t.Errorf("FromContext() = %v, want %v", got, want)
	}
}

func TestFromContextMissing(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext() = %v, want nil", got)
	}
}

func TestFromCommand(t *testing.T) {
	want := &CLIContext{Region: "eu-west-1"}
	cmd := &cobra.Command{Use: "test"}
	cmd.SetContext(WithContext(context.Background(), want))

	if got := FromCommand(cmd); got != want {
		t.Errorf("FromCommand() = %v, want %v", got, want)
	}
}

func TestFromCommandNilContext(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	if got := FromCommand(cmd); got != nil {
		t.Errorf("FromCommand() = %v, want nil", got)
	}
}
