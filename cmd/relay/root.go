package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/relay/pkg/cli"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	cfgFile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Relay - provider adapters for LLM inference",
		Long: `Relay translates one canonical inference request into the wire format of a
vendor HTTP API (Cohere, OpenAI, Anthropic or any OpenAI-compatible server),
sends it, and normalizes the reply or failure.

Credentials are configured per provider as env::VAR, path::/file,
secret::name, dynamic::name or none, and are never printed.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "relay.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output (debug logging)")

	cmd.AddCommand(
		newValidateCmd(opts),
		newInferCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command and exits with the command's exit code.
func Execute() {
	ctx, stop := cli.SignalContext(context.Background())
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.ExitCode(err))
}
