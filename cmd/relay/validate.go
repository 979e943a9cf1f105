package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mercator-hq/relay/pkg/cli"
)

type validateOptions struct {
	*rootOptions
	json bool
}

// providerSummary describes one configured provider without its secret.
type providerSummary struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Model      string `json:"model"`
	BaseURL    string `json:"base_url,omitempty"`
	Location   string `json:"api_key_location"`
	Credential string `json:"credential"`
}

type validateResult struct {
	Config    string            `json:"config"`
	Providers []providerSummary `json:"providers"`
}

// WriteText renders the result as a table.
func (r validateResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "✓ Configuration valid: %s\n\n", r.Config)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tMODEL\tCREDENTIAL\tLOCATION")
	for _, p := range r.Providers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Type, p.Model, p.Credential, p.Location)
	}
	return tw.Flush()
}

func newValidateCmd(root *rootOptions) *cobra.Command {
	opts := &validateOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and list providers",
		Long: `Load and validate the configuration file, resolve every credential location
and construct each provider adapter.

Providers whose credential cannot be resolved are listed with the "missing"
credential kind. Secret values are never printed.

Examples:
  relay validate --config relay.yaml
  relay validate --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *validateOptions) error {
	a, err := newApp(cmd.Context(), opts.rootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	result := validateResult{Config: opts.cfgFile}
	for _, pc := range a.configs {
		provider, err := a.registry.Get(pc.Name)
		if err != nil {
			return cli.NewCommandError("validate", err)
		}
		result.Providers = append(result.Providers, providerSummary{
			Name:       pc.Name,
			Type:       provider.Type(),
			Model:      pc.Model,
			BaseURL:    pc.BaseURL,
			Location:   a.cfg.Providers[pc.Name].APIKeyLocation,
			Credential: pc.Credential.String(),
		})
	}

	format := cli.FormatText
	if opts.json {
		format = cli.FormatJSON
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result)
}
