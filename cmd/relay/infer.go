package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mercator-hq/relay/pkg/cli"
	"mercator-hq/relay/pkg/providers"
	"mercator-hq/relay/pkg/telemetry/logging"
)

type inferOptions struct {
	*rootOptions
	provider     string
	providers    []string
	message      string
	system       string
	temperature  float64
	maxTokens    int
	credentials  []string
	json         bool
	serveMetrics bool
}

// inferResult is the outcome of one provider call.
type inferResult struct {
	Provider string                       `json:"provider"`
	Type     string                       `json:"type"`
	Response *providers.InferenceResponse `json:"response,omitempty"`
	Error    *inferError                  `json:"error,omitempty"`
}

// inferError is the printable form of a typed provider error.
type inferError struct {
	Kind         providers.ErrorKind `json:"kind"`
	Message      string              `json:"message"`
	ProviderType string              `json:"provider_type,omitempty"`
	StatusCode   int                 `json:"status_code,omitempty"`
	RawResponse  string              `json:"raw_response,omitempty"`
}

func newInferError(err error) *inferError {
	return &inferError{
		Kind:         providers.Kind(err),
		Message:      err.Error(),
		ProviderType: providers.ProviderType(err),
		StatusCode:   providers.StatusCode(err),
		RawResponse:  providers.RawResponse(err),
	}
}

type inferOutput struct {
	Results []inferResult `json:"results"`
}

// WriteText renders each result in request order.
func (o inferOutput) WriteText(w io.Writer) error {
	for i, r := range o.Results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s (%s) ==\n", r.Provider, r.Type)

		if r.Error != nil {
			fmt.Fprintf(w, "error: %s\n", r.Error.Message)
			fmt.Fprintf(w, "kind: %s\n", r.Error.Kind)
			if r.Error.ProviderType != "" {
				fmt.Fprintf(w, "provider_type: %s\n", r.Error.ProviderType)
			}
			if r.Error.StatusCode != 0 {
				fmt.Fprintf(w, "status: %d\n", r.Error.StatusCode)
			}
			if r.Error.RawResponse != "" {
				fmt.Fprintf(w, "raw_response: %s\n", r.Error.RawResponse)
			}
			continue
		}

		resp := r.Response
		if text := resp.Text(); text != "" {
			fmt.Fprintln(w, text)
		}
		for _, call := range resp.ToolCalls() {
			fmt.Fprintf(w, "tool_call: %s %s (id %s)\n", call.Name, call.Arguments, call.ID)
		}
		fmt.Fprintf(w, "finish_reason: %s\n", resp.FinishReason)
		fmt.Fprintf(w, "usage: input=%d output=%d total=%d\n",
			resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.Usage.TotalTokens())
		fmt.Fprintf(w, "latency: %s\n", resp.Latency.Round(time.Millisecond))
	}
	return nil
}

func newInferCmd(root *rootOptions) *cobra.Command {
	opts := &inferOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "infer",
		Short: "Send one inference request to one or more providers",
		Long: `Build a canonical inference request from the flags, send it through the
configured provider adapters and print the normalized response or the typed
error (kind, provider type, status and raw vendor response).

With --providers the same request is sent to every listed provider
concurrently over one shared HTTP client.

Dynamic credentials (api_key_location: dynamic::name) are supplied with
--credential name=value.

Examples:
  relay infer --provider cohere --message "Hello"
  relay infer -p anthropic --system "Be terse." --message "Hi" --max-tokens 64
  relay infer --providers cohere,openai --message "Hi" --json
  relay infer -p openai --credential openai_key=$OPENAI_API_KEY --message "Hi"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.provider, "provider", "p", "", "provider to call")
	cmd.Flags().StringSliceVar(&opts.providers, "providers", nil, "comma-separated providers to call concurrently")
	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "user message (required)")
	cmd.Flags().StringVar(&opts.system, "system", "", "system prompt")
	cmd.Flags().Float64Var(&opts.temperature, "temperature", 0, "sampling temperature")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "maximum tokens to generate")
	cmd.Flags().StringArrayVar(&opts.credentials, "credential", nil, "dynamic credential as name=value (repeatable)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.serveMetrics, "serve-metrics", false, "keep serving the metrics endpoint after the call until interrupted")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func runInfer(cmd *cobra.Command, opts *inferOptions) error {
	creds, err := parseCredentials(opts.credentials)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, opts.rootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	names, err := selectProviders(opts, a.registry.Names())
	if err != nil {
		return err
	}

	req := providers.NewInferenceRequest(providers.NewTextMessage(providers.RoleUser, opts.message))
	req.System = opts.system
	if cmd.Flags().Changed("temperature") {
		req.Temperature = providers.Ptr(opts.temperature)
	}
	if cmd.Flags().Changed("max-tokens") {
		req.MaxTokens = providers.Ptr(opts.maxTokens)
	}

	var server *http.Server
	if opts.serveMetrics {
		server, err = a.startMetricsServer()
		if err != nil {
			return err
		}
	}

	output := inferOutput{Results: a.inferAll(ctx, names, req, creds)}

	format := cli.FormatText
	if opts.json {
		format = cli.FormatJSON
	}
	if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), output); err != nil {
		return err
	}

	if server != nil {
		a.logger.Info("serving metrics until interrupted", "address", server.Addr, "path", a.cfg.Telemetry.Metrics.Path)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return cli.NewCommandError("infer", fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	var failed []string
	for _, r := range output.Results {
		if r.Error != nil {
			failed = append(failed, r.Provider)
		}
	}
	if len(failed) > 0 {
		return cli.NewCommandError("infer", fmt.Errorf("%d of %d provider call(s) failed: %s",
			len(failed), len(output.Results), strings.Join(failed, ", ")))
	}
	return nil
}

// inferAll calls every named provider concurrently. When fanning out, each
// call gets its own inference id. Failures are reported per result and do not cancel
// the other calls.
func (a *app) inferAll(ctx context.Context, names []string, req *providers.InferenceRequest, creds providers.DynamicCredentials) []inferResult {
	results := make([]inferResult, len(names))

	var g errgroup.Group
	for i, name := range names {
		call := *req
		if len(names) > 1 {
			call.InferenceID = uuid.Must(uuid.NewV7())
		}
		g.Go(func() error {
			results[i] = a.inferOne(ctx, name, &call, creds)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (a *app) inferOne(ctx context.Context, name string, req *providers.InferenceRequest, creds providers.DynamicCredentials) inferResult {
	provider, err := a.registry.Get(name)
	if err != nil {
		return inferResult{Provider: name, Error: newInferError(err)}
	}

	ctx = logging.WithInferenceID(ctx, req.InferenceID)
	ctx = logging.WithProvider(ctx, name)

	result := inferResult{Provider: name, Type: provider.Type()}

	resp, err := provider.Infer(ctx, req, a.client, creds)
	if err != nil {
		slog.WarnContext(ctx, "inference failed", "kind", providers.Kind(err), "error", err)
		result.Error = newInferError(err)
		return result
	}

	slog.InfoContext(ctx, "inference succeeded",
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"latency", resp.Latency,
	)
	result.Response = resp
	return result
}

// selectProviders merges --provider and --providers. With neither flag, a
// configuration holding exactly one provider selects it.
func selectProviders(opts *inferOptions, configured []string) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	for _, name := range append([]string{opts.provider}, opts.providers...) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	if len(names) > 0 {
		return names, nil
	}
	if len(configured) == 1 {
		return configured, nil
	}
	return nil, errors.New("no provider selected: use --provider or --providers (configured: " + strings.Join(configured, ", ") + ")")
}

// parseCredentials builds the per-call credential table from name=value
// pairs. Errors never include the value.
func parseCredentials(pairs []string) (providers.DynamicCredentials, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	creds := make(providers.DynamicCredentials, len(pairs))
	for i, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("invalid --credential #%d: expected name=value", i+1)
		}
		creds[name] = providers.NewSecret(value)
	}
	return creds, nil
}
