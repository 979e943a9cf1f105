/*
Package cli provides helpers shared by the relay command: typed command
errors with exit codes, text and JSON output formatters, and a signal-aware
context.

Output Formatting:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Results that implement Texter control their own text rendering.

Signal Handling:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
