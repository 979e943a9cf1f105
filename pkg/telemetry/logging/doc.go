// Package logging configures structured logging for relay.
//
// Logs are written through log/slog. The Handler installed by New adds the
// inference id, provider and model carried by the context, plus the trace
// and span ids of an active OpenTelemetry span, to every record.
//
// When redaction is enabled, attributes whose key names a credential
// ("api_key", "authorization", "access_token", ...) are replaced with
// [REDACTED], and string values are scrubbed with regular expressions for
// API keys, bearer tokens, passwords and email addresses. Values implementing
// slog.LogValuer are resolved before redaction, so a providers.Secret never
// reaches the output.
//
//	logger, err := logging.New(logging.ConfigFrom(cfg.Telemetry.Logging, os.Stderr))
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithInferenceID(ctx, uuid.Must(uuid.NewV7()))
//	slog.InfoContext(ctx, "inference started", "provider", "cohere")
package logging
