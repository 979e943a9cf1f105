package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	inferenceIDKey contextKey = "inference_id"
	providerKey    contextKey = "provider"
	modelKey       contextKey = "model"
)

// WithInferenceID adds the inference id to the context.
func WithInferenceID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, inferenceIDKey, id)
}

// GetInferenceID retrieves the inference id from the context.
func GetInferenceID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(inferenceIDKey).(uuid.UUID)
	return id, ok
}

// WithProvider adds a provider name to the context.
func WithProvider(ctx context.Context, provider string) context.Context {
	return context.WithValue(ctx, providerKey, provider)
}

// GetProvider retrieves the provider name from the context.
func GetProvider(ctx context.Context) string {
	provider, _ := ctx.Value(providerKey).(string)
	return provider
}

// WithModel adds a model name to the context.
func WithModel(ctx context.Context, model string) context.Context {
	return context.WithValue(ctx, modelKey, model)
}

// GetModel retrieves the model name from the context.
func GetModel(ctx context.Context) string {
	model, _ := ctx.Value(modelKey).(string)
	return model
}

// contextAttrs extracts the context fields as log attributes.
func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr

	if id, ok := GetInferenceID(ctx); ok {
		attrs = append(attrs, slog.String("inference_id", id.String()))
	}
	if provider := GetProvider(ctx); provider != "" {
		attrs = append(attrs, slog.String("provider", provider))
	}
	if model := GetModel(ctx); model != "" {
		attrs = append(attrs, slog.String("model", model))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	return attrs
}
