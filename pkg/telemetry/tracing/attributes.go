package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/relay/pkg/providers"
)

// Attribute keys set on provider spans. Custom keys use the "relay.*"
// namespace; token counts follow the gen_ai semantic conventions.
const (
	AttrProviderName = attribute.Key("relay.provider.name")
	AttrProviderType = attribute.Key("relay.provider.type")
	AttrInferenceID  = attribute.Key("relay.inference_id")
	AttrMessages     = attribute.Key("relay.request.messages")
	AttrTools        = attribute.Key("relay.request.tools")
	AttrFinishReason = attribute.Key("relay.response.finish_reason")
	AttrErrorKind    = attribute.Key("relay.error.kind")

	AttrInputTokens  = attribute.Key("gen_ai.usage.input_tokens")
	AttrOutputTokens = attribute.Key("gen_ai.usage.output_tokens")

	AttrHTTPMethod     = attribute.Key("http.request.method")
	AttrHTTPStatusCode = attribute.Key("http.response.status_code")
	AttrServerAddress  = attribute.Key("server.address")
)

// requestAttributes describes the request without its content.
func requestAttributes(p providers.Provider, req *providers.InferenceRequest) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		AttrProviderName.String(p.Name()),
		AttrProviderType.String(p.Type()),
	}
	if req == nil {
		return attrs
	}

	attrs = append(attrs,
		AttrInferenceID.String(req.InferenceID.String()),
		AttrMessages.Int(len(req.Messages)),
	)
	if req.ToolConfig != nil {
		attrs = append(attrs, AttrTools.Int(len(req.ToolConfig.Tools)))
	}
	return attrs
}

// setResponseAttributes records usage and finish reason on span.
func setResponseAttributes(span trace.Span, resp *providers.InferenceResponse) {
	span.SetAttributes(
		AttrInputTokens.Int(resp.Usage.InputTokens),
		AttrOutputTokens.Int(resp.Usage.OutputTokens),
		AttrFinishReason.String(string(resp.FinishReason)),
	)
}

// setErrorAttributes records the error kind and vendor status on span.
func setErrorAttributes(span trace.Span, err error) {
	span.SetAttributes(AttrErrorKind.String(string(providers.Kind(err))))
	if code := providers.StatusCode(err); code != 0 {
		span.SetAttributes(AttrHTTPStatusCode.Int(code))
	}
}
