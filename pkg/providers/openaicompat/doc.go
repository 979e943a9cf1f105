// Package openaicompat holds the Chat Completions wire types and the
// canonical-to-wire mapping shared by adapters whose vendors speak the
// OpenAI message format (OpenAI, OpenAI-compatible servers, Cohere v2).
package openaicompat
