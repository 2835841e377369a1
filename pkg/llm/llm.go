// Package llm provides chat-completion clients for the AI providers used by
// discovery, enrichment, and outreach. Two backends implement the same
// contract: an OpenAI-compatible HTTP client (Groq) and the Anthropic SDK.
package llm

import "context"

// Request is a single chat-completion request. The response is free text;
// callers must tolerate format drift.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Client submits a structured chat request and returns the completion text.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
