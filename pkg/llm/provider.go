// Package llm defines the Backend interface shared by the local and remote
// LLM clients, and the request/response shapes the
// Stage-C adjudicator and provider router exchange with them.
//
// Implementations must be safe for concurrent use — the router dispatches
// Stage-C votes for independent adjacencies concurrently, bounded by its
// semaphore.
package llm

import "context"

// Backend is the abstraction over a single LLM endpoint: either the locally
// hosted quantized server (C4) or a remote OpenAI-compatible API (C5).
//
// Generate is a plain "generate(prompt, params) → text" call.
// Implementations do not retry internally — timeout, 5xx, and 4xx handling
// is the caller's (internal/llmrouter's) responsibility, so that
// retry/backoff policy is defined once rather than duplicated per backend.
type Backend interface {
	Generate(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
