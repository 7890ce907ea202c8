// Package mock provides a test double for the llm.Backend interface.
//
// Use Backend in unit tests to verify that the router and Stage-C adjudicator
// send the expected CompletionRequests and to feed controlled vote responses
// without a live LLM endpoint.
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/semanticchunker/pkg/llm"
)

// Call records a single invocation of Generate.
type Call struct {
	Ctx context.Context
	Req llm.CompletionRequest
}

// Backend is a mock implementation of llm.Backend.
//
// Responses queues up canned responses consumed in order by successive
// Generate calls; once exhausted, the last entry repeats. This lets a test
// script a fixed vote sequence (e.g. []string{"YES", "NO", "YES"}) for
// Stage-C majority-vote tests.
type Backend struct {
	mu sync.Mutex

	// Responses is the queue of canned responses. When empty, Response /
	// Err are used for every call.
	Responses []*llm.CompletionResponse

	// Response is returned when Responses is empty and Err is nil.
	Response *llm.CompletionResponse

	// Err, if non-nil, is returned as the error from Generate instead of a
	// response.
	Err error

	// Calls records every invocation of Generate in order.
	Calls []Call

	next int
}

// Compile-time assertion that Backend satisfies llm.Backend.
var _ llm.Backend = (*Backend)(nil)

// Generate records the call and returns the next canned response or Err.
func (b *Backend) Generate(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, Call{Ctx: ctx, Req: req})

	if b.Err != nil {
		return nil, b.Err
	}
	if len(b.Responses) == 0 {
		return b.Response, nil
	}
	idx := b.next
	if idx >= len(b.Responses) {
		idx = len(b.Responses) - 1
	} else {
		b.next++
	}
	return b.Responses[idx], nil
}

// Reset clears all recorded calls and rewinds the response queue.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = nil
	b.next = 0
}
