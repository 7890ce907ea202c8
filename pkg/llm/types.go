package llm

// Message represents a single message in an LLM adjudication prompt.
type Message struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the text content of the message.
	Content string
}

// Usage holds token accounting information returned by the LLM backend, when
// the backend reports it. Zero values mean the backend did not report usage.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionRequest carries everything a backend needs to produce one
// adjudication response. Callers should treat a zero-value request as
// invalid: at minimum Messages must be non-empty.
type CompletionRequest struct {
	// Messages is the ordered conversation passed to the model. For Stage-C
	// adjudication this is a single-turn prompt built by the detector.
	Messages []Message

	// Temperature controls output randomness. Stage-C issues independent
	// votes at Temperature > 0 so repeated calls are not degenerate.
	Temperature float64

	// MaxTokens caps the number of completion tokens generated. A strict
	// YES/NO adjudication needs very few; zero means "use the backend
	// default".
	MaxTokens int
}

// CompletionResponse is the full (non-streaming) result of a completion call.
type CompletionResponse struct {
	// Content is the model's full text reply.
	Content string

	// Usage contains token accounting for this request/response pair, when
	// reported by the backend.
	Usage Usage
}
