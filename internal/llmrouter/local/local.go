// Package local implements llm.Backend against a locally hosted
// OpenAI-compatible chat completion endpoint (/v1/chat/completions) — e.g.
// a quantized model served by llama.cpp's server or Ollama's
// OpenAI-compatible API.
//
// Only standard library packages are used: no ecosystem client targets a
// generic local chat server the way github.com/openai/openai-go targets the
// hosted OpenAI API, so this client is a bespoke net/http+encoding/json
// implementation, in the same spirit as a thin REST client hand-rolled
// against an internal endpoint with no published SDK.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrWong99/semanticchunker/pkg/llm"
)

// DefaultBaseURL is the default base URL for a locally running server.
const DefaultBaseURL = "http://localhost:8080"

var _ llm.Backend = (*Backend)(nil)

// Backend implements llm.Backend using a local /v1/chat/completions style
// HTTP endpoint.
type Backend struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// New constructs a Backend targeting baseURL (default DefaultBaseURL) using
// model as the served model name.
func New(baseURL, model string, timeout time.Duration) (*Backend, error) {
	if model == "" {
		return nil, fmt.Errorf("local llm: model must not be empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &Backend{baseURL: baseURL, model: model, httpClient: client}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

// Generate implements llm.Backend.
//
// It performs a single HTTP call with no internal retries — classification
// of the failure into a retriable/non-retriable Kind and any retry policy
// is internal/llmrouter's responsibility.
func (b *Backend) Generate(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	messages := make([]chatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = chatMessage{Role: m.Role, Content: m.Content}
	}

	body, err := json.Marshal(chatRequest{
		Model:       b.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("local llm: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("local llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, &statusError{cause: fmt.Errorf("local llm: http: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{statusCode: resp.StatusCode, cause: fmt.Errorf("local llm: unexpected status %d", resp.StatusCode)}
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &statusError{malformed: true, cause: fmt.Errorf("local llm: decode response: %w", err)}
	}
	if len(result.Choices) == 0 {
		return nil, &statusError{malformed: true, cause: fmt.Errorf("local llm: empty choices in response")}
	}

	return &llm.CompletionResponse{
		Content: result.Choices[0].Message.Content,
		Usage: llm.Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
	}, nil
}

// statusError carries enough detail for internal/llmrouter to classify the
// failure into a Kind without this package importing llmrouter (which
// imports this package).
type statusError struct {
	statusCode int
	malformed  bool
	cause      error
}

func (e *statusError) Error() string { return e.cause.Error() }
func (e *statusError) Unwrap() error { return e.cause }

// StatusCode returns the HTTP status code of the failed call, or 0 when the
// request never reached the server.
func (e *statusError) StatusCode() int { return e.statusCode }

// Malformed reports whether the failure was a 2xx response with an
// undecodable body.
func (e *statusError) Malformed() bool { return e.malformed }
