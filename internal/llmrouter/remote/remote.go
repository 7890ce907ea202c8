// Package remote implements llm.Backend against a hosted OpenAI-compatible
// chat completion API, using the openai-go SDK.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/MrWong99/semanticchunker/pkg/llm"
)

var _ llm.Backend = (*Backend)(nil)

// Backend implements llm.Backend using the OpenAI chat completions API.
type Backend struct {
	client oai.Client
	model  string
}

// config holds optional configuration for Backend.
type config struct {
	baseURL      string
	organization string
	timeout      time.Duration
}

// Option is a functional option for Backend.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL, e.g. to target an
// OpenAI-compatible gateway.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithOrganization sets the OpenAI organization ID on all requests.
func WithOrganization(org string) Option {
	return func(c *config) { c.organization = org }
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// New constructs a Backend authenticated with apiKey, targeting model.
func New(apiKey, model string, opts ...Option) (*Backend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("remote llm: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("remote llm: model must not be empty")
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.organization != "" {
		reqOpts = append(reqOpts, option.WithOrganization(cfg.organization))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: cfg.timeout}))
	}

	return &Backend{client: oai.NewClient(reqOpts...), model: model}, nil
}

// Generate implements llm.Backend. It issues a single, non-streaming
// completion call — Stage-C adjudication needs only the final text, not
// incremental chunks.
func (b *Backend) Generate(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	var messages []oai.ChatCompletionMessageParamUnion
	for _, m := range req.Messages {
		msg, err := convertMessage(m)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	params := oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(b.model),
		Messages: messages,
	}
	if req.Temperature != 0 {
		params.Temperature = param.NewOpt(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(req.MaxTokens))
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &statusError{malformed: true, cause: fmt.Errorf("remote llm: empty choices in response")}
	}

	choice := resp.Choices[0]
	return &llm.CompletionResponse{
		Content: choice.Message.Content,
		Usage: llm.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

func convertMessage(m llm.Message) (oai.ChatCompletionMessageParamUnion, error) {
	switch m.Role {
	case "system":
		return oai.SystemMessage(m.Content), nil
	case "user":
		return oai.UserMessage(m.Content), nil
	case "assistant":
		return oai.AssistantMessage(m.Content), nil
	default:
		return oai.ChatCompletionMessageParamUnion{}, fmt.Errorf("remote llm: unknown message role %q", m.Role)
	}
}

// statusError carries enough detail for internal/llmrouter to classify the
// failure without importing the openai-go error type directly.
type statusError struct {
	statusCode int
	malformed  bool
	cause      error
}

func (e *statusError) Error() string   { return e.cause.Error() }
func (e *statusError) Unwrap() error   { return e.cause }
func (e *statusError) StatusCode() int { return e.statusCode }
func (e *statusError) Malformed() bool { return e.malformed }

// classifyError converts an openai-go SDK error into a statusError carrying
// the HTTP status code, when available.
func classifyError(err error) error {
	var apiErr *oai.Error
	if errors.As(err, &apiErr) {
		return &statusError{statusCode: apiErr.StatusCode, cause: err}
	}
	return &statusError{cause: err}
}
