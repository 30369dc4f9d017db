package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
)

const (
	defaultAnthropicURL       = "https://api.anthropic.com/v1/messages"
	defaultAnthropicModel     = "claude-3-5-haiku-latest"
	defaultAnthropicVersion   = "2023-06-01"
	defaultAnthropicMaxTokens = 512
)

// ErrMissingAPIKey is returned by backends that require a key when none is set.
var ErrMissingAPIKey = errors.New("API key is not set")

// AnthropicBackend implements LLMBackend using the Anthropic Messages API.
type AnthropicBackend struct {
	apiKey     string
	model      string
	endpoint   string
	apiVersion string
	client     *http.Client
}

// AnthropicOption configures the AnthropicBackend.
type AnthropicOption func(*AnthropicBackend)

// WithAnthropicEndpoint overrides the default API endpoint.
func WithAnthropicEndpoint(url string) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.endpoint = url
	}
}

// WithAnthropicModel overrides the default model.
func WithAnthropicModel(model string) AnthropicOption {
	return func(b *AnthropicBackend) {
		if model != "" {
			b.model = model
		}
	}
}

// WithAnthropicAPIKey overrides the API key read from ANTHROPIC_API_KEY.
func WithAnthropicAPIKey(key string) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.apiKey = key
	}
}

// WithAnthropicHTTPClient overrides the default HTTP client.
func WithAnthropicHTTPClient(c *http.Client) AnthropicOption {
	return func(b *AnthropicBackend) {
		b.client = c
	}
}

// NewAnthropicBackend creates a Claude Messages API backend. The API key
// defaults to the ANTHROPIC_API_KEY environment variable.
func NewAnthropicBackend(opts ...AnthropicOption) *AnthropicBackend {
	b := &AnthropicBackend{
		apiKey:     os.Getenv("ANTHROPIC_API_KEY"),
		model:      defaultAnthropicModel,
		endpoint:   defaultAnthropicURL,
		apiVersion: defaultAnthropicVersion,
		client:     &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*AnthropicBackend) Name() string {
	return "anthropic"
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func anthropicErrorMessage(body []byte) string {
	var apiErr struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return ""
	}
	return apiErr.Error.Type + ": " + apiErr.Error.Message
}

// Generate calls the Anthropic Messages API. The Messages API has no JSON
// mode, so FormatJSON is expressed through the system prompt by callers.
func (b *AnthropicBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	if b.apiKey == "" {
		return GenerateResponse{}, fmt.Errorf("ANTHROPIC_API_KEY: %w", ErrMissingAPIKey)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	in := anthropicRequest{
		Model:     b.model,
		MaxTokens: maxTokens,
		System:    req.SystemMsg,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}
	if req.Temperature > 0 {
		in.Temperature = &req.Temperature
	}

	body, err := postJSON(ctx, b.client, b.Name(), b.endpoint, map[string]string{
		"x-api-key":         b.apiKey,
		"anthropic-version": b.apiVersion,
	}, in, anthropicErrorMessage)
	if err != nil {
		return GenerateResponse{}, err
	}

	var out anthropicResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return GenerateResponse{}, fmt.Errorf("parsing anthropic response: %w", err)
	}

	for _, c := range out.Content {
		if c.Type == "text" || c.Type == "" {
			return GenerateResponse{
				Content: c.Text,
				Model:   out.Model,
				Usage: TokenUsage{
					PromptTokens:     out.Usage.InputTokens,
					CompletionTokens: out.Usage.OutputTokens,
					TotalTokens:      out.Usage.InputTokens + out.Usage.OutputTokens,
				},
			}, nil
		}
	}

	return GenerateResponse{}, fmt.Errorf("empty response from anthropic")
}
