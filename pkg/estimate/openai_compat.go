package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// OpenAICompatBackend implements LLMBackend against any server exposing the
// OpenAI chat completions API (vLLM, LM Studio, llama.cpp server).
type OpenAICompatBackend struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

// OpenAICompatOption configures the OpenAICompatBackend.
type OpenAICompatOption func(*OpenAICompatBackend)

// WithOpenAICompatHTTPClient overrides the default HTTP client.
func WithOpenAICompatHTTPClient(c *http.Client) OpenAICompatOption {
	return func(b *OpenAICompatBackend) {
		b.client = c
	}
}

// WithOpenAICompatAPIKey overrides the key read from OPENAI_API_KEY.
func WithOpenAICompatAPIKey(key string) OpenAICompatOption {
	return func(b *OpenAICompatBackend) {
		if key != "" {
			b.apiKey = key
		}
	}
}

// NewOpenAICompatBackend creates an OpenAI-compatible backend.
func NewOpenAICompatBackend(
	endpoint, model string,
	opts ...OpenAICompatOption,
) *OpenAICompatBackend {
	b := &OpenAICompatBackend{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		apiKey:   os.Getenv("OPENAI_API_KEY"),
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the backend name.
func (*OpenAICompatBackend) Name() string {
	return "openai_compat"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func openAIErrorMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error.Message
}

// Generate calls the /v1/chat/completions endpoint.
func (b *OpenAICompatBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	messages := make([]chatMessage, 0, 2)
	if req.SystemMsg != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemMsg})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	in := chatRequest{
		Model:     b.model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature > 0 {
		in.Temperature = &req.Temperature
	}
	if req.Format == FormatJSON {
		in.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	var headers map[string]string
	if b.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + b.apiKey}
	}

	body, err := postJSON(ctx, b.client, b.Name(), b.endpoint+"/v1/chat/completions", headers, in, openAIErrorMessage)
	if err != nil {
		return GenerateResponse{}, err
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return GenerateResponse{}, fmt.Errorf("parsing openai_compat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return GenerateResponse{}, fmt.Errorf("empty choices from openai_compat")
	}

	return GenerateResponse{
		Content: out.Choices[0].Message.Content,
		Model:   out.Model,
		Usage: TokenUsage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		},
	}, nil
}
