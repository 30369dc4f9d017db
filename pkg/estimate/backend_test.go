package estimate_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/manifest-analyzer/pkg/estimate"
)

func TestBackend_Names(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "anthropic", estimate.NewAnthropicBackend().Name())
	assert.Equal(t, "ollama", estimate.NewOllamaBackend("http://localhost:11434", "m").Name())
	assert.Equal(t, "openai_compat", estimate.NewOpenAICompatBackend("http://localhost:8000", "m").Name())
}

func TestAnthropicBackend_Generate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		apiKey     string
		handler    http.HandlerFunc
		wantErr    bool
		wantErrMsg string
		wantStatus int
		wantResp   string
		wantUsage  int
	}{
		{
			name:   "successful generation",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
				assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

				var body map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "be terse", body["system"])
				assert.InDelta(t, 512, body["max_tokens"], 0)

				_, _ = w.Write([]byte(`{
					"content": [{"type": "text", "text": "{\"category\":\"Electronics\"}"}],
					"model": "claude-test",
					"usage": {"input_tokens": 10, "output_tokens": 4}
				}`))
			},
			wantResp:  `{"category":"Electronics"}`,
			wantUsage: 14,
		},
		{
			name:       "missing API key",
			handler:    func(http.ResponseWriter, *http.Request) {},
			wantErr:    true,
			wantErrMsg: "ANTHROPIC_API_KEY",
		},
		{
			name:   "rate limited",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error": {"type": "rate_limit_error", "message": "slow down"}}`))
			},
			wantErr:    true,
			wantErrMsg: "rate_limit_error: slow down",
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:   "empty content",
			apiKey: "test-key",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"content": [], "model": "claude-test"}`))
			},
			wantErr:    true,
			wantErrMsg: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			b := estimate.NewAnthropicBackend(
				estimate.WithAnthropicEndpoint(srv.URL),
				estimate.WithAnthropicHTTPClient(srv.Client()),
				estimate.WithAnthropicAPIKey(tt.apiKey),
			)

			resp, err := b.Generate(context.Background(), estimate.GenerateRequest{
				Prompt:    "categorize",
				SystemMsg: "be terse",
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				if tt.wantStatus != 0 {
					var se *estimate.StatusError
					require.True(t, errors.As(err, &se))
					assert.Equal(t, tt.wantStatus, se.StatusCode)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantResp, resp.Content)
			assert.Equal(t, "claude-test", resp.Model)
			assert.Equal(t, tt.wantUsage, resp.Usage.TotalTokens)
		})
	}
}

func TestOllamaBackend_Generate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3", body["model"])
		assert.Equal(t, "json", body["format"])
		assert.Equal(t, false, body["stream"])
		assert.Equal(t, "system text", body["system"])

		_, _ = w.Write([]byte(`{"model":"llama3","response":"{\"brand\":\"Apple\"}","prompt_eval_count":7,"eval_count":3}`))
	}))
	defer srv.Close()

	b := estimate.NewOllamaBackend(srv.URL+"/", "llama3", estimate.WithOllamaHTTPClient(srv.Client()))
	resp, err := b.Generate(context.Background(), estimate.GenerateRequest{
		Prompt:    "brand?",
		SystemMsg: "system text",
		Format:    estimate.FormatJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"brand":"Apple"}`, resp.Content)
	assert.Equal(t, 10, resp.Usage.TotalTokens)
}

func TestOllamaBackend_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "model missing", status: http.StatusNotFound, body: `{"error":"model 'x' not found"}`, wantMsg: "model 'x' not found"},
		{name: "plain text error", status: http.StatusInternalServerError, body: "boom", wantMsg: "boom"},
		{name: "bad json", status: http.StatusOK, body: "not json", wantMsg: "parsing ollama response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			b := estimate.NewOllamaBackend(srv.URL, "x", estimate.WithOllamaHTTPClient(srv.Client()))
			_, err := b.Generate(context.Background(), estimate.GenerateRequest{Prompt: "p"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestOpenAICompatBackend_Generate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if assert.Len(t, body.Messages, 2) {
			assert.Equal(t, "system", body.Messages[0].Role)
			assert.Equal(t, "user", body.Messages[1].Role)
		}
		assert.Equal(t, "json_object", body.ResponseFormat.Type)

		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "{}"}}],
			"model": "qwen",
			"usage": {"prompt_tokens": 5, "completion_tokens": 1, "total_tokens": 6}
		}`))
	}))
	defer srv.Close()

	b := estimate.NewOpenAICompatBackend(srv.URL, "qwen",
		estimate.WithOpenAICompatHTTPClient(srv.Client()),
		estimate.WithOpenAICompatAPIKey("sk-test"),
	)
	resp, err := b.Generate(context.Background(), estimate.GenerateRequest{
		Prompt:    "p",
		SystemMsg: "s",
		Format:    estimate.FormatJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, "{}", resp.Content)
	assert.Equal(t, "qwen", resp.Model)
	assert.Equal(t, 6, resp.Usage.TotalTokens)
}

func TestOpenAICompatBackend_EmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	b := estimate.NewOpenAICompatBackend(srv.URL, "m", estimate.WithOpenAICompatHTTPClient(srv.Client()))
	_, err := b.Generate(context.Background(), estimate.GenerateRequest{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choices")
}
