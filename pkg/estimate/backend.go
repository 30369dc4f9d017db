// Package estimate provides the item estimators used during manifest
// enrichment: an LLM-backed primary estimator, a deterministic rule-based
// estimator, and a wrapper that falls back from one to the other.
package estimate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FormatJSON is the format string for requesting JSON mode from LLM backends.
const FormatJSON = "json"

const defaultHTTPTimeout = 60 * time.Second

// GenerateRequest defines the input for an LLM generation call.
type GenerateRequest struct {
	Prompt      string
	SystemMsg   string
	Format      string // FormatJSON for JSON mode
	Temperature float64
	MaxTokens   int
}

// TokenUsage tracks LLM token consumption.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Content string
	Model   string
	Usage   TokenUsage
}

// LLMBackend defines the interface for LLM text generation.
type LLMBackend interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	Name() string
}

// StatusError is returned by the HTTP backends when the provider answers
// with a non-200 status.
type StatusError struct {
	Backend    string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Backend, e.StatusCode, e.Message)
}

// postJSON marshals in, POSTs it to url and returns the raw response body.
// Non-200 responses are returned as *StatusError; errMsg extracts a
// provider-specific message from the error body when it can.
func postJSON(
	ctx context.Context,
	client *http.Client,
	backend, url string,
	headers map[string]string,
	in any,
	errMsg func([]byte) string,
) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", backend, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := ""
		if errMsg != nil {
			msg = errMsg(respBody)
		}
		if msg == "" {
			msg = string(respBody)
		}
		return nil, &StatusError{Backend: backend, StatusCode: resp.StatusCode, Message: msg}
	}

	return respBody, nil
}
