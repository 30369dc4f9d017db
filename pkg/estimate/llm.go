package estimate

import (
	"context"
	"fmt"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// LLMEstimator implements Estimator by prompting an LLM backend for JSON.
type LLMEstimator struct {
	backend     LLMBackend
	temperature float64
	maxTokens   int
}

// LLMEstimatorOption configures the LLMEstimator.
type LLMEstimatorOption func(*LLMEstimator)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) LLMEstimatorOption {
	return func(e *LLMEstimator) {
		e.temperature = t
	}
}

// WithMaxTokens sets the max tokens for LLM responses.
func WithMaxTokens(n int) LLMEstimatorOption {
	return func(e *LLMEstimator) {
		e.maxTokens = n
	}
}

// NewLLMEstimator creates an LLMEstimator on top of backend.
func NewLLMEstimator(backend LLMBackend, opts ...LLMEstimatorOption) *LLMEstimator {
	e := &LLMEstimator{
		backend:     backend,
		temperature: 0.1,
		maxTokens:   400,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name identifies the estimator and its backend, e.g. "llm/ollama".
func (e *LLMEstimator) Name() string {
	return "llm/" + e.backend.Name()
}

func (e *LLMEstimator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := e.backend.Generate(ctx, GenerateRequest{
		Prompt:      prompt,
		SystemMsg:   SystemPrompt,
		Format:      FormatJSON,
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", e.backend.Name(), err)
	}
	return resp.Content, nil
}

// Categorize asks the model for a category from the closed list.
func (e *LLMEstimator) Categorize(ctx context.Context, description string) (Categorization, error) {
	prompt, err := RenderCategorizePrompt(description)
	if err != nil {
		return Categorization{}, err
	}
	content, err := e.generate(ctx, prompt)
	if err != nil {
		return Categorization{}, err
	}
	return ParseCategorization(content)
}

// ExtractBrandModel asks the model for the item's brand and model.
func (e *LLMEstimator) ExtractBrandModel(
	ctx context.Context,
	description string,
	category domain.Category,
) (BrandModel, error) {
	prompt, err := RenderBrandModelPrompt(description, category)
	if err != nil {
		return BrandModel{}, err
	}
	content, err := e.generate(ctx, prompt)
	if err != nil {
		return BrandModel{}, err
	}
	return ParseBrandModel(content)
}

// Valuate asks the model for a per-unit resale valuation. Successful
// valuations carry full confidence.
func (e *LLMEstimator) Valuate(ctx context.Context, in ValuationInput) (Valuation, error) {
	prompt, err := RenderValuatePrompt(in)
	if err != nil {
		return Valuation{}, err
	}
	content, err := e.generate(ctx, prompt)
	if err != nil {
		return Valuation{}, err
	}
	v, err := ParseValuation(content)
	if err != nil {
		return Valuation{}, err
	}
	v.Confidence = 1.0
	return v, nil
}

// AssessRisk asks the model for risk and authenticity scores.
func (e *LLMEstimator) AssessRisk(ctx context.Context, in RiskInput) (RiskAssessment, error) {
	prompt, err := RenderRiskPrompt(in)
	if err != nil {
		return RiskAssessment{}, err
	}
	content, err := e.generate(ctx, prompt)
	if err != nil {
		return RiskAssessment{}, err
	}
	return ParseRiskAssessment(content)
}
