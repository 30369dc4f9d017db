package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/donaldgifford/manifest-analyzer/pkg/estimate"
	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

func newMockServer(t *testing.T, cfg handlerConfig) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate", generateHandler(testLogger(), estimate.NewRuleEstimator(), cfg))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate_DrivesLLMEstimator(t *testing.T) {
	srv := newMockServer(t, handlerConfig{})
	llm := estimate.NewLLMEstimator(estimate.NewOllamaBackend(srv.URL, "mock"))
	rules := estimate.NewRuleEstimator()
	ctx := context.Background()
	desc := "Apple iPhone 14 Pro"

	cat, err := llm.Categorize(ctx, desc)
	if err != nil {
		t.Fatalf("categorize: %v", err)
	}
	if cat.Category != domain.CategoryElectronics {
		t.Errorf("category=%q, want %q", cat.Category, domain.CategoryElectronics)
	}

	bm, err := llm.ExtractBrandModel(ctx, desc, cat.Category)
	if err != nil {
		t.Fatalf("brand model: %v", err)
	}
	if bm.Brand != "Apple" {
		t.Errorf("brand=%q, want Apple", bm.Brand)
	}

	in := estimate.ValuationInput{
		Description: desc,
		Category:    cat.Category,
		Brand:       bm.Brand,
		Condition:   domain.ConditionNew,
	}
	got, err := llm.Valuate(ctx, in)
	if err != nil {
		t.Fatalf("valuate: %v", err)
	}
	want, _ := rules.Valuate(ctx, in)
	if got.EstimatedValue != want.EstimatedValue {
		t.Errorf("estimated_value=%v, want %v", got.EstimatedValue, want.EstimatedValue)
	}

	risk, err := llm.AssessRisk(ctx, estimate.RiskInput{
		Description:    desc,
		Category:       cat.Category,
		Brand:          bm.Brand,
		EstimatedValue: got.EstimatedValue,
	})
	if err != nil {
		t.Fatalf("risk: %v", err)
	}
	if want := estimate.HashRiskScore(desc, cat.Category); risk.RiskScore != want {
		t.Errorf("risk_score=%d, want %d", risk.RiskScore, want)
	}
}

func TestGenerate_FailEvery(t *testing.T) {
	srv := newMockServer(t, handlerConfig{failEvery: 2})
	backend := estimate.NewOllamaBackend(srv.URL, "mock")
	prompt, err := estimate.RenderCategorizePrompt("Garden Hose")
	if err != nil {
		t.Fatalf("rendering prompt: %v", err)
	}

	var failures int
	for range 4 {
		if _, err := backend.Generate(context.Background(), estimate.GenerateRequest{Prompt: prompt}); err != nil {
			failures++
		}
	}
	if failures != 2 {
		t.Errorf("failures=%d, want 2", failures)
	}
}

func TestGenerate_BadRequests(t *testing.T) {
	srv := newMockServer(t, handlerConfig{})

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{"},
		{name: "unknown prompt", body: `{"model":"mock","prompt":"Write a poem"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/generate", "application/json", bytes.NewBufferString(tt.body))
			if err != nil {
				t.Fatalf("post: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status=%d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected non-empty error")
			}
		})
	}
}

func TestPromptFields(t *testing.T) {
	prompt, err := estimate.RenderRiskPrompt(estimate.RiskInput{
		Description:    "DeWalt Drill",
		Category:       domain.CategoryHomeGarden,
		EstimatedValue: 42.5,
	})
	if err != nil {
		t.Fatalf("rendering prompt: %v", err)
	}

	f := promptFields(prompt)
	if f["item"] != "DeWalt Drill" {
		t.Errorf("item=%q", f["item"])
	}
	if f["category"] != string(domain.CategoryHomeGarden) {
		t.Errorf("category=%q", f["category"])
	}
	if f["estimated value"] != "$42.50" {
		t.Errorf("estimated value=%q", f["estimated value"])
	}
	if orEmpty(f["brand"]) != "" {
		t.Errorf("brand=%q, want empty", f["brand"])
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
