// Package main implements a mock Ollama server for local development.
// It answers /api/generate with deterministic estimator JSON computed from
// the built-in rules, so the LLM estimator path can run without a model.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/donaldgifford/manifest-analyzer/pkg/estimate"
	"github.com/donaldgifford/manifest-analyzer/pkg/manifest"
	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Format string `json:"format"`
}

type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

type handlerConfig struct {
	// failEvery makes every Nth request return 500. Zero disables failures.
	failEvery int64
	latency   time.Duration
}

func main() {
	port := flag.Int("port", 11434, "port to listen on")
	failEvery := flag.Int64("fail-every", 0, "fail every Nth generate request with HTTP 500 (0 disables)")
	latency := flag.Duration("latency", 0, "delay added to every generate request")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate", generateHandler(logger, estimate.NewRuleEstimator(), handlerConfig{
		failEvery: *failEvery,
		latency:   *latency,
	}))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock estimator", "addr", addr, "fail_every", *failEvery, "latency", *latency)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: time.Minute,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func generateHandler(logger *slog.Logger, rules *estimate.RuleEstimator, cfg handlerConfig) http.HandlerFunc {
	var count atomic.Int64

	return func(w http.ResponseWriter, r *http.Request) {
		n := count.Add(1)

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		if cfg.latency > 0 {
			select {
			case <-time.After(cfg.latency):
			case <-r.Context().Done():
				return
			}
		}

		if cfg.failEvery > 0 && n%cfg.failEvery == 0 {
			logger.Warn("injected failure", "request", n)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "injected failure"})
			return
		}

		answer, err := answerPrompt(r.Context(), rules, req.Prompt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, generateResponse{
			Model:           req.Model,
			Response:        answer,
			Done:            true,
			PromptEvalCount: len(strings.Fields(req.Prompt)),
			EvalCount:       len(strings.Fields(answer)),
		})
	}
}

// promptFields collects "Key: value" lines from a rendered prompt.
func promptFields(prompt string) map[string]string {
	fields := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(prompt))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ": ")
		if !ok || strings.ContainsAny(key, "{\"") {
			continue
		}
		fields[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return fields
}

func orEmpty(v string) string {
	if v == "unknown" {
		return ""
	}
	return v
}

// answerPrompt recognizes the subtask from the prompt's first line.
func answerPrompt(ctx context.Context, rules *estimate.RuleEstimator, prompt string) (string, error) {
	first, _, _ := strings.Cut(strings.TrimSpace(prompt), "\n")
	f := promptFields(prompt)
	description := f["item"]
	category := domain.Category(f["category"])

	var (
		v   any
		err error
	)
	switch {
	case strings.HasPrefix(first, "Categorize"):
		v, err = rules.Categorize(ctx, description)
	case strings.HasPrefix(first, "Identify the brand"):
		brand := manifest.ExtractBrand(description)
		if brand == manifest.UnknownBrand {
			brand = ""
		}
		v = estimate.BrandModel{Brand: brand}
	case strings.HasPrefix(first, "Estimate"):
		v, err = rules.Valuate(ctx, estimate.ValuationInput{
			Description: description,
			Category:    category,
			Brand:       orEmpty(f["brand"]),
			Model:       orEmpty(f["model"]),
			Condition:   domain.Condition(f["condition"]),
		})
	case strings.HasPrefix(first, "Assess"):
		value, _ := strconv.ParseFloat(strings.TrimPrefix(f["estimated value"], "$"), 64)
		v, err = rules.AssessRisk(ctx, estimate.RiskInput{
			Description:    description,
			Category:       category,
			Brand:          orEmpty(f["brand"]),
			Model:          orEmpty(f["model"]),
			EstimatedValue: value,
		})
	default:
		return "", fmt.Errorf("unrecognized prompt %q", first)
	}
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding answer: %w", err)
	}
	return string(out), nil
}
