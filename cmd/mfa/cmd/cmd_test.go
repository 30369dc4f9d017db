package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

// fakeServer answers the manifest endpoints with canned bodies.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	analysis := domain.ManifestAnalysis{
		ManifestID: "m-1",
		FileName:   "lot.csv",
		TotalItems: 1,
		ValidItems: 1,
		ExecutiveSummary: domain.ExecutiveSummary{
			RecommendedAction: domain.ActionPass,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/manifests", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(analysis)
	})
	mux.HandleFunc("POST /api/v1/manifests/validate", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Content string `json:"content"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		valid := strings.Contains(body.Content, "Lamp")
		_ = json.NewEncoder(w).Encode(domain.ValidationResult{
			IsValid:    valid,
			TotalItems: 1,
			ValidItems: map[bool]int{true: 1}[valid],
		})
	})
	mux.HandleFunc("GET /api/v1/manifests", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"manifests": []domain.ManifestSummary{analysis.Summary()},
			"total":     1,
			"limit":     50,
			"offset":    0,
		})
	})
	mux.HandleFunc("GET /api/v1/manifests/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "m-1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"title":"Not Found","status":404,"detail":"manifest not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(analysis)
	})
	mux.HandleFunc("DELETE /api/v1/manifests/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ready","store":"postgres"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lot.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCommands(t *testing.T) {
	srv := fakeServer(t)
	manifestPath := writeFile(t, "Description,Retail Price\nLamp,10\n")
	badPath := writeFile(t, "Description,Retail Price\n,10\n")

	tests := []struct {
		name     string
		args     []string
		wantErr  string
		wantOut  []string
		wantJSON bool
	}{
		{
			name:    "upload table",
			args:    []string{"upload", manifestPath, "--output", "table"},
			wantOut: []string{"Manifest ID:", "m-1", "Pass"},
		},
		{
			name:     "upload json",
			args:     []string{"upload", manifestPath, "--output", "json"},
			wantOut:  []string{`"manifest_id": "m-1"`},
			wantJSON: true,
		},
		{
			name:    "validate valid",
			args:    []string{"validate", manifestPath, "--output", "table"},
			wantOut: []string{"Valid:", "true"},
		},
		{
			name:    "validate invalid exits non-zero",
			args:    []string{"validate", badPath, "--output", "table"},
			wantOut: []string{"false"},
			wantErr: "no analyzable rows",
		},
		{
			name:    "list",
			args:    []string{"manifests", "list", "--output", "table"},
			wantOut: []string{"ID", "lot.csv", "Showing 1 of 1"},
		},
		{
			name:    "get",
			args:    []string{"manifests", "get", "m-1", "--output", "table"},
			wantOut: []string{"Recommendation:"},
		},
		{
			name:    "get missing",
			args:    []string{"manifests", "get", "nope", "--output", "table"},
			wantErr: "manifest not found",
		},
		{
			name:    "delete",
			args:    []string{"manifests", "delete", "m-1", "--output", "table"},
			wantOut: []string{"Deleted m-1"},
		},
		{
			name:    "status",
			args:    []string{"status", "--output", "table"},
			wantOut: []string{"ready (store: postgres)"},
		},
		{
			name:    "bad output format",
			args:    []string{"status", "--output", "yaml"},
			wantErr: "unknown output format",
		},
		{
			name:    "missing file",
			args:    []string{"upload", filepath.Join(t.TempDir(), "nope.csv"), "--output", "table"},
			wantErr: "reading manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append(tt.args, "--server", srv.URL)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			if tt.wantJSON {
				assert.True(t, json.Valid([]byte(out)), out)
			}
		})
	}
}

func TestRoot(t *testing.T) {
	names := make([]string, 0)
	for _, c := range Root().Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"upload", "validate", "manifests", "status"})
}
