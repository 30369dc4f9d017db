package cmd

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/manifest-analyzer/internal/config"
	"github.com/donaldgifford/manifest-analyzer/internal/notify"
	"github.com/donaldgifford/manifest-analyzer/internal/store"
	"github.com/donaldgifford/manifest-analyzer/pkg/estimate"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.StoreConfig
		want    any
		wantErr string
	}{
		{
			name: "memory",
			cfg:  config.StoreConfig{Driver: config.DriverMemory},
			want: &store.MemoryStore{},
		},
		{
			name: "sqlite",
			cfg: config.StoreConfig{
				Driver: config.DriverSQLite,
				SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "mfa.db")},
			},
			want: &store.SQLiteStore{},
		},
		{
			name:    "unknown driver",
			cfg:     config.StoreConfig{Driver: "mongo"},
			wantErr: `unknown store driver "mongo"`,
		},
		{
			name: "unreachable redis",
			cfg: config.StoreConfig{
				Driver: config.DriverRedis,
				Redis:  config.RedisConfig{Addr: "127.0.0.1:1"},
			},
			wantErr: "connecting to redis",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := openStore(context.Background(), &tt.cfg, quietLogger())
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })

			assert.IsType(t, tt.want, s)
			assert.NoError(t, s.Ping(context.Background()))
		})
	}
}

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.LLMConfig
		wantName string
		wantErr  bool
	}{
		{
			name: "ollama",
			cfg: config.LLMConfig{
				Backend: config.BackendOllama,
				Ollama:  config.OllamaConfig{Endpoint: "http://localhost:11434", Model: "llama3.1"},
			},
			wantName: "ollama",
		},
		{
			name: "anthropic",
			cfg: config.LLMConfig{
				Backend:   config.BackendAnthropic,
				Anthropic: config.AnthropicConfig{Model: "claude-test", APIKey: "k"},
			},
			wantName: "anthropic",
		},
		{
			name: "openai compatible",
			cfg: config.LLMConfig{
				Backend:      config.BackendOpenAICompat,
				OpenAICompat: config.OpenAICompatConfig{Endpoint: "http://localhost:8000/v1", Model: "m"},
			},
			wantName: "openai_compat",
		},
		{
			name:    "unknown",
			cfg:     config.LLMConfig{Backend: "bard"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := newBackend(&tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, b.Name())
		})
	}
}

func TestBuildEstimator(t *testing.T) {
	t.Parallel()

	t.Run("no backend uses rules", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		est, rules, err := buildEstimator(cfg, quietLogger(), false)
		require.NoError(t, err)
		assert.Same(t, rules, est)
		assert.Equal(t, "rules", est.Name())
	})

	t.Run("offline ignores backend", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.LLM.Backend = config.BackendOllama
		cfg.LLM.Ollama.Endpoint = "http://localhost:11434"

		est, _, err := buildEstimator(cfg, quietLogger(), true)
		require.NoError(t, err)
		assert.Equal(t, "rules", est.Name())
	})

	t.Run("backend wrapped in fallback", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.LLM.Backend = config.BackendOllama
		cfg.LLM.Ollama.Endpoint = "http://localhost:11434"

		est, rules, err := buildEstimator(cfg, quietLogger(), false)
		require.NoError(t, err)
		require.NotNil(t, rules)
		assert.IsType(t, &estimate.FallbackEstimator{}, est)
		assert.Equal(t, "llm/ollama", est.Name())
	})
}

func TestNewAnalyzer(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	a, err := newAnalyzer(config.Default(), quietLogger(), s, true)
	require.NoError(t, err)
	assert.Same(t, s, a.Store())

	a, err = newAnalyzer(config.Default(), quietLogger(), nil, true)
	require.NoError(t, err)
	assert.Nil(t, a.Store())
}

func TestNewNotifier(t *testing.T) {
	t.Parallel()

	n := newNotifier(&config.NotifyConfig{}, quietLogger())
	assert.IsType(t, &notify.NoOpNotifier{}, n)

	n = newNotifier(&config.NotifyConfig{DiscordWebhookURL: "https://discord.example/hook"}, quietLogger())
	assert.IsType(t, &notify.DiscordNotifier{}, n)
}

func TestNewAnalyzer_BadThreshold(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Notify.MinAction = "Maybe"
	_, err := newAnalyzer(cfg, quietLogger(), nil, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown notification threshold")
}
