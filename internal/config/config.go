// Package config loads the manifest-analyzer server configuration from YAML
// with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

// LLM backends. BackendNone runs the rule estimator only.
const (
	BackendOllama       = "ollama"
	BackendAnthropic    = "anthropic"
	BackendOpenAICompat = "openai_compat"
	BackendNone         = "none"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	LLM       LLMConfig       `yaml:"llm"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Retention RetentionConfig `yaml:"retention"`
	Notify    NotifyConfig    `yaml:"notifications"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

// StoreConfig selects and configures the analysis store.
type StoreConfig struct {
	Driver   string         `yaml:"driver"` // memory, postgres, sqlite, redis
	Postgres DatabaseConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Redis    RedisConfig    `yaml:"redis"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
	)
}

// SQLiteConfig defines the embedded database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig defines the Redis connection.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// LLMConfig defines the primary estimator backend.
type LLMConfig struct {
	Backend      string             `yaml:"backend"` // ollama, anthropic, openai_compat, none
	Ollama       OllamaConfig       `yaml:"ollama"`
	Anthropic    AnthropicConfig    `yaml:"anthropic"`
	OpenAICompat OpenAICompatConfig `yaml:"openai_compat"`
	Concurrency  int                `yaml:"concurrency"`
	Timeout      time.Duration      `yaml:"timeout"`
	Temperature  float64            `yaml:"temperature"`
	MaxTokens    int                `yaml:"max_tokens"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
}

// OllamaConfig defines Ollama-specific settings.
type OllamaConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// AnthropicConfig defines Anthropic API settings. APIKey falls back to
// ANTHROPIC_API_KEY.
type AnthropicConfig struct {
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
}

// OpenAICompatConfig defines OpenAI-compatible endpoint settings.
type OpenAICompatConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

// RateLimitConfig throttles calls to the LLM backend. Zero values disable
// the corresponding limit.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// AnalysisConfig tunes the rule-based fallback estimator.
type AnalysisConfig struct {
	RiskFallback                string  `yaml:"risk_fallback"` // hash, random
	FallbackValuationConfidence float64 `yaml:"fallback_valuation_confidence"`
}

// RetentionConfig controls the sweep that deletes old analyses.
type RetentionConfig struct {
	Enabled  bool          `yaml:"enabled"`
	MaxAge   time.Duration `yaml:"max_age"`
	Schedule string        `yaml:"schedule"` // cron spec, e.g. "@every 1h"
}

// NotifyConfig controls analysis notifications. An empty webhook URL
// disables them.
type NotifyConfig struct {
	DiscordWebhookURL string `yaml:"discord_webhook_url"`
	MinAction         string `yaml:"min_action"` // Pass, Consider, Buy, Strong Buy
	BaseURL           string `yaml:"base_url"`   // public server URL for links
}

// TelemetryConfig configures OpenTelemetry tracing. An empty endpoint
// disables export.
type TelemetryConfig struct {
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	Insecure     bool    `yaml:"insecure"`
	ServiceName  string  `yaml:"service_name"`
	SampleRatio  float64 `yaml:"sample_ratio"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied: in-memory
// store, no LLM backend, text logging at info.
func Default() *Config {
	cfg := &Config{LLM: LLMConfig{Backend: BackendNone}}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyStoreDefaults(&cfg.Store)
	applyLLMDefaults(&cfg.LLM)
	applyAnalysisDefaults(&cfg.Analysis)
	applyRetentionDefaults(&cfg.Retention)
	applyNotifyDefaults(&cfg.Notify)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 5 * time.Minute
	}
	if s.MaxUploadBytes == 0 {
		s.MaxUploadBytes = 10 << 20
	}
}

func applyStoreDefaults(s *StoreConfig) {
	if s.Driver == "" {
		s.Driver = DriverMemory
	}

	d := &s.Postgres
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}

	if s.SQLite.Path == "" {
		s.SQLite.Path = "manifest-analyzer.db"
	}
	if s.Redis.Addr == "" {
		s.Redis.Addr = "localhost:6379"
	}
	if s.Redis.KeyPrefix == "" {
		s.Redis.KeyPrefix = "mfa"
	}
}

func applyLLMDefaults(l *LLMConfig) {
	if l.Backend == "" {
		l.Backend = BackendOllama
	}
	if l.Ollama.Model == "" {
		l.Ollama.Model = "llama3.1"
	}
	if l.Concurrency == 0 {
		l.Concurrency = 4
	}
	if l.Timeout == 0 {
		l.Timeout = 30 * time.Second
	}
	if l.Temperature == 0 {
		l.Temperature = 0.1
	}
	if l.MaxTokens == 0 {
		l.MaxTokens = 400
	}
	if l.RateLimit.Burst == 0 {
		l.RateLimit.Burst = max(l.Concurrency, 1)
	}
}

func applyAnalysisDefaults(a *AnalysisConfig) {
	if a.RiskFallback == "" {
		a.RiskFallback = "hash"
	}
	if a.FallbackValuationConfidence == 0 {
		a.FallbackValuationConfidence = 0.5
	}
}

func applyRetentionDefaults(r *RetentionConfig) {
	if r.MaxAge == 0 {
		r.MaxAge = 30 * 24 * time.Hour
	}
	if r.Schedule == "" {
		r.Schedule = "@every 1h"
	}
}

func applyNotifyDefaults(n *NotifyConfig) {
	if n.MinAction == "" {
		n.MinAction = "Buy"
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "manifest-analyzer"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1.0
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	switch cfg.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		pg := cfg.Store.Postgres
		if pg.Host == "" {
			errs = append(errs, fmt.Errorf("store.postgres.host is required when driver is postgres"))
		}
		if pg.Name == "" {
			errs = append(errs, fmt.Errorf("store.postgres.name is required when driver is postgres"))
		}
		if pg.User == "" {
			errs = append(errs, fmt.Errorf("store.postgres.user is required when driver is postgres"))
		}
	case DriverSQLite, DriverRedis:
		// Defaults cover both.
	default:
		errs = append(errs, fmt.Errorf(
			"store.driver must be one of: memory, postgres, sqlite, redis (got %q)",
			cfg.Store.Driver,
		))
	}

	switch cfg.LLM.Backend {
	case BackendOllama:
		if cfg.LLM.Ollama.Endpoint == "" {
			errs = append(errs, fmt.Errorf("llm.ollama.endpoint is required when backend is ollama"))
		}
	case BackendAnthropic:
		if cfg.LLM.Anthropic.Model == "" {
			errs = append(errs, fmt.Errorf("llm.anthropic.model is required when backend is anthropic"))
		}
	case BackendOpenAICompat:
		if cfg.LLM.OpenAICompat.Endpoint == "" {
			errs = append(errs, fmt.Errorf("llm.openai_compat.endpoint is required when backend is openai_compat"))
		}
	case BackendNone:
	default:
		errs = append(errs, fmt.Errorf(
			"llm.backend must be one of: ollama, anthropic, openai_compat, none (got %q)",
			cfg.LLM.Backend,
		))
	}

	if cfg.LLM.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("llm.concurrency must be >= 1 (got %d)", cfg.LLM.Concurrency))
	}
	if cfg.LLM.Timeout < 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must not be negative"))
	}

	if r := cfg.Analysis.RiskFallback; r != "hash" && r != "random" {
		errs = append(errs, fmt.Errorf("analysis.risk_fallback must be hash or random (got %q)", r))
	}
	if c := cfg.Analysis.FallbackValuationConfidence; c < 0 || c > 1 {
		errs = append(errs, fmt.Errorf("analysis.fallback_valuation_confidence must be within 0-1 (got %.2f)", c))
	}

	if cfg.Retention.Enabled && cfg.Retention.MaxAge < time.Minute {
		errs = append(errs, fmt.Errorf("retention.max_age must be at least 1m when retention is enabled"))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Notify.MinAction)) {
	case "pass", "consider", "buy", "strong buy":
	default:
		errs = append(errs, fmt.Errorf(
			"notifications.min_action must be one of: Pass, Consider, Buy, Strong Buy (got %q)",
			cfg.Notify.MinAction,
		))
	}

	if r := cfg.Telemetry.SampleRatio; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio must be within 0-1 (got %.2f)", r))
	}

	return errors.Join(errs...)
}
