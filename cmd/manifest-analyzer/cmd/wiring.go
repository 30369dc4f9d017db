package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/manifest-analyzer/internal/analyzer"
	"github.com/donaldgifford/manifest-analyzer/internal/config"
	"github.com/donaldgifford/manifest-analyzer/internal/metrics"
	"github.com/donaldgifford/manifest-analyzer/internal/notify"
	"github.com/donaldgifford/manifest-analyzer/internal/store"
	"github.com/donaldgifford/manifest-analyzer/pkg/enrich"
	"github.com/donaldgifford/manifest-analyzer/pkg/estimate"
	"github.com/donaldgifford/manifest-analyzer/pkg/logger"
)

// openStore connects the configured analysis store. Postgres is migrated
// on open; SQLite migrates itself.
func openStore(ctx context.Context, cfg *config.StoreConfig, log *slog.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory store, analyses are lost on restart")
		return store.NewMemoryStore(), nil

	case config.DriverPostgres:
		pg, err := store.NewPostgresStore(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("migrating postgres: %w", err)
		}
		log.Info("connected to postgres", "host", cfg.Postgres.Host, "db", cfg.Postgres.Name)
		return pg, nil

	case config.DriverSQLite:
		lite, err := store.NewSQLiteStore(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		log.Info("opened sqlite store", "path", cfg.SQLite.Path)
		return lite, nil

	case config.DriverRedis:
		rs, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		log.Info("connected to redis", "addr", cfg.Redis.Addr)
		return rs, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// newBackend builds the configured LLM backend.
func newBackend(cfg *config.LLMConfig) (estimate.LLMBackend, error) {
	switch cfg.Backend {
	case config.BackendOllama:
		return estimate.NewOllamaBackend(cfg.Ollama.Endpoint, cfg.Ollama.Model), nil

	case config.BackendAnthropic:
		opts := []estimate.AnthropicOption{estimate.WithAnthropicModel(cfg.Anthropic.Model)}
		if cfg.Anthropic.APIKey != "" {
			opts = append(opts, estimate.WithAnthropicAPIKey(cfg.Anthropic.APIKey))
		}
		if cfg.Anthropic.Endpoint != "" {
			opts = append(opts, estimate.WithAnthropicEndpoint(cfg.Anthropic.Endpoint))
		}
		return estimate.NewAnthropicBackend(opts...), nil

	case config.BackendOpenAICompat:
		return estimate.NewOpenAICompatBackend(
			cfg.OpenAICompat.Endpoint,
			cfg.OpenAICompat.Model,
			estimate.WithOpenAICompatAPIKey(cfg.OpenAICompat.APIKey),
		), nil

	default:
		return nil, fmt.Errorf("unknown LLM backend %q", cfg.Backend)
	}
}

// buildEstimator returns the estimator used for enrichment and the rule
// estimator behind it. With offline set, or no backend configured, the
// rule estimator is used directly.
func buildEstimator(
	cfg *config.Config,
	log *slog.Logger,
	offline bool,
) (estimate.Estimator, *estimate.RuleEstimator, error) {
	rules := estimate.NewRuleEstimator(
		estimate.WithRiskMode(estimate.RiskMode(cfg.Analysis.RiskFallback)),
		estimate.WithValuationConfidence(cfg.Analysis.FallbackValuationConfidence),
	)
	if offline || cfg.LLM.Backend == config.BackendNone {
		return rules, rules, nil
	}

	backend, err := newBackend(&cfg.LLM)
	if err != nil {
		return nil, nil, err
	}

	limited := estimate.NewRateLimitedBackend(
		backend,
		cfg.LLM.RateLimit.PerSecond,
		cfg.LLM.RateLimit.Burst,
		estimate.WithDailyBudget(cfg.LLM.RateLimit.DailyLimit),
	)
	llm := estimate.NewLLMEstimator(limited,
		estimate.WithTemperature(cfg.LLM.Temperature),
		estimate.WithMaxTokens(cfg.LLM.MaxTokens),
	)

	est := estimate.NewFallbackEstimator(llm, rules,
		estimate.WithCallTimeout(cfg.LLM.Timeout),
		estimate.WithLogger(logger.Component(log, "estimator")),
		estimate.WithObserver(metrics.NewEstimatorObserver(metrics.WithBudget(limited.Remaining))),
	)
	return est, rules, nil
}

// newNotifier returns a Discord notifier when a webhook is configured and a
// logging no-op otherwise.
func newNotifier(cfg *config.NotifyConfig, log *slog.Logger) notify.Notifier {
	if cfg.DiscordWebhookURL == "" {
		return notify.NewNoOpNotifier(logger.Component(log, "notify"))
	}
	return notify.NewDiscordNotifier(cfg.DiscordWebhookURL)
}

// newAnalyzer wires the estimator stack into an Analyzer. s may be nil.
func newAnalyzer(cfg *config.Config, log *slog.Logger, s store.Store, offline bool) (*analyzer.Analyzer, error) {
	est, rules, err := buildEstimator(cfg, log, offline)
	if err != nil {
		return nil, err
	}

	e := enrich.New(est,
		enrich.WithLogger(logger.Component(log, "enrich")),
		enrich.WithRuleEstimator(rules),
	)

	opts := []analyzer.Option{
		analyzer.WithLogger(logger.Component(log, "analyzer")),
		analyzer.WithConcurrency(cfg.LLM.Concurrency),
	}
	if s != nil {
		opts = append(opts, analyzer.WithStore(s))
	}

	minAction, ok := notify.ParseAction(cfg.Notify.MinAction)
	if !ok {
		return nil, fmt.Errorf("unknown notification threshold %q", cfg.Notify.MinAction)
	}
	opts = append(opts, analyzer.WithNotifier(newNotifier(&cfg.Notify, log), minAction, cfg.Notify.BaseURL))

	return analyzer.New(e, opts...), nil
}
