package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/manifest-analyzer/api/openapi"
	"github.com/donaldgifford/manifest-analyzer/internal/analyzer"
	"github.com/donaldgifford/manifest-analyzer/internal/api/handlers"
	mw "github.com/donaldgifford/manifest-analyzer/internal/api/middleware"
	"github.com/donaldgifford/manifest-analyzer/internal/config"
	"github.com/donaldgifford/manifest-analyzer/internal/store"
	"github.com/donaldgifford/manifest-analyzer/internal/telemetry"
	"github.com/donaldgifford/manifest-analyzer/pkg/logger"
)

const (
	apiTitle        = "Manifest Analyzer API"
	shutdownTimeout = 30 * time.Second
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and retention scheduler",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, Version, log)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("flushing traces failed", "error", err)
		}
	}()

	st, err := openStore(ctx, &cfg.Store, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("closing store failed", "error", err)
		}
	}()

	a, err := newAnalyzer(cfg, log, st, false)
	if err != nil {
		return err
	}

	if cfg.Retention.Enabled {
		sched, err := analyzer.NewScheduler(a, cfg.Retention.Schedule, cfg.Retention.MaxAge,
			logger.Component(log, "retention"))
		if err != nil {
			return err
		}
		sched.Start()
		defer func() { <-sched.Stop().Done() }()
		log.Info("retention enabled", "schedule", cfg.Retention.Schedule, "max_age", cfg.Retention.MaxAge)
	}

	e := newServer(cfg, a, st, log)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			"addr", addr,
			"store", cfg.Store.Driver,
			"llm_backend", cfg.LLM.Backend,
			"version", Version,
		)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newServer builds the Echo instance with middleware, operational routes
// and the huma API.
func newServer(cfg *config.Config, a *analyzer.Analyzer, st store.Store, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(mw.Recovery(log))
	e.Use(mw.RequestLog(logger.Component(log, "http")))
	e.Use(mw.Tracing())
	e.Use(mw.Metrics())

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(st, cfg.Store.Driver))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	openapi.RegisterRoutes(e, apiTitle, openapi.DefaultSpecPath)

	humaCfg := huma.DefaultConfig(apiTitle, Version)
	humaCfg.Info.Description = "Upload liquidation manifests and retrieve resale analyses."
	humaCfg.DocsPath = ""
	api := humaecho.New(e, humaCfg)

	handlers.RegisterManifestRoutes(api, handlers.NewManifestsHandler(a,
		handlers.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
		handlers.WithHandlerLogger(logger.Component(log, "manifests")),
	))

	return e
}
