package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/manifest-analyzer/internal/config"
	"github.com/donaldgifford/manifest-analyzer/internal/store"
	"github.com/donaldgifford/manifest-analyzer/pkg/logger"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: "Applies the embedded schema migrations to the configured postgres or\n" +
			"sqlite store. Memory and redis stores have no schema.",
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pg, err := store.NewPostgresStore(ctx, cfg.Store.Postgres.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pg.Close()

		log.Info("running migrations", "driver", cfg.Store.Driver, "host", cfg.Store.Postgres.Host)
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}

	case config.DriverSQLite:
		log.Info("running migrations", "driver", cfg.Store.Driver, "path", cfg.Store.SQLite.Path)
		lite, err := store.NewSQLiteStore(ctx, cfg.Store.SQLite.Path)
		if err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		defer lite.Close()

	default:
		log.Info("store has no schema, nothing to migrate", "driver", cfg.Store.Driver)
		return nil
	}

	log.Info("migrations complete")
	return nil
}
