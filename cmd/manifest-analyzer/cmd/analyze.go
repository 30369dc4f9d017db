package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/manifest-analyzer/internal/analyzer"
	"github.com/donaldgifford/manifest-analyzer/internal/config"
	"github.com/donaldgifford/manifest-analyzer/internal/report"
	"github.com/donaldgifford/manifest-analyzer/internal/store"
	"github.com/donaldgifford/manifest-analyzer/pkg/logger"
	"github.com/donaldgifford/manifest-analyzer/pkg/manifest"
	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

type analyzeOptions struct {
	offline   bool
	output    string
	withItems bool
	save      bool
}

func analyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a manifest file locally",
		Long: "Runs the full analysis pipeline on a local manifest without starting the\n" +
			"server. With --offline only the rule estimator is used and no LLM backend\n" +
			"is contacted. With --save the result is written to the configured store.",
		Example: `  # Analyze with the configured LLM backend
  manifest-analyzer analyze lot-42.csv

  # Rule estimator only, full item table
  manifest-analyzer analyze lot-42.csv --offline --items

  # JSON for scripting
  manifest-analyzer analyze lot-42.csv --offline --output json | jq .executive_summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(opts.output)
			if err != nil {
				return err
			}
			opts.output = format

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runAnalyze(ctx, cfg, args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.offline, "offline", false, "use the rule estimator only")
	cmd.Flags().StringVarP(&opts.output, "output", "o", report.FormatTable, "output format (table, json)")
	cmd.Flags().BoolVar(&opts.withItems, "items", false, "include one row per item in table output")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the analysis in the configured store")

	return cmd
}

func runAnalyze(ctx context.Context, cfg *config.Config, path string, opts *analyzeOptions, out io.Writer) error {
	data, err := os.ReadFile(path) //nolint:gosec // path from CLI argument
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	var st store.Store
	if opts.save {
		st, err = openStore(ctx, &cfg.Store, log)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	a, err := newAnalyzer(cfg, log, st, opts.offline)
	if err != nil {
		return err
	}

	fileName := filepath.Base(path)
	var analysis *domain.ManifestAnalysis
	if opts.save {
		analysis, err = a.AnalyzeAndStore(ctx, fileName, data)
	} else {
		analysis, err = a.Analyze(ctx, fileName, data)
	}

	var valErr *manifest.ValidationError
	if errors.As(err, &valErr) {
		if perr := printValidation(out, opts.output, &valErr.Result); perr != nil {
			return perr
		}
		return err
	}

	var storeErr *analyzer.StoreError
	if errors.As(err, &storeErr) {
		log.Error("analysis not saved", "error", storeErr.Err)
		err = nil
	}
	if err != nil {
		return err
	}

	if opts.output == report.FormatJSON {
		return report.JSON(out, analysis)
	}
	return report.Analysis(out, analysis, opts.withItems)
}

func printValidation(out io.Writer, format string, res *domain.ValidationResult) error {
	if format == report.FormatJSON {
		return report.JSON(out, res)
	}
	return report.Validation(out, res)
}
