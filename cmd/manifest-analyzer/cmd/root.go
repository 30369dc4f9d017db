// Package cmd implements the CLI commands for manifest-analyzer.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/manifest-analyzer/internal/config"
)

const defaultConfigPath = "config.yaml"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "manifest-analyzer",
	Short: "Analyze liquidation manifests for resale value",
	Long: "manifest-analyzer decodes liquidation manifests, enriches every line with a\n" +
		"category, resale valuation and risk score from an LLM estimator (falling back\n" +
		"to deterministic rules), and rolls the results up into a buy recommendation.\n" +
		"It runs as an HTTP API server or analyzes a single file locally.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath, "config file path")

	rootCmd.AddCommand(
		serveCommand(),
		analyzeCommand(),
		migrateCommand(),
		versionCommand(),
	)
}

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads --config. A missing default config file yields the
// built-in defaults; a missing file named explicitly is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	return nil, fmt.Errorf("loading config: %w", err)
}
