// Package cmd implements the mfa CLI commands.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/manifest-analyzer/internal/api/client"
	"github.com/donaldgifford/manifest-analyzer/internal/report"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "mfa",
		Short: "CLI client for Manifest Analyzer",
		Long: "mfa is a command-line client for the Manifest Analyzer API.\n" +
			"It uploads manifests for analysis, validates them, and browses\n" +
			"stored analyses from the terminal.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.mfa.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		StringP("output", "o", report.FormatTable, "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(manifestsCmd())
	rootCmd.AddCommand(statusCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mfa")
	}

	viper.SetEnvPrefix("MFA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func outputFormat() (string, error) {
	return report.ParseFormat(viper.GetString("output"))
}

// render writes v as JSON, or calls table when the table format is selected.
func render(w io.Writer, v any, table func(io.Writer) error) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	if format == report.FormatJSON {
		return report.JSON(w, v)
	}
	return table(w)
}
