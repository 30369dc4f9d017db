package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/manifest-analyzer/internal/report"
)

func manifestsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "manifests",
		Aliases: []string{"manifest", "m"},
		Short:   "Browse stored analyses",
	}

	root.AddCommand(
		manifestsListCmd(),
		manifestsGetCmd(),
		manifestsDeleteCmd(),
	)

	return root
}

func manifestsListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored analyses, newest first",
		Example: `  mfa manifests list
  mfa manifests list --limit 20 --offset 40`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().ListManifests(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), resp, func(w io.Writer) error {
				return report.Summaries(w, resp.Manifests, resp.Total)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (server default 50)")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	return cmd
}

func manifestsGetCmd() *cobra.Command {
	var withItems bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a stored analysis",
		Example: `  mfa manifests get 0b6e4c1e-7d0a-4d55-9a3e-3f1d2c9b8a71 --items
  mfa manifests get 0b6e4c1e-7d0a-4d55-9a3e-3f1d2c9b8a71 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, err := newClient().GetManifest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), analysis, func(w io.Writer) error {
				return report.Analysis(w, analysis, withItems)
			})
		},
	}

	cmd.Flags().BoolVar(&withItems, "items", false, "include one row per item")
	return cmd
}

func manifestsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored analysis",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().DeleteManifest(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return err
		},
	}
}
