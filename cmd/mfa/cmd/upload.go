package cmd

import (
	"io"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/manifest-analyzer/internal/api/client"
	"github.com/donaldgifford/manifest-analyzer/internal/report"
)

func uploadCmd() *cobra.Command {
	var withItems bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a manifest for analysis",
		Long: "Sends a manifest file to the server, which decodes, enriches and stores\n" +
			"it, then prints the resulting analysis.",
		Example: `  mfa upload lot-42.csv
  mfa upload lot-42.csv --items
  mfa upload lot-42.csv --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := apiclient.ReadUpload(args[0])
			if err != nil {
				return err
			}
			analysis, err := newClient().UploadManifest(cmd.Context(), req)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), analysis, func(w io.Writer) error {
				return report.Analysis(w, analysis, withItems)
			})
		},
	}

	cmd.Flags().BoolVar(&withItems, "items", false, "include one row per item in table output")
	return cmd
}
