package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/manifest-analyzer/internal/api/client"
	"github.com/donaldgifford/manifest-analyzer/internal/report"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a manifest's structure without analyzing it",
		Example: `  mfa validate lot-42.csv
  mfa validate lot-42.csv --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := apiclient.ReadUpload(args[0])
			if err != nil {
				return err
			}
			res, err := newClient().ValidateManifest(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := render(cmd.OutOrStdout(), res, func(w io.Writer) error {
				return report.Validation(w, res)
			}); err != nil {
				return err
			}
			if !res.IsValid {
				return fmt.Errorf("%s has no analyzable rows", req.FileName)
			}
			return nil
		},
	}
}
