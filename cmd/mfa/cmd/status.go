package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the server and its store are reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient()
			rs, err := c.Ready(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), rs, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s: %s (store: %s)\n", c.BaseURL(), rs.Status, rs.Store)
				return err
			})
		},
	}
}
