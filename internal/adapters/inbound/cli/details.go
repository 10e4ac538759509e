package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renewalops/renewguard/internal/application"
)

func newDetailsCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "details <opportunity-id>",
		Short: "Show contact roles and the linked NetSuite subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			crm, err := newCRMClient(logger)
			if err != nil {
				return err
			}
			svc := application.NewDetailsService(crm, logger)

			details, err := svc.Details(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("details lookup failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(details)
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log request details to stderr")

	return cmd
}
