package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/renewalops/renewguard/internal/application"
	"github.com/renewalops/renewguard/internal/domain"
)

func newStageCmd() *cobra.Command {
	var (
		set     string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "stage <opportunity-id>",
		Short: "Show or update an opportunity's stage",
		Long:  "Print the current stage of an opportunity, or move it to a new stage with --set. Only the stages of the renewal pipeline are accepted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			crm, err := newCRMClient(logger)
			if err != nil {
				return err
			}
			svc := application.NewStageService(crm, crm, logger)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if set == "" {
				info, err := svc.Current(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("stage lookup failed: %w", err)
				}
				return enc.Encode(info)
			}

			update, err := svc.Update(cmd.Context(), args[0], set)
			if err != nil {
				return fmt.Errorf("stage update failed: %w", err)
			}
			return enc.Encode(update)
		},
	}

	cmd.Flags().StringVar(&set, "set", "", "Move the opportunity to this stage ("+strings.Join(domain.ValidStages, ", ")+")")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log request details to stderr")

	return cmd
}
