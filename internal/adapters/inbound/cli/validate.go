package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renewalops/renewguard/internal/adapters/outbound/tui"
	"github.com/renewalops/renewguard/internal/application"
)

func newValidateCmd() *cobra.Command {
	var (
		jsonOutput bool
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "validate <opportunity-id>",
		Short: "Run the renewal check battery against an opportunity",
		Long:  "Run every renewal data-quality check against one opportunity and report per-check outcomes plus an overall status.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			crm, err := newCRMClient(logger)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			svc := application.NewValidateService(crm, cfg, logger)
			report, err := svc.Validate(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("validate failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderReport(args[0], report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&configPath, "config", ".", "Directory holding .renewguard.yaml")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log request details to stderr")

	return cmd
}
