package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/renewalops/renewguard/internal/adapters/inbound/httpapi"
	"github.com/renewalops/renewguard/internal/application"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the RenewGuard HTTP API",
		Long:  "Serve the validation battery and the supporting opportunity operations over HTTP for automations and internal tools.",
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

			srv := httpapi.NewServer(
				application.NewValidateService(crm, cfg, logger),
				application.NewStageService(crm, crm, logger),
				application.NewDetailsService(crm, logger),
				application.NewAccountService(crm, logger),
				application.NewContactService(crm, crm, logger),
				logger,
			)

			logger.Info("listening", "addr", addr)
			fmt.Fprintf(cmd.OutOrStdout(), "renewguard listening on %s\n", addr)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&configPath, "config", ".", "Directory holding .renewguard.yaml")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log request details to stderr")

	return cmd
}
