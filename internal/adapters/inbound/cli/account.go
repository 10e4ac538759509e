package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renewalops/renewguard/internal/application"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account lookups for an opportunity",
	}
	cmd.AddCommand(newAccountAddressCmd())
	cmd.AddCommand(newAccountCurrencyCmd())
	return cmd
}

func newAccountAddressCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "address <opportunity-id>",
		Short: "Show the billing address of the opportunity's account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			crm, err := newCRMClient(logger)
			if err != nil {
				return err
			}
			svc := application.NewAccountService(crm, logger)

			info, err := svc.Address(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("address lookup failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log request details to stderr")

	return cmd
}

func newAccountCurrencyCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "currency <opportunity-id>",
		Short: "Show the opportunity's currency code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			crm, err := newCRMClient(logger)
			if err != nil {
				return err
			}
			svc := application.NewAccountService(crm, logger)

			info, err := svc.Currency(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("currency lookup failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log request details to stderr")

	return cmd
}
