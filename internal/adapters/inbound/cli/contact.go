package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renewalops/renewguard/internal/application"
)

func newContactCmd() *cobra.Command {
	var (
		firstName string
		lastName  string
		email     string
		phone     string
		title     string
		role      string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "contact <opportunity-id>",
		Short: "Create a primary contact on an opportunity",
		Long:  "Create a contact under the opportunity's account and attach it to the opportunity as the primary contact role.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			crm, err := newCRMClient(logger)
			if err != nil {
				return err
			}
			svc := application.NewContactService(crm, crm, logger)

			contact := application.NewContact{
				FirstName: firstName,
				LastName:  lastName,
				Email:     email,
				Phone:     phone,
				Title:     title,
			}
			result, err := svc.CreatePrimary(cmd.Context(), args[0], contact, role)
			if err != nil {
				return fmt.Errorf("contact create failed: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&firstName, "first-name", "", "Contact first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Contact last name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	cmd.Flags().StringVar(&title, "title", "", "Contact title")
	cmd.Flags().StringVar(&role, "role", "", "Contact role on the opportunity")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log request details to stderr")
	_ = cmd.MarkFlagRequired("last-name")

	return cmd
}
