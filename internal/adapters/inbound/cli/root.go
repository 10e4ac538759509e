package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renewguard",
		Short: "Validate renewal opportunities before they reach finance",
		Long:  "RenewGuard runs a battery of data-quality checks against renewal opportunities in Salesforce, tolerating per-org custom field naming.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newStageCmd())
	cmd.AddCommand(newDetailsCmd())
	cmd.AddCommand(newAccountCmd())
	cmd.AddCommand(newContactCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
