package cli

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/renewalops/renewguard/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the RenewGuard MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start RenewGuard MCP server (stdio)",
		Long:  "Start the RenewGuard MCP server using stdio transport. This allows AI assistants to validate renewal opportunities and run the supporting lookups.",
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

			s := mcpadapter.NewRenewGuardMCPServer(mcpadapter.Deps{
				CRM:    crm,
				Writer: crm,
				Config: cfg,
				Logger: logger,
			})
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", ".", "Directory holding .renewguard.yaml")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Log request details to stderr")

	return cmd
}
