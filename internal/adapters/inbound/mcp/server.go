package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/renewalops/renewguard/internal/domain"
)

// Deps holds the outbound adapters the tools run against.
type Deps struct {
	CRM    domain.CRMClient
	Writer domain.CRMWriter
	Config domain.Config
	Logger *slog.Logger
}

// NewRenewGuardMCPServer creates a new MCP server with all RenewGuard tools
// registered, so assistants can validate and inspect renewal opportunities.
func NewRenewGuardMCPServer(deps Deps) *server.MCPServer {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := server.NewMCPServer(
		"renewguard",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, deps)

	return s
}
