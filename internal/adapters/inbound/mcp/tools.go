package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/renewalops/renewguard/internal/application"
)

// registerTools registers all RenewGuard MCP tools on the given server.
func registerTools(s *server.MCPServer, deps Deps) {
	// 1. renewal_validate
	s.AddTool(
		mcplib.NewTool("renewal_validate",
			mcplib.WithDescription("Run the renewal data-quality check battery against an opportunity and return the full report as JSON"),
			mcplib.WithString("opportunity_id",
				mcplib.Required(),
				mcplib.Description("Salesforce opportunity ID to validate"),
			),
		),
		handleValidate(deps),
	)

	// 2. renewal_get_stage
	s.AddTool(
		mcplib.NewTool("renewal_get_stage",
			mcplib.WithDescription("Return the current stage of an opportunity"),
			mcplib.WithString("opportunity_id",
				mcplib.Required(),
				mcplib.Description("Salesforce opportunity ID"),
			),
		),
		handleGetStage(deps),
	)

	// 3. renewal_update_stage
	s.AddTool(
		mcplib.NewTool("renewal_update_stage",
			mcplib.WithDescription("Move an opportunity to a new stage of the renewal pipeline"),
			mcplib.WithString("opportunity_id",
				mcplib.Required(),
				mcplib.Description("Salesforce opportunity ID"),
			),
			mcplib.WithString("stage",
				mcplib.Required(),
				mcplib.Description("Target stage name"),
			),
		),
		handleUpdateStage(deps),
	)

	// 4. renewal_get_details
	s.AddTool(
		mcplib.NewTool("renewal_get_details",
			mcplib.WithDescription("Return the opportunity's contact roles and linked NetSuite subscription"),
			mcplib.WithString("opportunity_id",
				mcplib.Required(),
				mcplib.Description("Salesforce opportunity ID"),
			),
		),
		handleGetDetails(deps),
	)

	// 5. renewal_get_account_address
	s.AddTool(
		mcplib.NewTool("renewal_get_account_address",
			mcplib.WithDescription("Return the billing address of the opportunity's account"),
			mcplib.WithString("opportunity_id",
				mcplib.Required(),
				mcplib.Description("Salesforce opportunity ID"),
			),
		),
		handleGetAddress(deps),
	)

	// 6. renewal_get_currency
	s.AddTool(
		mcplib.NewTool("renewal_get_currency",
			mcplib.WithDescription("Return the opportunity's currency code"),
			mcplib.WithString("opportunity_id",
				mcplib.Required(),
				mcplib.Description("Salesforce opportunity ID"),
			),
		),
		handleGetCurrency(deps),
	)

	// 7. renewal_create_primary_contact
	s.AddTool(
		mcplib.NewTool("renewal_create_primary_contact",
			mcplib.WithDescription("Create a contact under the opportunity's account and attach it as the primary contact role"),
			mcplib.WithString("opportunity_id",
				mcplib.Required(),
				mcplib.Description("Salesforce opportunity ID"),
			),
			mcplib.WithString("last_name",
				mcplib.Required(),
				mcplib.Description("Contact last name"),
			),
			mcplib.WithString("first_name", mcplib.Description("Contact first name")),
			mcplib.WithString("email", mcplib.Description("Contact email")),
			mcplib.WithString("phone", mcplib.Description("Contact phone")),
			mcplib.WithString("title", mcplib.Description("Contact title")),
			mcplib.WithString("role", mcplib.Description("Contact role on the opportunity")),
		),
		handleCreateContact(deps),
	)
}

func handleValidate(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opportunityID, err := request.RequireString("opportunity_id")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc := application.NewValidateService(deps.CRM, deps.Config, deps.Logger)
		report, err := svc.Validate(ctx, opportunityID)
		if err != nil {
			return errorResult(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleGetStage(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opportunityID, err := request.RequireString("opportunity_id")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc := application.NewStageService(deps.CRM, deps.Writer, deps.Logger)
		info, err := svc.Current(ctx, opportunityID)
		if err != nil {
			return errorResult(fmt.Sprintf("stage lookup failed: %v", err)), nil
		}
		return jsonResult(info)
	}
}

func handleUpdateStage(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opportunityID, err := request.RequireString("opportunity_id")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		stage, err := request.RequireString("stage")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc := application.NewStageService(deps.CRM, deps.Writer, deps.Logger)
		update, err := svc.Update(ctx, opportunityID, stage)
		if err != nil {
			return errorResult(fmt.Sprintf("stage update failed: %v", err)), nil
		}
		return jsonResult(update)
	}
}

func handleGetDetails(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opportunityID, err := request.RequireString("opportunity_id")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc := application.NewDetailsService(deps.CRM, deps.Logger)
		details, err := svc.Details(ctx, opportunityID)
		if err != nil {
			return errorResult(fmt.Sprintf("details lookup failed: %v", err)), nil
		}
		return jsonResult(details)
	}
}

func handleGetAddress(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opportunityID, err := request.RequireString("opportunity_id")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc := application.NewAccountService(deps.CRM, deps.Logger)
		info, err := svc.Address(ctx, opportunityID)
		if err != nil {
			return errorResult(fmt.Sprintf("address lookup failed: %v", err)), nil
		}
		return jsonResult(info)
	}
}

func handleGetCurrency(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opportunityID, err := request.RequireString("opportunity_id")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc := application.NewAccountService(deps.CRM, deps.Logger)
		info, err := svc.Currency(ctx, opportunityID)
		if err != nil {
			return errorResult(fmt.Sprintf("currency lookup failed: %v", err)), nil
		}
		return jsonResult(info)
	}
}

func handleCreateContact(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		opportunityID, err := request.RequireString("opportunity_id")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		lastName, err := request.RequireString("last_name")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		firstName, _ := args["first_name"].(string)
		email, _ := args["email"].(string)
		phone, _ := args["phone"].(string)
		title, _ := args["title"].(string)
		role, _ := args["role"].(string)

		contact := application.NewContact{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Phone:     phone,
			Title:     title,
		}

		svc := application.NewContactService(deps.CRM, deps.Writer, deps.Logger)
		result, err := svc.CreatePrimary(ctx, opportunityID, contact, role)
		if err != nil {
			return errorResult(fmt.Sprintf("contact create failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
