package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/renewalops/renewguard/internal/domain"
)

// ContactService creates a contact and links it to an opportunity as the
// primary contact role.
type ContactService struct {
	crm    domain.CRMClient
	writer domain.CRMWriter
	logger *slog.Logger
}

func NewContactService(crm domain.CRMClient, writer domain.CRMWriter, logger *slog.Logger) *ContactService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactService{crm: crm, writer: writer, logger: logger}
}

// NewContact carries the fields for a contact to create. LastName is the
// only required field.
type NewContact struct {
	FirstName string `json:"FirstName,omitempty"`
	LastName  string `json:"LastName"`
	Email     string `json:"Email,omitempty"`
	Phone     string `json:"Phone,omitempty"`
	Title     string `json:"Title,omitempty"`
}

// ContactResult reports the created records.
type ContactResult struct {
	ContactID       string `json:"contact_id"`
	ContactRoleID   string `json:"opportunity_contact_role_id"`
	OpportunityName string `json:"opportunity_name,omitempty"`
}

// CreatePrimary creates the contact, associates it with the opportunity's
// account when one exists, and links it via a primary OpportunityContactRole.
func (s *ContactService) CreatePrimary(ctx context.Context, opportunityID string, contact NewContact, role string) (*ContactResult, error) {
	if strings.TrimSpace(opportunityID) == "" {
		return nil, domain.ErrMissingOpportunityID
	}
	if strings.TrimSpace(contact.LastName) == "" {
		return nil, fmt.Errorf("contact LastName is required")
	}

	path := fmt.Sprintf("/sobjects/Opportunity/%s?fields=AccountId,Name", url.PathEscape(opportunityID))
	opp, found, err := s.crm.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetching opportunity: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("opportunity %s: %w", opportunityID, domain.ErrNotFound)
	}
	oppName, _ := opp.String("Name")

	fields := map[string]any{"LastName": contact.LastName}
	setIfPresent(fields, "FirstName", contact.FirstName)
	setIfPresent(fields, "Email", contact.Email)
	setIfPresent(fields, "Phone", contact.Phone)
	setIfPresent(fields, "Title", contact.Title)
	if accountID, _ := opp.String("AccountId"); accountID != "" {
		fields["AccountId"] = accountID
	}

	contactID, err := s.writer.Create(ctx, "Contact", fields)
	if err != nil {
		return nil, fmt.Errorf("creating contact: %w", err)
	}

	roleFields := map[string]any{
		"OpportunityId": opportunityID,
		"ContactId":     contactID,
		"IsPrimary":     true,
	}
	setIfPresent(roleFields, "Role", role)

	roleID, err := s.writer.Create(ctx, "OpportunityContactRole", roleFields)
	if err != nil {
		return nil, fmt.Errorf("creating contact role: %w", err)
	}

	s.logger.Info("primary contact created",
		"opportunity_id", opportunityID,
		"contact_id", contactID,
		"contact_role_id", roleID,
	)
	return &ContactResult{
		ContactID:       contactID,
		ContactRoleID:   roleID,
		OpportunityName: oppName,
	}, nil
}

func setIfPresent(fields map[string]any, key, value string) {
	if value != "" {
		fields[key] = value
	}
}
