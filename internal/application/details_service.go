package application

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/renewalops/renewguard/internal/domain"
)

// DetailsService assembles the operator-facing opportunity summary: contact
// roles and the NetSuite subscription link.
type DetailsService struct {
	crm    domain.CRMClient
	logger *slog.Logger
}

func NewDetailsService(crm domain.CRMClient, logger *slog.Logger) *DetailsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailsService{crm: crm, logger: logger}
}

// ContactRole is one contact attached to the opportunity.
type ContactRole struct {
	ID           string `json:"id"`
	ContactID    string `json:"contact_id"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	ContactTitle string `json:"contact_title,omitempty"`
	Role         string `json:"role,omitempty"`
	IsPrimary    bool   `json:"is_primary"`
}

// NetSuiteSubscription is the parsed NetSuite link, present only when the
// org stores one.
type NetSuiteSubscription struct {
	Show           bool   `json:"show"`
	Label          string `json:"label"`
	URL            string `json:"url"`
	SubscriptionID string `json:"subscription_id,omitempty"`
}

// OpportunityDetails is the combined details payload.
type OpportunityDetails struct {
	OpportunityID        string                `json:"opportunity_id"`
	OpportunityName      string                `json:"opportunity_name,omitempty"`
	ContactRoles         []ContactRole         `json:"contact_roles"`
	NetSuiteSubscription *NetSuiteSubscription `json:"netsuite_subscription,omitempty"`
}

// Details fetches contact roles (primary first) and the NetSuite
// subscription link for one opportunity.
func (s *DetailsService) Details(ctx context.Context, opportunityID string) (*OpportunityDetails, error) {
	if strings.TrimSpace(opportunityID) == "" {
		return nil, domain.ErrMissingOpportunityID
	}

	roles, err := s.contactRoles(ctx, opportunityID)
	if err != nil {
		return nil, err
	}

	details := &OpportunityDetails{
		OpportunityID: opportunityID,
		ContactRoles:  roles,
	}

	name, link, err := s.netsuiteLink(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	details.OpportunityName = name
	details.NetSuiteSubscription = link

	return details, nil
}

func (s *DetailsService) contactRoles(ctx context.Context, opportunityID string) ([]ContactRole, error) {
	soql := fmt.Sprintf(
		"SELECT Id, ContactId, Contact.Name, Contact.Email, Contact.Phone, Contact.Title, Role, IsPrimary "+
			"FROM OpportunityContactRole WHERE OpportunityId = '%s' ORDER BY IsPrimary DESC",
		domain.SOQLEscape(opportunityID),
	)
	records, err := s.crm.Query(ctx, soql)
	if err != nil {
		return nil, fmt.Errorf("querying contact roles: %w", err)
	}

	roles := make([]ContactRole, 0, len(records))
	for _, rec := range records {
		role := ContactRole{}
		role.ID, _ = rec.String("Id")
		role.ContactID, _ = rec.String("ContactId")
		role.Role, _ = rec.String("Role")
		role.IsPrimary = rec.Truthy("IsPrimary")
		if contact, ok := rec.Related("Contact"); ok {
			role.ContactName, _ = contact.String("Name")
			role.ContactEmail, _ = contact.String("Email")
			role.ContactPhone, _ = contact.String("Phone")
			role.ContactTitle, _ = contact.String("Title")
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (s *DetailsService) netsuiteLink(ctx context.Context, opportunityID string) (string, *NetSuiteSubscription, error) {
	soql := fmt.Sprintf(
		"SELECT Id, Name, NetSuite_Sub_Link__c FROM Opportunity WHERE Id = '%s'",
		domain.SOQLEscape(opportunityID),
	)
	records, err := s.crm.Query(ctx, soql)
	if err != nil {
		return "", nil, fmt.Errorf("querying NetSuite link: %w", err)
	}
	if len(records) == 0 {
		return "", nil, fmt.Errorf("opportunity %s: %w", opportunityID, domain.ErrNotFound)
	}

	rec := records[0]
	name, _ := rec.String("Name")
	raw, _ := rec.String("NetSuite_Sub_Link__c")
	linkURL, linkText := extractAnchor(raw)
	if strings.TrimSpace(linkURL) == "" {
		return name, nil, nil
	}
	return name, &NetSuiteSubscription{
		Show:           true,
		Label:          "NetSuite Subscription",
		URL:            linkURL,
		SubscriptionID: linkText,
	}, nil
}

var (
	anchorHrefRe = regexp.MustCompile(`href=["']([^"']+)["']`)
	anchorTextRe = regexp.MustCompile(`>([^<]+)<`)
)

// extractAnchor pulls the href and link text out of an HTML anchor stored in
// a rich-text field.
func extractAnchor(html string) (url, text string) {
	if html == "" {
		return "", ""
	}
	if m := anchorHrefRe.FindStringSubmatch(html); m != nil {
		url = m[1]
	}
	if m := anchorTextRe.FindStringSubmatch(html); m != nil {
		text = m[1]
	}
	return url, text
}
