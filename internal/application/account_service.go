package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/renewalops/renewguard/internal/domain"
)

// AccountService exposes account-level data reachable from an opportunity:
// billing/shipping addresses and the deal currency.
type AccountService struct {
	crm    domain.CRMClient
	logger *slog.Logger
}

func NewAccountService(crm domain.CRMClient, logger *slog.Logger) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{crm: crm, logger: logger}
}

// Address is one formatted postal address.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
	Formatted  string `json:"formatted,omitempty"`
}

// AccountInfo is the account summary for an opportunity.
type AccountInfo struct {
	OpportunityID   string   `json:"opportunity_id"`
	OpportunityName string   `json:"opportunity_name,omitempty"`
	AccountID       string   `json:"account_id,omitempty"`
	AccountName     string   `json:"account_name,omitempty"`
	Billing         *Address `json:"billing_address,omitempty"`
	Shipping        *Address `json:"shipping_address,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Website         string   `json:"website,omitempty"`
}

// CurrencyInfo is the opportunity's currency and amount.
type CurrencyInfo struct {
	OpportunityID   string  `json:"opportunity_id"`
	OpportunityName string  `json:"opportunity_name,omitempty"`
	CurrencyISOCode string  `json:"currency_iso_code,omitempty"`
	Amount          float64 `json:"amount"`
}

// Address returns the related account's billing and shipping addresses.
// An opportunity with no account yields an AccountInfo with an empty
// AccountID, not an error.
func (s *AccountService) Address(ctx context.Context, opportunityID string) (*AccountInfo, error) {
	if strings.TrimSpace(opportunityID) == "" {
		return nil, domain.ErrMissingOpportunityID
	}

	soql := fmt.Sprintf(
		"SELECT Id, Name, AccountId, Account.Id, Account.Name, "+
			"Account.BillingStreet, Account.BillingCity, Account.BillingState, "+
			"Account.BillingPostalCode, Account.BillingCountry, "+
			"Account.ShippingStreet, Account.ShippingCity, Account.ShippingState, "+
			"Account.ShippingPostalCode, Account.ShippingCountry, "+
			"Account.Phone, Account.Website "+
			"FROM Opportunity WHERE Id = '%s'",
		domain.SOQLEscape(opportunityID),
	)
	records, err := s.crm.Query(ctx, soql)
	if err != nil {
		return nil, fmt.Errorf("querying account address: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("opportunity %s: %w", opportunityID, domain.ErrNotFound)
	}

	rec := records[0]
	info := &AccountInfo{OpportunityID: opportunityID}
	info.OpportunityName, _ = rec.String("Name")

	account, ok := rec.Related("Account")
	if !ok {
		return info, nil
	}
	info.AccountID, _ = account.String("Id")
	info.AccountName, _ = account.String("Name")
	info.Phone, _ = account.String("Phone")
	info.Website, _ = account.String("Website")
	info.Billing = addressFrom(account, "Billing")
	info.Shipping = addressFrom(account, "Shipping")
	return info, nil
}

// Currency returns the opportunity's currency ISO code and amount.
func (s *AccountService) Currency(ctx context.Context, opportunityID string) (*CurrencyInfo, error) {
	if strings.TrimSpace(opportunityID) == "" {
		return nil, domain.ErrMissingOpportunityID
	}

	soql := fmt.Sprintf(
		"SELECT Id, Name, CurrencyIsoCode, Amount FROM Opportunity WHERE Id = '%s'",
		domain.SOQLEscape(opportunityID),
	)
	records, err := s.crm.Query(ctx, soql)
	if err != nil {
		return nil, fmt.Errorf("querying currency: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("opportunity %s: %w", opportunityID, domain.ErrNotFound)
	}

	rec := records[0]
	info := &CurrencyInfo{OpportunityID: opportunityID}
	info.OpportunityName, _ = rec.String("Name")
	info.CurrencyISOCode, _ = rec.String("CurrencyIsoCode")
	info.Amount, _ = rec.Number("Amount")
	return info, nil
}

// addressFrom builds an Address from the account's Billing* or Shipping*
// field group. Returns nil when every component is empty.
func addressFrom(account domain.Record, prefix string) *Address {
	addr := Address{}
	addr.Street, _ = account.String(prefix + "Street")
	addr.City, _ = account.String(prefix + "City")
	addr.State, _ = account.String(prefix + "State")
	addr.PostalCode, _ = account.String(prefix + "PostalCode")
	addr.Country, _ = account.String(prefix + "Country")

	var parts []string
	for _, p := range []string{addr.Street, addr.City, addr.State, addr.PostalCode, addr.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	addr.Formatted = strings.Join(parts, ", ")
	return &addr
}
