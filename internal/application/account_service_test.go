package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renewalops/renewguard/internal/application"
	"github.com/renewalops/renewguard/internal/domain"
)

func TestAccountAddress(t *testing.T) {
	crm := &stubCRM{
		queryFn: func(string) ([]domain.Record, error) {
			return []domain.Record{domain.NewRecord(map[string]any{
				"Name": "ACME Renewal FY26",
				"Account": map[string]any{
					"Id":                 "001xx000003DGb2AAG",
					"Name":               "ACME Corp",
					"BillingStreet":      "Musterstr. 1",
					"BillingCity":        "Berlin",
					"BillingPostalCode":  "10115",
					"BillingCountry":     "Germany",
					"ShippingCity":       "Hamburg",
					"ShippingCountry":    "Germany",
					"Phone":              "+49 30 1234567",
				},
			})}, nil
		},
	}
	svc := application.NewAccountService(crm, nil)

	info, err := svc.Address(context.Background(), "006xx0000012345")
	require.NoError(t, err)

	assert.Equal(t, "ACME Corp", info.AccountName)
	require.NotNil(t, info.Billing)
	assert.Equal(t, "Musterstr. 1, Berlin, 10115, Germany", info.Billing.Formatted)
	require.NotNil(t, info.Shipping)
	assert.Equal(t, "Hamburg, Germany", info.Shipping.Formatted)
	assert.Equal(t, "+49 30 1234567", info.Phone)
}

func TestAccountAddress_NoAccountIsNotAnError(t *testing.T) {
	crm := &stubCRM{
		queryFn: func(string) ([]domain.Record, error) {
			return []domain.Record{domain.NewRecord(map[string]any{
				"Name": "Orphan Opportunity",
			})}, nil
		},
	}
	svc := application.NewAccountService(crm, nil)

	info, err := svc.Address(context.Background(), "006xx0000012345")
	require.NoError(t, err)

	assert.Equal(t, "Orphan Opportunity", info.OpportunityName)
	assert.Empty(t, info.AccountID)
	assert.Nil(t, info.Billing)
	assert.Nil(t, info.Shipping)
}

func TestAccountCurrency(t *testing.T) {
	crm := &stubCRM{
		queryFn: func(string) ([]domain.Record, error) {
			return []domain.Record{domain.NewRecord(map[string]any{
				"Name":            "ACME Renewal FY26",
				"CurrencyIsoCode": "EUR",
				"Amount":          50000.0,
			})}, nil
		},
	}
	svc := application.NewAccountService(crm, nil)

	info, err := svc.Currency(context.Background(), "006xx0000012345")
	require.NoError(t, err)

	assert.Equal(t, "EUR", info.CurrencyISOCode)
	assert.InDelta(t, 50000.0, info.Amount, 0.0001)
}

func TestAccountCurrency_NotFound(t *testing.T) {
	svc := application.NewAccountService(&stubCRM{}, nil)

	_, err := svc.Currency(context.Background(), "006xx0000099999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
