package checks_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renewalops/renewguard/internal/domain"
	"github.com/renewalops/renewguard/internal/domain/checks"
)

// fakeCRM dispatches queries by object name so each test controls the
// secondary lookups independently.
type fakeCRM struct {
	quotes        []domain.Record
	quotesErr     error
	subscriptions []domain.Record
	subsErr       error
	upsells       []domain.Record
	upsellsErr    error
}

func (f *fakeCRM) Describe(context.Context, string) ([]string, error) {
	return nil, errors.New("not used in checks")
}

func (f *fakeCRM) Query(_ context.Context, soql string) ([]domain.Record, error) {
	switch {
	case strings.Contains(soql, "FROM SBQQ__Quote__c"):
		return f.quotes, f.quotesErr
	case strings.Contains(soql, "FROM SBQQ__Subscription__c"):
		return f.subscriptions, f.subsErr
	case strings.Contains(soql, "FROM Opportunity"):
		return f.upsells, f.upsellsErr
	}
	return nil, errors.New("unexpected query: " + soql)
}

func (f *fakeCRM) Get(context.Context, string) (domain.Record, bool, error) {
	return domain.Record{}, false, errors.New("not used in checks")
}

// fullSchema resolves every default logical key to its first candidate.
func fullSchema(cfg domain.Config) []string {
	var fields []string
	fields = append(fields, domain.BaseFields...)
	for _, names := range cfg.Candidates {
		fields = append(fields, names[0])
	}
	return fields
}

func newInput(crm *fakeCRM, opp map[string]any, schema []string) checks.Input {
	cfg := domain.DefaultConfig()
	return checks.Input{
		CRM:           crm,
		Config:        cfg,
		OpportunityID: "006xx0000012345",
		Opportunity:   domain.NewRecord(opp),
		Fields:        domain.Resolve(cfg.Candidates, schema),
		Schema:        schema,
	}
}

func outcomeByName(t *testing.T, outcomes []domain.Outcome, name string) domain.Outcome {
	t.Helper()
	for _, o := range outcomes {
		if o.Name == name {
			return o
		}
	}
	t.Fatalf("outcome %q not found", name)
	return domain.Outcome{}
}

func TestRunAll_AlwaysNineOutcomes(t *testing.T) {
	cfg := domain.DefaultConfig()
	crm := &fakeCRM{
		quotesErr:  errors.New("quote query timed out"),
		upsellsErr: errors.New("upsell query timed out"),
	}
	in := newInput(crm, map[string]any{
		"Id":        "006xx0000012345",
		"Name":      "ACME Renewal FY26",
		"AccountId": "001xx000003DGb2AAG",
	}, fullSchema(cfg))

	outcomes := checks.RunAll(context.Background(), in)

	require.Len(t, outcomes, 9, "battery plus field discovery")
	for _, o := range outcomes {
		assert.NotEmpty(t, o.Name)
		assert.NotEmpty(t, o.Status)
	}
}

func TestRunAll_OrderIsFixed(t *testing.T) {
	cfg := domain.DefaultConfig()
	in := newInput(&fakeCRM{}, map[string]any{"Id": "006xx0000012345"}, fullSchema(cfg))

	outcomes := checks.RunAll(context.Background(), in)

	want := []string{
		checks.NameO2CNetSuite,
		checks.NameParentSubscription,
		checks.NameSignedQuote,
		checks.NameUpsells,
		checks.NamePriceReset,
		checks.NameAutoRenewedTerm,
		checks.NameCancellation,
		checks.NameARClause,
		checks.NameFieldDiscovery,
	}
	require.Len(t, outcomes, len(want))
	for i, name := range want {
		assert.Equal(t, name, outcomes[i].Name)
	}
}

func TestRunAll_LookupErrorsDowngradeNotAbort(t *testing.T) {
	cfg := domain.DefaultConfig()
	crm := &fakeCRM{
		quotesErr:  errors.New("boom"),
		upsellsErr: errors.New("boom"),
	}
	in := newInput(crm, map[string]any{
		"Id":        "006xx0000012345",
		"AccountId": "001xx000003DGb2AAG",
	}, fullSchema(cfg))

	outcomes := checks.RunAll(context.Background(), in)
	require.Len(t, outcomes, 9)

	quote := outcomeByName(t, outcomes, checks.NameSignedQuote)
	assert.Equal(t, domain.StatusSkip, quote.Status)
	assert.Contains(t, quote.Message, "could not query quotes")

	upsell := outcomeByName(t, outcomes, checks.NameUpsells)
	assert.Equal(t, domain.StatusSkip, upsell.Status)
	assert.Contains(t, upsell.Message, "could not query upsells")
}

func TestRunAll_NoCustomFieldsResolved(t *testing.T) {
	in := newInput(&fakeCRM{}, map[string]any{"Id": "006xx0000012345"}, domain.BaseFields)

	outcomes := checks.RunAll(context.Background(), in)
	require.Len(t, outcomes, 9)

	discovery := outcomeByName(t, outcomes, checks.NameFieldDiscovery)
	assert.Equal(t, domain.StatusInfo, discovery.Status)
	assert.Contains(t, discovery.Message, "Found 0 of")

	o2c := outcomeByName(t, outcomes, checks.NameO2CNetSuite)
	assert.Equal(t, domain.StatusSkip, o2c.Status)
	assert.Contains(t, o2c.Message, "Looked for: O2C_Processed__c")

	// Parent subscription warns rather than skips on an unresolved field.
	parent := outcomeByName(t, outcomes, checks.NameParentSubscription)
	assert.Equal(t, domain.StatusWarning, parent.Status)
}

func TestO2CNetSuite(t *testing.T) {
	cfg := domain.DefaultConfig()
	schema := fullSchema(cfg)

	t.Run("not processed via O2C", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{"O2C_Processed__c": false}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameO2CNetSuite)
		assert.Equal(t, domain.StatusSkip, o.Status)
		assert.Equal(t, "Not processed via O2C", o.Message)
	})

	t.Run("processed but NetSuite ID missing", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{"O2C_Processed__c": true}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameO2CNetSuite)
		assert.Equal(t, domain.StatusFail, o.Status)
		assert.Contains(t, o.Message, "NetSuite ID is missing")
	})

	t.Run("processed with NetSuite ID", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{
			"O2C_Processed__c": true,
			"NetSuite_ID__c":   "NS-4711",
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameO2CNetSuite)
		assert.Equal(t, domain.StatusPass, o.Status)
		assert.Contains(t, o.Message, "NS-4711")
	})
}

func TestSignedQuote_AmountComparison(t *testing.T) {
	cfg := domain.DefaultConfig()
	schema := fullSchema(cfg)

	quote := func(amount float64) domain.Record {
		return domain.NewRecord(map[string]any{
			"Name":               "Q-00042",
			"SBQQ__Status__c":    "Accepted",
			"SBQQ__NetAmount__c": amount,
		})
	}

	t.Run("within tolerance passes", func(t *testing.T) {
		crm := &fakeCRM{quotes: []domain.Record{quote(10000.005)}}
		in := newInput(crm, map[string]any{"Amount": 10000.00}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameSignedQuote)
		assert.Equal(t, domain.StatusPass, o.Status)
	})

	t.Run("outside tolerance warns with difference", func(t *testing.T) {
		crm := &fakeCRM{quotes: []domain.Record{quote(10000.02)}}
		in := newInput(crm, map[string]any{"Amount": 10000.00}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameSignedQuote)
		assert.Equal(t, domain.StatusWarning, o.Status)
		assert.Contains(t, o.Message, "Amount mismatch")

		require.NotNil(t, o.Details)
		diff, ok := o.Details.Get("Difference")
		require.True(t, ok)
		assert.InDelta(t, 0.02, diff.(float64), 0.0001)
	})

	t.Run("no quotes warns", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{"Amount": 100.0}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameSignedQuote)
		assert.Equal(t, domain.StatusWarning, o.Status)
		assert.Equal(t, "No quotes found for this opportunity", o.Message)
	})

	t.Run("no accepted quote lists candidates", func(t *testing.T) {
		crm := &fakeCRM{quotes: []domain.Record{
			domain.NewRecord(map[string]any{"Name": "Q-001", "SBQQ__Status__c": "Draft"}),
			domain.NewRecord(map[string]any{"Name": "Q-002", "SBQQ__Status__c": "Rejected"}),
		}}
		in := newInput(crm, map[string]any{"Amount": 100.0}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameSignedQuote)
		assert.Equal(t, domain.StatusWarning, o.Status)
		assert.Contains(t, o.Message, "2 quote(s) in other statuses")

		require.NotNil(t, o.Details)
		names, ok := o.Details.Get("Available_Quotes")
		require.True(t, ok)
		assert.Equal(t, []string{"Q-001", "Q-002"}, names)
	})

	t.Run("missing amounts downgrade to info", func(t *testing.T) {
		crm := &fakeCRM{quotes: []domain.Record{
			domain.NewRecord(map[string]any{"Name": "Q-00042", "SBQQ__Status__c": "Accepted"}),
		}}
		in := newInput(crm, map[string]any{}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameSignedQuote)
		assert.Equal(t, domain.StatusInfo, o.Status)
		assert.Contains(t, o.Message, "Signed quote found")
	})
}

func TestParentSubscription(t *testing.T) {
	cfg := domain.DefaultConfig()
	schema := fullSchema(cfg)

	t.Run("empty id fails", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameParentSubscription)
		assert.Equal(t, domain.StatusFail, o.Status)
		assert.Equal(t, "Parent Subscription ID is not populated", o.Message)
	})

	t.Run("unknown id fails", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{
			"Parent_Subscription_ID__c": "a0Bxx0000000001",
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameParentSubscription)
		assert.Equal(t, domain.StatusFail, o.Status)
		assert.Contains(t, o.Message, "not found in system")
	})

	t.Run("valid subscription passes", func(t *testing.T) {
		crm := &fakeCRM{subscriptions: []domain.Record{
			domain.NewRecord(map[string]any{"Id": "a0Bxx0000000001", "Name": "SUB-100"}),
		}}
		in := newInput(crm, map[string]any{
			"Parent_Subscription_ID__c": "a0Bxx0000000001",
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameParentSubscription)
		assert.Equal(t, domain.StatusPass, o.Status)
		assert.Contains(t, o.Message, "SUB-100")
	})

	t.Run("lookup failure warns but keeps the id", func(t *testing.T) {
		crm := &fakeCRM{subsErr: errors.New("timeout")}
		in := newInput(crm, map[string]any{
			"Parent_Subscription_ID__c": "a0Bxx0000000001",
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameParentSubscription)
		assert.Equal(t, domain.StatusWarning, o.Status)
		assert.Contains(t, o.Message, "Could not validate subscription")
	})
}

func TestUpsells(t *testing.T) {
	cfg := domain.DefaultConfig()
	schema := fullSchema(cfg)

	t.Run("no account skips", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameUpsells)
		assert.Equal(t, domain.StatusSkip, o.Status)
	})

	t.Run("no open upsells passes", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{"AccountId": "001xx000003DGb2AAG"}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameUpsells)
		assert.Equal(t, domain.StatusPass, o.Status)
	})

	t.Run("open upsells warn with list", func(t *testing.T) {
		crm := &fakeCRM{upsells: []domain.Record{
			domain.NewRecord(map[string]any{"Name": "ACME Upsell Q3", "Amount": 5000.0, "StageName": "Proposal"}),
		}}
		in := newInput(crm, map[string]any{"AccountId": "001xx000003DGb2AAG"}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameUpsells)
		assert.Equal(t, domain.StatusWarning, o.Status)
		assert.Contains(t, o.Message, "Found 1 open upsell")
	})
}

func TestPriceReset(t *testing.T) {
	cfg := domain.DefaultConfig()
	schema := fullSchema(cfg)

	cases := []struct {
		name       string
		oppName    string
		checked    bool
		wantStatus domain.Status
	}{
		{"reset name and checked", "ACME Price Reset FY26", true, domain.StatusPass},
		{"reset name not checked", "ACME price-reset renewal", false, domain.StatusFail},
		{"checked without reset name", "ACME Renewal FY26", true, domain.StatusInfo},
		{"neither", "ACME Renewal FY26", false, domain.StatusSkip},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := newInput(&fakeCRM{}, map[string]any{
				"Name":           tc.oppName,
				"Price_Reset__c": tc.checked,
			}, schema)
			o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NamePriceReset)
			assert.Equal(t, tc.wantStatus, o.Status)
		})
	}
}

func TestCancellation(t *testing.T) {
	cfg := domain.DefaultConfig()
	schema := fullSchema(cfg)

	t.Run("no cancellation skips", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{
			"Cancelled_before_Renewal_Cycle__c": false,
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameCancellation)
		assert.Equal(t, domain.StatusSkip, o.Status)
	})

	t.Run("both issues reported together", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{
			"Cancelled_before_Renewal_Cycle__c": true,
			"StageName":                         "Proposal",
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameCancellation)
		assert.Equal(t, domain.StatusFail, o.Status)
		assert.Contains(t, o.Message, "Cancellation Notice not attached")
		assert.Contains(t, o.Message, "Stage is 'Proposal' - should use Lost Button")
	})

	t.Run("properly documented passes", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{
			"Cancelled_before_Renewal_Cycle__c": true,
			"Cancellation_Notice__c":            "https://files.example.com/notice.pdf",
			"StageName":                         "Closed Lost",
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameCancellation)
		assert.Equal(t, domain.StatusPass, o.Status)
	})

	t.Run("closed lost matching is case-insensitive", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{
			"Cancelled_before_Renewal_Cycle__c": true,
			"Cancellation_Notice__c":            "attached",
			"StageName":                         "CLOSED LOST",
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameCancellation)
		assert.Equal(t, domain.StatusPass, o.Status)
	})
}

func TestARClause(t *testing.T) {
	cfg := domain.DefaultConfig()
	schema := fullSchema(cfg)

	t.Run("no clause skips", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{
			"Auto_Renewal_Clause__c": false,
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameARClause)
		assert.Equal(t, domain.StatusSkip, o.Status)
	})

	t.Run("clause without link fails", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{
			"Auto_Renewal_Clause__c": true,
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameARClause)
		assert.Equal(t, domain.StatusFail, o.Status)
		assert.Contains(t, o.Message, "link is missing")
	})

	t.Run("clause with link passes", func(t *testing.T) {
		in := newInput(&fakeCRM{}, map[string]any{
			"Auto_Renewal_Clause__c":    true,
			"Prev_Quote_w_AR_Clause__c": "a0Qxx0000000042",
		}, schema)
		o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameARClause)
		assert.Equal(t, domain.StatusPass, o.Status)
	})
}

func TestFieldDiscovery_SuggestsNearMisses(t *testing.T) {
	// Schema carries a near-miss for the netsuite key but no exact candidate.
	schema := append([]string{}, domain.BaseFields...)
	schema = append(schema, "NetSuite_Reference__c", "Price_Reset__c")

	in := newInput(&fakeCRM{}, map[string]any{"Id": "006xx0000012345"}, schema)

	o := outcomeByName(t, checks.RunAll(context.Background(), in), checks.NameFieldDiscovery)
	assert.Equal(t, domain.StatusInfo, o.Status)
	assert.Contains(t, o.Message, "Found 1 of")

	require.NotNil(t, o.Details)
	raw, ok := o.Details.Get("Possible_Matches")
	require.True(t, ok)
	matches, ok := raw.(*domain.Details)
	require.True(t, ok)
	suggested, ok := matches.Get(domain.KeyNetSuiteID)
	require.True(t, ok)
	assert.Contains(t, suggested, "NetSuite_Reference__c")
}
