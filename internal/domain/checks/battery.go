// Package checks implements the renewal validation battery: a fixed-order
// sequence of independent checks over one resolved opportunity record.
package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/renewalops/renewguard/internal/domain"
)

// Check names as they appear in reports. Order of definition in Battery is
// the report order.
const (
	NameO2CNetSuite        = "O2C - NetSuite ID"
	NameParentSubscription = "Parent Subscription ID"
	NameSignedQuote        = "Renewal Data vs Signed Quote"
	NameUpsells            = "Upsells in Current Term"
	NamePriceReset         = "Price Reset Checkbox"
	NameAutoRenewedTerm    = "Auto-Renewed Last Term"
	NameCancellation       = "Cancellation Handling"
	NameARClause           = "Auto-Renewal Clause"
	NameFieldDiscovery     = "Field Discovery"
)

// Input is the shared, read-only state every check receives: the primary
// record, the resolved field map, and a client for secondary lookups.
type Input struct {
	CRM           domain.CRMClient
	Config        domain.Config
	OpportunityID string
	Opportunity   domain.Record
	Fields        domain.ResolvedFields
	// Schema holds the object's live field names, used by field discovery
	// to suggest near-miss fields for unresolved keys.
	Schema []string
}

// RunFunc evaluates one check. A non-nil error means a recoverable secondary
// lookup failure; the battery downgrades it to the check's OnError status
// instead of aborting the batch.
type RunFunc func(ctx context.Context, in Input) (domain.Outcome, error)

// Check couples a report name with its evaluation function and the status a
// recoverable error downgrades to.
type Check struct {
	Name    string
	Run     RunFunc
	OnError domain.Status
}

// Battery returns the checks in their fixed execution order.
func Battery() []Check {
	return []Check{
		{Name: NameO2CNetSuite, Run: checkO2CNetSuite, OnError: domain.StatusSkip},
		{Name: NameParentSubscription, Run: checkParentSubscription, OnError: domain.StatusWarning},
		{Name: NameSignedQuote, Run: checkSignedQuote, OnError: domain.StatusSkip},
		{Name: NameUpsells, Run: checkUpsells, OnError: domain.StatusSkip},
		{Name: NamePriceReset, Run: checkPriceReset, OnError: domain.StatusSkip},
		{Name: NameAutoRenewedTerm, Run: checkAutoRenewedLastTerm, OnError: domain.StatusSkip},
		{Name: NameCancellation, Run: checkCancellation, OnError: domain.StatusSkip},
		{Name: NameARClause, Run: checkARClause, OnError: domain.StatusSkip},
	}
}

// RunAll executes every check in order and appends the synthetic field
// discovery outcome last. A failure inside one check never prevents the
// rest from running; the result always has len(Battery())+1 outcomes.
func RunAll(ctx context.Context, in Input) []domain.Outcome {
	battery := Battery()
	outcomes := make([]domain.Outcome, 0, len(battery)+1)
	for _, c := range battery {
		out, err := c.Run(ctx, in)
		if err != nil {
			out = domain.Outcome{Status: c.OnError, Message: err.Error()}
		}
		out.Name = c.Name
		outcomes = append(outcomes, out)
	}
	outcomes = append(outcomes, fieldDiscovery(in))
	return outcomes
}

// lookedFor renders the candidate names tried for an unresolved logical key,
// so operators can see exactly which physical names were probed.
func lookedFor(in Input, key string) string {
	return strings.Join(in.Config.Candidates[key], ", ")
}

func skipUnresolved(in Input, key, label string) domain.Outcome {
	return domain.Outcome{
		Status:  domain.StatusSkip,
		Message: fmt.Sprintf("%s field not found. Looked for: %s", label, lookedFor(in, key)),
	}
}
