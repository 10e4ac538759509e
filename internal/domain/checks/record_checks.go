package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/renewalops/renewguard/internal/domain"
)

// checkO2CNetSuite requires a populated NetSuite identifier once the
// order-to-cash flag is set. Nothing to verify when O2C has not run.
func checkO2CNetSuite(_ context.Context, in Input) (domain.Outcome, error) {
	o2cField, ok := in.Fields.Lookup(domain.KeyO2CProcessed)
	if !ok {
		return skipUnresolved(in, domain.KeyO2CProcessed, "O2C"), nil
	}
	if !in.Opportunity.Truthy(o2cField) {
		return domain.Outcome{Status: domain.StatusSkip, Message: "Not processed via O2C"}, nil
	}

	nsField, ok := in.Fields.Lookup(domain.KeyNetSuiteID)
	if !ok {
		return domain.Outcome{
			Status:  domain.StatusWarning,
			Message: fmt.Sprintf("NetSuite ID field not found. Looked for: %s", lookedFor(in, domain.KeyNetSuiteID)),
		}, nil
	}

	netsuiteID, _ := in.Opportunity.String(nsField)
	if netsuiteID == "" {
		return domain.Outcome{
			Status:  domain.StatusFail,
			Message: "O2C processed but NetSuite ID is missing - should point to valid draft Renewal sub",
		}, nil
	}
	return domain.Outcome{
		Status:  domain.StatusPass,
		Message: fmt.Sprintf("NetSuite ID is populated: %s", netsuiteID),
		Details: domain.NewDetails("NetSuite_ID", netsuiteID),
	}, nil
}

// checkPriceReset cross-checks the price-reset checkbox against a name
// heuristic: an opportunity named like a price reset must have the box set.
func checkPriceReset(_ context.Context, in Input) (domain.Outcome, error) {
	field, ok := in.Fields.Lookup(domain.KeyPriceReset)
	if !ok {
		return skipUnresolved(in, domain.KeyPriceReset, "Price Reset"), nil
	}

	name, _ := in.Opportunity.String("Name")
	lower := strings.ToLower(name)
	likelyReset := strings.Contains(lower, "price reset") || strings.Contains(lower, "price-reset")
	checked := in.Opportunity.Truthy(field)

	switch {
	case likelyReset && checked:
		return domain.Outcome{Status: domain.StatusPass, Message: "Price Reset checkbox is checked"}, nil
	case likelyReset:
		return domain.Outcome{
			Status:  domain.StatusFail,
			Message: "This appears to be a Price Reset opportunity but checkbox is NOT checked",
		}, nil
	case checked:
		return domain.Outcome{Status: domain.StatusInfo, Message: "Price Reset checkbox is checked"}, nil
	default:
		return domain.Outcome{Status: domain.StatusSkip, Message: "Not a Price Reset opportunity"}, nil
	}
}

// checkAutoRenewedLastTerm is purely informational.
func checkAutoRenewedLastTerm(_ context.Context, in Input) (domain.Outcome, error) {
	field, ok := in.Fields.Lookup(domain.KeyAutoRenewedLastTerm)
	if !ok {
		return domain.Outcome{
			Status:  domain.StatusSkip,
			Message: fmt.Sprintf("Field not found. Looked for: %s", lookedFor(in, domain.KeyAutoRenewedLastTerm)),
		}, nil
	}

	autoRenewed := in.Opportunity.Truthy(field)
	label := "No"
	if autoRenewed {
		label = "Yes"
	}
	return domain.Outcome{
		Status:  domain.StatusInfo,
		Message: fmt.Sprintf("Auto-Renewed Last Term: %s", label),
		Details: domain.NewDetails("Value", autoRenewed),
	}, nil
}

// checkCancellation verifies that a cancelled renewal carries its notice and
// was closed through the lost path. An unresolved notice field counts the
// same as an empty one: the notice cannot be shown to be attached.
func checkCancellation(_ context.Context, in Input) (domain.Outcome, error) {
	cancelledField, ok := in.Fields.Lookup(domain.KeyCancelledBeforeRenew)
	if !ok {
		return skipUnresolved(in, domain.KeyCancelledBeforeRenew, "Cancellation"), nil
	}
	if !in.Opportunity.Truthy(cancelledField) {
		return domain.Outcome{Status: domain.StatusSkip, Message: "Customer did not send cancellation"}, nil
	}

	var issues []string
	details := domain.NewDetails("Cancelled_Before_Renewal", true)

	noticeAttached := false
	if noticeField, ok := in.Fields.Lookup(domain.KeyCancellationNotice); ok {
		if notice, _ := in.Opportunity.String(noticeField); notice != "" {
			details.Set("Cancellation_Notice", notice)
			noticeAttached = true
		}
	}
	if !noticeAttached {
		issues = append(issues, "Cancellation Notice not attached")
	}

	stage, _ := in.Opportunity.String("StageName")
	if isClosedLostStage(stage, in.Config.ClosedLostStages) {
		details.Set("Stage", stage)
	} else {
		issues = append(issues, fmt.Sprintf("Stage is '%s' - should use Lost Button", stage))
	}

	if len(issues) > 0 {
		return domain.Outcome{
			Status:  domain.StatusFail,
			Message: fmt.Sprintf("Cancellation issues: %s", strings.Join(issues, "; ")),
			Details: details,
		}, nil
	}
	return domain.Outcome{
		Status:  domain.StatusPass,
		Message: "Cancellation properly documented",
		Details: details,
	}, nil
}

// checkARClause requires provenance for an auto-renewal clause: the quote
// that introduced it must be linked.
func checkARClause(_ context.Context, in Input) (domain.Outcome, error) {
	clauseField, ok := in.Fields.Lookup(domain.KeyAutoRenewalClause)
	if !ok {
		return skipUnresolved(in, domain.KeyAutoRenewalClause, "AR Clause"), nil
	}
	if !in.Opportunity.Truthy(clauseField) {
		return domain.Outcome{Status: domain.StatusSkip, Message: "Previous quote does not have AR clause"}, nil
	}

	linkField, ok := in.Fields.Lookup(domain.KeyPrevQuoteARClause)
	if !ok {
		return domain.Outcome{
			Status:  domain.StatusWarning,
			Message: "AR Clause is checked. Could not verify prev quote link field.",
			Details: domain.NewDetails("AR_Clause", true),
		}, nil
	}

	link, _ := in.Opportunity.String(linkField)
	if link == "" {
		return domain.Outcome{
			Status:  domain.StatusFail,
			Message: "AR Clause is checked but 'Prev Quote w/ AR Clause' link is missing",
		}, nil
	}
	return domain.Outcome{
		Status:  domain.StatusPass,
		Message: "AR Clause checked and previous quote link provided",
		Details: domain.NewDetails("AR_Clause", true, "Prev_Quote_Link", link),
	}, nil
}

func isClosedLostStage(stage string, closedLost []string) bool {
	lower := strings.ToLower(stage)
	for _, s := range closedLost {
		if lower == strings.ToLower(s) {
			return true
		}
	}
	return false
}
