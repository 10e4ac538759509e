package checks

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/renewalops/renewguard/internal/domain"
)

// checkParentSubscription requires a populated parent subscription id and
// verifies the subscription exists. A lookup failure downgrades to WARNING
// here rather than SKIP: the id is present, it just could not be confirmed.
func checkParentSubscription(ctx context.Context, in Input) (domain.Outcome, error) {
	field, ok := in.Fields.Lookup(domain.KeyParentSubID)
	if !ok {
		return domain.Outcome{
			Status:  domain.StatusWarning,
			Message: fmt.Sprintf("Parent Sub ID field not found. Looked for: %s", lookedFor(in, domain.KeyParentSubID)),
		}, nil
	}

	parentSubID, _ := in.Opportunity.String(field)
	if parentSubID == "" {
		return domain.Outcome{
			Status:  domain.StatusFail,
			Message: "Parent Subscription ID is not populated",
		}, nil
	}

	soql := fmt.Sprintf(
		"SELECT Id, Name, SBQQ__Contract__c FROM SBQQ__Subscription__c WHERE Id = '%s' LIMIT 1",
		domain.SOQLEscape(parentSubID),
	)
	subs, err := in.CRM.Query(ctx, soql)
	if err != nil {
		return domain.Outcome{
			Status:  domain.StatusWarning,
			Message: fmt.Sprintf("Could not validate subscription: %v", err),
			Details: domain.NewDetails("Parent_Sub_ID", parentSubID),
		}, nil
	}
	if len(subs) == 0 {
		return domain.Outcome{
			Status:  domain.StatusFail,
			Message: fmt.Sprintf("Parent Subscription ID %s not found in system", parentSubID),
		}, nil
	}

	name, _ := subs[0].String("Name")
	if name == "" {
		name = parentSubID
	}
	return domain.Outcome{
		Status:  domain.StatusPass,
		Message: fmt.Sprintf("Parent Subscription is valid: %s", name),
		Details: domain.NewDetails("Subscription_ID", parentSubID),
	}, nil
}

// checkSignedQuote compares the opportunity amount to the net amount of the
// most recently created accepted quote.
func checkSignedQuote(ctx context.Context, in Input) (domain.Outcome, error) {
	soql := fmt.Sprintf(
		"SELECT Id, Name, SBQQ__Status__c, SBQQ__NetAmount__c, SBQQ__StartDate__c, SBQQ__EndDate__c "+
			"FROM SBQQ__Quote__c WHERE SBQQ__Opportunity2__c = '%s' ORDER BY CreatedDate DESC",
		domain.SOQLEscape(in.OpportunityID),
	)
	quotes, err := in.CRM.Query(ctx, soql)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("could not query quotes: %v", err)
	}

	if len(quotes) == 0 {
		return domain.Outcome{
			Status:  domain.StatusWarning,
			Message: "No quotes found for this opportunity",
		}, nil
	}

	var signed []domain.Record
	for _, q := range quotes {
		status, _ := q.String("SBQQ__Status__c")
		if isAcceptedStatus(status, in.Config.AcceptedQuoteStatuses) {
			signed = append(signed, q)
		}
	}
	if len(signed) == 0 {
		names := make([]string, 0, 5)
		for _, q := range quotes {
			if len(names) == 5 {
				break
			}
			name, _ := q.String("Name")
			names = append(names, name)
		}
		return domain.Outcome{
			Status:  domain.StatusWarning,
			Message: fmt.Sprintf("No signed/accepted quote found. %d quote(s) in other statuses.", len(quotes)),
			Details: domain.NewDetails("Available_Quotes", names),
		}, nil
	}

	// Quotes are ordered by CreatedDate descending, so the first accepted
	// one is the most recent.
	quote := signed[0]
	quoteName, _ := quote.String("Name")
	quoteAmount, quoteOK := quote.Number("SBQQ__NetAmount__c")
	oppAmount, oppOK := in.Opportunity.Number("Amount")

	if !quoteOK || !oppOK {
		status, _ := quote.String("SBQQ__Status__c")
		return domain.Outcome{
			Status:  domain.StatusInfo,
			Message: fmt.Sprintf("Signed quote found: %s", quoteName),
			Details: domain.NewDetails("Quote_Status", status),
		}, nil
	}

	delta := math.Abs(quoteAmount - oppAmount)
	if delta < in.Config.AmountTolerance {
		return domain.Outcome{
			Status:  domain.StatusPass,
			Message: "Opportunity amount matches signed quote",
			Details: domain.NewDetails(
				"Quote", quoteName,
				"Quote_Amount", quoteAmount,
				"Opp_Amount", oppAmount,
			),
		}, nil
	}
	return domain.Outcome{
		Status:  domain.StatusWarning,
		Message: fmt.Sprintf("Amount mismatch between Opp (%v) and Quote (%v)", oppAmount, quoteAmount),
		Details: domain.NewDetails(
			"Quote", quoteName,
			"Quote_Amount", quoteAmount,
			"Opp_Amount", oppAmount,
			"Difference", delta,
		),
	}, nil
}

// checkUpsells looks for open upsell/expansion siblings on the same account
// that the renewal may need to absorb.
func checkUpsells(ctx context.Context, in Input) (domain.Outcome, error) {
	accountID, _ := in.Opportunity.String("AccountId")
	if accountID == "" {
		return domain.Outcome{
			Status:  domain.StatusSkip,
			Message: "No account associated with this opportunity",
		}, nil
	}

	soql := fmt.Sprintf(
		"SELECT Id, Name, Amount, StageName, Type, CloseDate FROM Opportunity "+
			"WHERE AccountId = '%s' AND Id != '%s' AND (%s) AND IsClosed = false "+
			"ORDER BY CloseDate DESC LIMIT 10",
		domain.SOQLEscape(accountID),
		domain.SOQLEscape(in.OpportunityID),
		typeLikeClause(in.Config.UpsellTypeKeywords),
	)
	upsells, err := in.CRM.Query(ctx, soql)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("could not query upsells: %v", err)
	}

	if len(upsells) == 0 {
		return domain.Outcome{
			Status:  domain.StatusPass,
			Message: "No open upsell/expansion opportunities found",
		}, nil
	}

	list := make([]*domain.Details, 0, len(upsells))
	for _, u := range upsells {
		name, _ := u.String("Name")
		amount, _ := u.Raw("Amount")
		stage, _ := u.String("StageName")
		closeDate, _ := u.String("CloseDate")
		list = append(list, domain.NewDetails(
			"Name", name,
			"Amount", amount,
			"Stage", stage,
			"Close_Date", closeDate,
		))
	}
	return domain.Outcome{
		Status:  domain.StatusWarning,
		Message: fmt.Sprintf("Found %d open upsell/expansion opportunities - ensure they're included in renewal", len(upsells)),
		Details: domain.NewDetails("Upsells", list),
	}, nil
}

func isAcceptedStatus(status string, accepted []string) bool {
	for _, s := range accepted {
		if status == s {
			return true
		}
	}
	return false
}

func typeLikeClause(keywords []string) string {
	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		parts = append(parts, fmt.Sprintf("Type LIKE '%%%s%%'", domain.SOQLEscape(kw)))
	}
	return strings.Join(parts, " OR ")
}
