package domain

import "fmt"

// Logical field keys the validation rules depend on.
const (
	KeyNetSuiteID            = "netsuite_id"
	KeyParentSubID           = "parent_sub_id"
	KeyPriceReset            = "price_reset"
	KeyAutoRenewedLastTerm   = "auto_renewed_last_term"
	KeyCancelledBeforeRenew  = "cancelled_before_renewal"
	KeyCancellationNotice    = "cancellation_notice"
	KeyAutoRenewalClause     = "auto_renewal_clause"
	KeyPrevQuoteARClause     = "prev_quote_ar_clause"
	KeyO2CProcessed          = "o2c_processed"
	KeySubscriptionID        = "subscription_id"
	KeyPreviousQuote         = "previous_quote"
)

// ValidLogicalKeys enumerates every logical key the engine understands.
var ValidLogicalKeys = []string{
	KeyNetSuiteID, KeyParentSubID, KeyPriceReset,
	KeyAutoRenewedLastTerm, KeyCancelledBeforeRenew, KeyCancellationNotice,
	KeyAutoRenewalClause, KeyPrevQuoteARClause, KeyO2CProcessed,
	KeySubscriptionID, KeyPreviousQuote,
}

// ValidStages enumerates the opportunity stage names accepted by the stage
// update operation.
var ValidStages = []string{
	"Pending",
	"Outreach",
	"Engaged",
	"Proposal",
	"Quote Follow-Up",
	"Finalizing",
	"Closed Won",
	"Closed Lost",
}

// IsValidStage reports whether name is an accepted stage value.
func IsValidStage(name string) bool {
	for _, s := range ValidStages {
		if s == name {
			return true
		}
	}
	return false
}

// Config holds the tenant-tunable parts of the validation engine. Candidate
// lists differ between orgs because custom fields were named by different
// admins; everything here can be overridden from .renewguard.yaml.
type Config struct {
	// Candidates maps logical keys to ranked physical field name candidates.
	Candidates CandidateMap `yaml:"candidates" json:"candidates,omitempty"`

	// AcceptedQuoteStatuses are the quote statuses that count as signed.
	AcceptedQuoteStatuses []string `yaml:"accepted_quote_statuses" json:"accepted_quote_statuses,omitempty"`

	// ClosedLostStages are stage names treated as closed-lost equivalents,
	// compared case-insensitively.
	ClosedLostStages []string `yaml:"closed_lost_stages" json:"closed_lost_stages,omitempty"`

	// UpsellTypeKeywords are substrings matched against the opportunity Type
	// when searching for open sibling upsell deals.
	UpsellTypeKeywords []string `yaml:"upsell_type_keywords" json:"upsell_type_keywords,omitempty"`

	// AmountTolerance is the absolute difference allowed between the
	// opportunity amount and the signed quote's net amount.
	AmountTolerance float64 `yaml:"amount_tolerance" json:"amount_tolerance,omitempty"`
}

// BaseFields are the standard opportunity fields queried on every run,
// independent of schema discovery.
var BaseFields = []string{
	"Id", "Name", "StageName", "AccountId", "Amount",
	"CloseDate", "Type", "IsClosed", "IsWon",
}

// DefaultConfig returns the stock candidate lists and rule tunables.
func DefaultConfig() Config {
	return Config{
		Candidates: CandidateMap{
			KeyNetSuiteID:           {"NetSuite_ID__c", "NetSuiteID__c", "Netsuite_Id__c", "NS_ID__c", "NetSuite_Internal_ID__c"},
			KeyParentSubID:          {"Parent_Subscription_ID__c", "Parent_Sub_ID__c", "ParentSubscriptionId__c", "Parent_Subscription__c"},
			KeyPriceReset:           {"Price_Reset__c", "Is_Price_Reset__c", "PriceReset__c"},
			KeyAutoRenewedLastTerm:  {"Auto_Renewed_Last_Term__c", "AutoRenewedLastTerm__c", "Auto_Renewal_Last_Term__c"},
			KeyCancelledBeforeRenew: {"Cancelled_before_Renewal_Cycle__c", "Cancelled_Before_Renewal__c", "CancelledBeforeRenewal__c"},
			KeyCancellationNotice:   {"Cancellation_Notice__c", "CancellationNotice__c", "Cancellation_Notice_Link__c"},
			KeyAutoRenewalClause:    {"Auto_Renewal_Clause__c", "AutoRenewalClause__c", "AR_Clause__c"},
			KeyPrevQuoteARClause:    {"Prev_Quote_w_AR_Clause__c", "Previous_Quote_AR_Clause__c", "Prev_Quote_AR__c"},
			KeyO2CProcessed:         {"O2C_Processed__c", "Processed_via_O2C__c", "O2C__c"},
			KeySubscriptionID:       {"SBQQ__RenewedContract__c", "Subscription__c", "Subscription_ID__c", "CPQ_Subscription__c"},
			KeyPreviousQuote:        {"Previous_Quote__c", "Prev_Quote__c", "Prior_Quote__c", "SBQQ__RenewedQuote__c"},
		},
		AcceptedQuoteStatuses: []string{"Accepted", "Signed", "Approved"},
		ClosedLostStages:      []string{"closed lost", "lost", "cancelled"},
		UpsellTypeKeywords:    []string{"Upsell", "Expansion", "Add-on"},
		AmountTolerance:       0.01,
	}
}

// Validate checks the config for typos and unusable values.
func (c Config) Validate() error {
	for key, names := range c.Candidates {
		if !isValidLogicalKey(key) {
			return fmt.Errorf("unknown logical key %q in candidates", key)
		}
		if len(names) == 0 {
			return fmt.Errorf("candidates for %q must not be empty", key)
		}
		for _, n := range names {
			if n == "" {
				return fmt.Errorf("candidates for %q contain an empty field name", key)
			}
		}
	}
	if c.AmountTolerance < 0 {
		return fmt.Errorf("amount_tolerance must be >= 0 (got %g)", c.AmountTolerance)
	}
	return nil
}

// Merge overlays explicit overrides on top of the receiver. Overridden
// candidate lists replace the stock list per key; other non-zero fields
// replace wholesale.
func (c Config) Merge(override Config) Config {
	result := c
	if len(override.Candidates) > 0 {
		merged := make(CandidateMap, len(c.Candidates))
		for k, v := range c.Candidates {
			merged[k] = v
		}
		for k, v := range override.Candidates {
			merged[k] = v
		}
		result.Candidates = merged
	}
	if len(override.AcceptedQuoteStatuses) > 0 {
		result.AcceptedQuoteStatuses = override.AcceptedQuoteStatuses
	}
	if len(override.ClosedLostStages) > 0 {
		result.ClosedLostStages = override.ClosedLostStages
	}
	if len(override.UpsellTypeKeywords) > 0 {
		result.UpsellTypeKeywords = override.UpsellTypeKeywords
	}
	if override.AmountTolerance > 0 {
		result.AmountTolerance = override.AmountTolerance
	}
	return result
}

func isValidLogicalKey(key string) bool {
	for _, k := range ValidLogicalKeys {
		if k == key {
			return true
		}
	}
	return false
}
