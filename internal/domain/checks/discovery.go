package checks

import (
	"fmt"

	"github.com/renewalops/renewguard/internal/domain"
)

// fieldDiscovery reports which logical keys the schema resolver could back
// with a live field. It is operator metadata for diagnosing schema drift,
// not a business check, and is always appended last.
func fieldDiscovery(in Input) domain.Outcome {
	keys := in.Config.Candidates.Keys()

	found := domain.NewDetails()
	for _, key := range keys {
		if name, ok := in.Fields.Lookup(key); ok {
			found.Set(key, name)
		}
	}
	missing := in.Fields.Missing()

	details := domain.NewDetails(
		"Found_Fields", found,
		"Missing_Fields", missing,
	)

	// Offer near-miss schema fields for unresolved keys so operators can
	// extend the candidate lists instead of guessing.
	suggestions := domain.NewDetails()
	for _, key := range missing {
		if matches := domain.SuggestFields(key, in.Schema); len(matches) > 0 {
			suggestions.Set(key, matches)
		}
	}
	if suggestions.Len() > 0 {
		details.Set("Possible_Matches", suggestions)
	}

	return domain.Outcome{
		Name:    NameFieldDiscovery,
		Status:  domain.StatusInfo,
		Message: fmt.Sprintf("Found %d of %d expected custom fields", found.Len(), len(keys)),
		Details: details,
	}
}
