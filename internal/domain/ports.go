package domain

import (
	"context"
	"errors"
)

// ErrMissingOpportunityID is returned when a caller omits the opportunity id.
// This is a caller-level error, distinct from "not found" once querying has
// started.
var ErrMissingOpportunityID = errors.New("opportunity_id is required")

// ErrNotFound is returned by point lookups when the CRM reports no such
// record.
var ErrNotFound = errors.New("record not found")

// CRMClient executes structured queries and point lookups against the CRM.
// Describe and query failures surface as errors; a not-found point lookup is
// signaled through Get's found flag, not an error.
type CRMClient interface {
	// Describe returns the field names defined on an object type.
	Describe(ctx context.Context, object string) ([]string, error)

	// Query runs a SOQL query and returns the matching records in order.
	Query(ctx context.Context, soql string) ([]Record, error)

	// Get fetches a single record by resource path. found is false on a
	// not-found response.
	Get(ctx context.Context, path string) (rec Record, found bool, err error)
}

// CRMWriter creates and updates CRM records. Kept separate from CRMClient so
// the validation engine stays read-only by construction.
type CRMWriter interface {
	// Create inserts a record and returns its new id.
	Create(ctx context.Context, object string, fields map[string]any) (string, error)

	// Update patches fields on an existing record.
	Update(ctx context.Context, object, id string, fields map[string]any) error
}

// ConfigLoader loads the tenant configuration, falling back to defaults when
// no config file exists.
type ConfigLoader interface {
	Load(dir string) (Config, error)
}
