package serial

import (
	"context"

	"facture/internal/core/id"
)

// CustomerRef is the slice of a customer the formatter needs: identity and
// the prefix rendered by {{CUSTOMER_SERIES}}.
type CustomerRef struct {
	ID     id.ID
	Prefix string
}

// DocumentRef is the slice of a stored document the formatter needs when
// re-numbering an existing record.
type DocumentRef struct {
	ID                     id.ID
	SequenceNumber         int64
	CustomerSequenceNumber *int64
	CustomerID             *id.ID
}

// CounterSource reads the highest issued counters for an entity type. The
// customer variant scopes to one customer when customerID is set, and to the
// bucket of documents without a customer when it is nil.
type CounterSource interface {
	LastSequence(ctx context.Context, entityType string, companyID id.ID) (int64, bool, error)
	LastCustomerSequence(ctx context.Context, entityType string, companyID id.ID, customerID *id.ID) (int64, bool, error)

	// FindDocument loads the counter columns of a stored document.
	// Returns (nil, nil) when the document does not exist.
	FindDocument(ctx context.Context, entityType string, docID id.ID) (*DocumentRef, error)
}

// CustomerSource resolves customer references for {{CUSTOMER_SERIES}} and
// per-customer counter scoping. Returns (nil, nil) when the customer does
// not exist.
type CustomerSource interface {
	FindCustomer(ctx context.Context, customerID id.ID) (*CustomerRef, error)
}

// FormatSource resolves the configured number format for an entity type
// within a company. Returns the empty string when nothing is configured.
type FormatSource interface {
	NumberFormat(ctx context.Context, companyID id.ID, entityType string) (string, error)
}
