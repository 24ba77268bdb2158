package entity

import (
	"context"
	"time"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
)

// Document is the base type for numbered business documents.
// Examples: Invoice, Estimate, Payment.
type Document struct {
	BaseDocument

	// Number is the rendered serial number (unique within company)
	Number string `db:"number" json:"number"`

	// SequenceNumber is the raw global counter value the number was
	// rendered from. Stored so that the next document can be derived as
	// last + 1 without parsing Number.
	SequenceNumber int64 `db:"sequence_number" json:"sequenceNumber"`

	// CustomerSequenceNumber is the per-customer counter value, if the
	// document belongs to a customer.
	CustomerSequenceNumber *int64 `db:"customer_sequence_number" json:"customerSequenceNumber,omitempty"`

	// CustomerID references the customer the document was issued to.
	// Nil for customer-less documents (e.g. walk-in payments).
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Notes is an optional user note
	Notes string `db:"notes" json:"notes,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument(companyID id.ID) Document {
	return Document{
		BaseDocument: NewBaseDocument(companyID),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}

// SetCustomer assigns the customer reference.
func (d *Document) SetCustomer(customerID id.ID) {
	if id.IsNil(customerID) {
		d.CustomerID = nil
		return
	}
	d.CustomerID = &customerID
}

// BelongsTo reports whether the document is issued to the given customer.
func (d *Document) BelongsTo(customerID id.ID) bool {
	return d.CustomerID != nil && *d.CustomerID == customerID
}
