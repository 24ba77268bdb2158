// Package documents provides shared behavior for numbered documents:
// serial number assignment and common status plumbing used by the invoice,
// estimate and payment packages.
package documents

import (
	"context"

	"facture/internal/core/entity"
	"facture/internal/core/id"
	"facture/internal/core/serial"
)

// Entity type names used for counters and number format settings.
const (
	EntityInvoice  = "invoice"
	EntityEstimate = "estimate"
	EntityPayment  = "payment"
)

// Numbering assigns serial numbers to documents. One Numbering instance is
// shared by all document services; each assignment builds a fresh formatter.
type Numbering struct {
	counters  serial.CounterSource
	customers serial.CustomerSource
	formats   serial.FormatSource
}

// NewNumbering creates the numbering helper over the given sources.
func NewNumbering(counters serial.CounterSource, customers serial.CustomerSource, formats serial.FormatSource) *Numbering {
	return &Numbering{counters: counters, customers: customers, formats: formats}
}

// Assign renders the next number for doc and stores it together with the
// counters it consumed. For an existing document (update path) the stored
// counters are reused, so renumbering is idempotent; a fresh document draws
// new ones. formatOverride, when non-empty, wins over the company setting.
func (n *Numbering) Assign(ctx context.Context, entityType string, doc *entity.Document, formatOverride string, existing bool) error {
	f := serial.NewFormatter(n.counters, n.customers, n.formats).
		ForEntity(entityType).
		ForCompany(doc.CompanyID).
		WithFormat(formatOverride)

	if err := f.SetCustomer(ctx, doc.CustomerID); err != nil {
		return err
	}
	if existing {
		if err := f.SetExistingDocument(ctx, doc.ID); err != nil {
			return err
		}
	}

	number, err := f.NextNumber(ctx)
	if err != nil {
		return err
	}

	doc.Number = number
	if seq, ok := f.NextSequence(); ok {
		doc.SequenceNumber = seq
	}
	if custSeq, ok := f.NextCustomerSequence(); ok {
		doc.CustomerSequenceNumber = &custSeq
	}
	return nil
}

// Preview renders the number the next document would receive without
// persisting anything.
func (n *Numbering) Preview(ctx context.Context, entityType string, companyID id.ID, customerID *id.ID, formatOverride string) (string, error) {
	f := serial.NewFormatter(n.counters, n.customers, n.formats).
		ForEntity(entityType).
		ForCompany(companyID).
		WithFormat(formatOverride)

	if err := f.SetCustomer(ctx, customerID); err != nil {
		return "", err
	}
	return f.NextNumber(ctx)
}
