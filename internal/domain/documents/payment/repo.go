package payment

import (
	"context"
	"time"

	"facture/internal/core/id"
	"facture/internal/domain"
)

// Repository defines operations for payment documents.
type Repository interface {
	Create(ctx context.Context, doc *Payment) error
	GetByID(ctx context.Context, docID id.ID) (*Payment, error)
	GetByNumber(ctx context.Context, number string) (*Payment, error)
	Update(ctx context.Context, doc *Payment) error
	SetDeletionMark(ctx context.Context, docID id.ID, marked bool) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error)
}

// ListFilter for filtering payments.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
	InvoiceID  *id.ID
	Method     *Method
	DateFrom   *time.Time
	DateTo     *time.Time
}
