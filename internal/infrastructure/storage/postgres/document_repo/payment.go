package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"facture/internal/domain"
	"facture/internal/domain/documents/payment"
	"facture/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ payment.Repository = (*PaymentRepo)(nil)

// PaymentRepo is the PostgreSQL repository for payments.
type PaymentRepo struct {
	*BaseDocumentRepo[*payment.Payment]
}

// NewPaymentRepo creates a payment repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"payments",
			postgres.ExtractDBColumns[payment.Payment](),
			func() *payment.Payment { return &payment.Payment{} },
		),
	}
}

// List retrieves payments with filtering and pagination.
func (r *PaymentRepo) List(ctx context.Context, f payment.ListFilter) (domain.ListResult[*payment.Payment], error) {
	result := domain.ListResult[*payment.Payment]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q, err := r.BaseSelect(ctx)
	if err != nil {
		return result, err
	}

	if !f.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if f.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + f.Search + "%"})
	}
	if f.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *f.CustomerID})
	}
	if f.InvoiceID != nil {
		q = q.Where(squirrel.Eq{"invoice_id": *f.InvoiceID})
	}
	if f.Method != nil {
		q = q.Where(squirrel.Eq{"method": *f.Method})
	}
	q = applyDateRange(q, f.DateFrom, f.DateTo)

	total, err := r.CountAndSelect(ctx, q, f.OrderBy, f.Limit, f.Offset, &result.Items)
	if err != nil {
		return result, err
	}
	result.TotalCount = total
	return result, nil
}
