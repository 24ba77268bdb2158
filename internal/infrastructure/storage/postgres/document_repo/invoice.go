package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facture/internal/core/id"
	"facture/internal/domain"
	"facture/internal/domain/documents/invoice"
	"facture/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ invoice.Repository = (*InvoiceRepo)(nil)

// InvoiceRepo is the PostgreSQL repository for invoices.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

// NewInvoiceRepo creates an invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"invoices",
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
	}
}

// GetLines loads the invoice's lines ordered by line number.
func (r *InvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]invoice.Line, error) {
	q := r.Builder().
		Select("line_id", "line_no", "name", "description", "quantity", "price", "tax_rate", "tax_amount", "amount").
		From("invoice_lines").
		Where(squirrel.Eq{"invoice_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := make([]invoice.Line, 0)
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	return lines, nil
}

// SaveLines replaces the invoice's lines.
func (r *InvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []invoice.Line) error {
	querier := r.Querier(ctx)

	delSQL, delArgs, err := r.Builder().
		Delete("invoice_lines").
		Where(squirrel.Eq{"invoice_id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	ins := r.Builder().
		Insert("invoice_lines").
		Columns("line_id", "invoice_id", "line_no", "name", "description", "quantity", "price", "tax_rate", "tax_amount", "amount")
	for _, line := range lines {
		ins = ins.Values(line.LineID, docID, line.LineNo, line.Name, line.Description,
			line.Quantity, line.Price, line.TaxRate, line.TaxAmount, line.Amount)
	}

	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert invoice lines: %w", err)
	}
	return nil
}

// List retrieves invoices with filtering and pagination.
func (r *InvoiceRepo) List(ctx context.Context, f invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
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
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.PaidStatus != nil {
		q = q.Where(squirrel.Eq{"paid_status": *f.PaidStatus})
	}
	q = applyDateRange(q, f.DateFrom, f.DateTo)

	total, err := r.CountAndSelect(ctx, q, f.OrderBy, f.Limit, f.Offset, &result.Items)
	if err != nil {
		return result, err
	}
	result.TotalCount = total
	return result, nil
}

func applyDateRange(q squirrel.SelectBuilder, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		q = q.Where(squirrel.GtOrEq{"date": *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{"date": *to})
	}
	return q
}
