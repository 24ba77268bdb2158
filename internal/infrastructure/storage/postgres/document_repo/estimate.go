package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facture/internal/core/id"
	"facture/internal/domain"
	"facture/internal/domain/documents/estimate"
	"facture/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ estimate.Repository = (*EstimateRepo)(nil)

// EstimateRepo is the PostgreSQL repository for estimates.
type EstimateRepo struct {
	*BaseDocumentRepo[*estimate.Estimate]
}

// NewEstimateRepo creates an estimate repository.
func NewEstimateRepo(txManager *postgres.TxManager) *EstimateRepo {
	return &EstimateRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"estimates",
			postgres.ExtractDBColumns[estimate.Estimate](),
			func() *estimate.Estimate { return &estimate.Estimate{} },
		),
	}
}

// GetLines loads the estimate's lines ordered by line number.
func (r *EstimateRepo) GetLines(ctx context.Context, docID id.ID) ([]estimate.Line, error) {
	q := r.Builder().
		Select("line_id", "line_no", "name", "description", "quantity", "price", "tax_rate", "tax_amount", "amount").
		From("estimate_lines").
		Where(squirrel.Eq{"estimate_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	lines := make([]estimate.Line, 0)
	if err := pgxscan.Select(ctx, r.Querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get estimate lines: %w", err)
	}
	return lines, nil
}

// SaveLines replaces the estimate's lines.
func (r *EstimateRepo) SaveLines(ctx context.Context, docID id.ID, lines []estimate.Line) error {
	querier := r.Querier(ctx)

	delSQL, delArgs, err := r.Builder().
		Delete("estimate_lines").
		Where(squirrel.Eq{"estimate_id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete estimate lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	ins := r.Builder().
		Insert("estimate_lines").
		Columns("line_id", "estimate_id", "line_no", "name", "description", "quantity", "price", "tax_rate", "tax_amount", "amount")
	for _, line := range lines {
		ins = ins.Values(line.LineID, docID, line.LineNo, line.Name, line.Description,
			line.Quantity, line.Price, line.TaxRate, line.TaxAmount, line.Amount)
	}

	sql, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert estimate lines: %w", err)
	}
	return nil
}

// List retrieves estimates with filtering and pagination.
func (r *EstimateRepo) List(ctx context.Context, f estimate.ListFilter) (domain.ListResult[*estimate.Estimate], error) {
	result := domain.ListResult[*estimate.Estimate]{
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
	q = applyDateRange(q, f.DateFrom, f.DateTo)

	total, err := r.CountAndSelect(ctx, q, f.OrderBy, f.Limit, f.Offset, &result.Items)
	if err != nil {
		return result, err
	}
	result.TotalCount = total
	return result, nil
}
