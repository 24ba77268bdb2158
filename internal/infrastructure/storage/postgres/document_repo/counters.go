package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"facture/internal/core/id"
	"facture/internal/core/serial"
	"facture/internal/infrastructure/storage/postgres"
)

// documentTables maps serial entity types to their tables. Counter queries
// refuse unknown types instead of interpolating arbitrary names.
var documentTables = map[string]string{
	"invoice":  "invoices",
	"estimate": "estimates",
	"payment":  "payments",
}

// Compile-time check.
var _ serial.CounterSource = (*CounterRepo)(nil)

// CounterRepo reads document counters for serial number generation. Counters
// include soft-deleted rows, so numbers of removed documents are never
// reissued.
type CounterRepo struct {
	txManager *postgres.TxManager
}

// NewCounterRepo creates a counter source over the document tables.
func NewCounterRepo(txManager *postgres.TxManager) *CounterRepo {
	return &CounterRepo{txManager: txManager}
}

func (r *CounterRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func tableFor(entityType string) (string, error) {
	table, ok := documentTables[entityType]
	if !ok {
		return "", fmt.Errorf("unknown document type %q", entityType)
	}
	return table, nil
}

// LastSequence returns the highest issued sequence number for the company.
func (r *CounterRepo) LastSequence(ctx context.Context, entityType string, companyID id.ID) (int64, bool, error) {
	table, err := tableFor(entityType)
	if err != nil {
		return 0, false, err
	}

	q := r.builder().
		Select("sequence_number").
		From(table).
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("sequence_number DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build query: %w", err)
	}

	var last int64
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("last sequence %s: %w", table, err)
	}
	return last, true, nil
}

// LastCustomerSequence returns the highest issued customer counter. A nil
// customerID addresses the bucket of documents without a customer.
func (r *CounterRepo) LastCustomerSequence(ctx context.Context, entityType string, companyID id.ID, customerID *id.ID) (int64, bool, error) {
	table, err := tableFor(entityType)
	if err != nil {
		return 0, false, err
	}

	q := r.builder().
		Select("customer_sequence_number").
		From(table).
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.NotEq{"customer_sequence_number": nil}).
		OrderBy("customer_sequence_number DESC").
		Limit(1)

	if customerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *customerID})
	} else {
		q = q.Where(squirrel.Eq{"customer_id": nil})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build query: %w", err)
	}

	var last int64
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("last customer sequence %s: %w", table, err)
	}
	return last, true, nil
}

// FindDocument loads the counter columns of a stored document.
func (r *CounterRepo) FindDocument(ctx context.Context, entityType string, docID id.ID) (*serial.DocumentRef, error) {
	table, err := tableFor(entityType)
	if err != nil {
		return nil, err
	}

	q := r.builder().
		Select("id", "sequence_number", "customer_sequence_number", "customer_id").
		From(table).
		Where(squirrel.Eq{"id": docID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ref serial.DocumentRef
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).
		Scan(&ref.ID, &ref.SequenceNumber, &ref.CustomerSequenceNumber, &ref.CustomerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", table, err)
	}
	return &ref, nil
}
