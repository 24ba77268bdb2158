package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
	"facture/internal/domain/company"
)

// Compile-time checks.
var (
	_ company.Repository         = (*CompanyRepo)(nil)
	_ company.SettingsRepository = (*SettingsRepo)(nil)
)

var companyCols = []string{"id", "name", "currency", "owner_id", "created_at", "updated_at"}

// CompanyRepo is the PostgreSQL repository for companies. Companies are the
// tenant boundary itself, so queries here are not company-scoped.
type CompanyRepo struct {
	txManager *TxManager
}

// NewCompanyRepo creates a company repository.
func NewCompanyRepo(txManager *TxManager) *CompanyRepo {
	return &CompanyRepo{txManager: txManager}
}

func (r *CompanyRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a company.
func (r *CompanyRepo) Create(ctx context.Context, c *company.Company) error {
	q := r.builder().
		Insert("companies").
		Columns(companyCols...).
		Values(c.ID, c.Name, c.Currency, c.OwnerID, c.CreatedAt, c.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return MapWriteError(fmt.Errorf("insert company: %w", err), "company")
	}
	return nil
}

// GetByID retrieves a company.
func (r *CompanyRepo) GetByID(ctx context.Context, companyID id.ID) (*company.Company, error) {
	q := r.builder().
		Select(companyCols...).
		From("companies").
		Where(squirrel.Eq{"id": companyID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c company.Company
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("company", companyID.String())
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Update persists company changes.
func (r *CompanyRepo) Update(ctx context.Context, c *company.Company) error {
	q := r.builder().
		Update("companies").
		Set("name", c.Name).
		Set("currency", c.Currency).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("company", c.ID.String())
	}
	return nil
}

// ListByOwner returns the companies owned by a user.
func (r *CompanyRepo) ListByOwner(ctx context.Context, ownerID id.ID) ([]*company.Company, error) {
	q := r.builder().
		Select(companyCols...).
		From("companies").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	companies := make([]*company.Company, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &companies, sql, args...); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// SettingsRepo is the PostgreSQL repository for company settings.
type SettingsRepo struct {
	txManager *TxManager
}

// NewSettingsRepo creates a settings repository.
func NewSettingsRepo(txManager *TxManager) *SettingsRepo {
	return &SettingsRepo{txManager: txManager}
}

func (r *SettingsRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Get returns the value for key, with found=false when unset.
func (r *SettingsRepo) Get(ctx context.Context, companyID id.ID, key string) (string, bool, error) {
	q := r.builder().
		Select("value").
		From("company_settings").
		Where(squirrel.Eq{"company_id": companyID, "key": key}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build query: %w", err)
	}

	var value string
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &value, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get setting: %w", err)
	}
	return value, true, nil
}

// GetMany returns the values for the given keys; unset keys are absent.
func (r *SettingsRepo) GetMany(ctx context.Context, companyID id.ID, keys []string) (map[string]string, error) {
	q := r.builder().
		Select("key", "value").
		From("company_settings").
		Where(squirrel.Eq{"company_id": companyID, "key": keys})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []company.Setting
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	result := make(map[string]string, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Value
	}
	return result, nil
}

// Set upserts one key.
func (r *SettingsRepo) Set(ctx context.Context, companyID id.ID, key, value string) error {
	q := r.builder().
		Insert("company_settings").
		Columns("company_id", "key", "value").
		Values(companyID, key, value).
		Suffix("ON CONFLICT (company_id, key) DO UPDATE SET value = EXCLUDED.value")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// SetMany upserts several keys in one statement.
func (r *SettingsRepo) SetMany(ctx context.Context, companyID id.ID, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	q := r.builder().
		Insert("company_settings").
		Columns("company_id", "key", "value").
		Suffix("ON CONFLICT (company_id, key) DO UPDATE SET value = EXCLUDED.value")
	for key, value := range values {
		q = q.Values(companyID, key, value)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("set settings: %w", err)
	}
	return nil
}
