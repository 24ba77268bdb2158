package auth_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
	"facture/internal/domain/auth"
	"facture/internal/infrastructure/storage/postgres"
)

var _ auth.UserRepository = (*UserRepo)(nil)

var userCols = postgres.ExtractDBColumns[auth.User]()

// UserRepo is the PostgreSQL repository for users. Users live outside the
// company scope; membership is tracked in the user_companies join table.
type UserRepo struct {
	txManager *postgres.TxManager
}

// NewUserRepo creates a user repository.
func NewUserRepo(txManager *postgres.TxManager) *UserRepo {
	return &UserRepo{txManager: txManager}
}

func (r *UserRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a user.
func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	fields := postgres.StructToMap(u)

	q := r.builder().Insert("users").SetMap(fields)
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapWriteError(fmt.Errorf("insert user: %w", err), "user")
	}
	return nil
}

// GetByID retrieves a user by id.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": userID}, userID.String())
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email}, email)
}

func (r *UserRepo) getOne(ctx context.Context, where squirrel.Eq, key string) (*auth.User, error) {
	q := r.builder().
		Select(userCols...).
		From("users").
		Where(where).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.User
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", key)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Update persists user changes with an optimistic lock on version.
func (r *UserRepo) Update(ctx context.Context, u *auth.User) error {
	fields := postgres.StructToMap(u)
	delete(fields, "id")
	delete(fields, "created_at")
	fields["version"] = u.Version + 1
	fields["updated_at"] = squirrel.Expr("now()")

	q := r.builder().
		Update("users").
		SetMap(fields).
		Where(squirrel.Eq{"id": u.ID, "version": u.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapWriteError(fmt.Errorf("update user: %w", err), "user")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("user", u.ID.String())
	}
	u.Version++
	return nil
}

// Exists reports whether a user with the email exists.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	q := r.builder().
		Select("1").
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &one, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return true, nil
}

// GetCompanyIDs returns the companies the user belongs to.
func (r *UserRepo) GetCompanyIDs(ctx context.Context, userID id.ID) ([]id.ID, error) {
	q := r.builder().
		Select("company_id").
		From("user_companies").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	companyIDs := make([]id.ID, 0)
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &companyIDs, sql, args...); err != nil {
		return nil, fmt.Errorf("get user companies: %w", err)
	}
	return companyIDs, nil
}

// AddToCompany records company membership. Adding an existing membership is a
// no-op.
func (r *UserRepo) AddToCompany(ctx context.Context, userID, companyID id.ID) error {
	q := r.builder().
		Insert("user_companies").
		Columns("user_id", "company_id", "created_at").
		Values(userID, companyID, squirrel.Expr("now()")).
		Suffix("ON CONFLICT (user_id, company_id) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapWriteError(fmt.Errorf("add user to company: %w", err), "user_companies")
	}
	return nil
}
