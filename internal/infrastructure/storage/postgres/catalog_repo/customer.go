package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"facture/internal/domain/catalogs/customer"
	"facture/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ customer.Repository = (*CustomerRepo)(nil)

// CustomerRepo is the PostgreSQL repository for customers.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"customers",
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// FindByEmail retrieves a customer by email within the company.
func (r *CustomerRepo) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	q, err := r.BaseSelect(ctx)
	if err != nil {
		return nil, err
	}
	return r.FindOne(ctx, q.
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1))
}

// FindByPrefix retrieves a customer by series prefix within the company.
func (r *CustomerRepo) FindByPrefix(ctx context.Context, prefix string) (*customer.Customer, error) {
	q, err := r.BaseSelect(ctx)
	if err != nil {
		return nil, err
	}
	return r.FindOne(ctx, q.
		Where(squirrel.Eq{"prefix": prefix}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1))
}
