package company

import (
	"context"

	"facture/internal/core/id"
)

// Repository persists companies.
type Repository interface {
	Create(ctx context.Context, c *Company) error
	GetByID(ctx context.Context, companyID id.ID) (*Company, error)
	Update(ctx context.Context, c *Company) error
	ListByOwner(ctx context.Context, ownerID id.ID) ([]*Company, error)
}
