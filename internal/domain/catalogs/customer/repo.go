package customer

import (
	"context"

	"facture/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByEmail retrieves a customer by email (unique within a company).
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindByPrefix retrieves a customer by series prefix.
	FindByPrefix(ctx context.Context, prefix string) (*Customer, error)
}
