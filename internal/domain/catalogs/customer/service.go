package customer

import (
	"context"
	"strings"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
	"facture/internal/core/serial"
	"facture/internal/core/tx"
	"facture/internal/domain"
)

// Service provides business logic for the Customer catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.prepareForWrite)
	base.Hooks().On(domain.BeforeUpdate, svc.prepareForWrite)

	return svc
}

// prepareForWrite normalizes the prefix and enforces email uniqueness.
func (s *Service) prepareForWrite(ctx context.Context, c *Customer) error {
	c.Prefix = strings.ToUpper(strings.TrimSpace(c.Prefix))

	if c.Email != nil && *c.Email != "" {
		taken, err := s.emailTaken(ctx, *c.Email, c.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperror.NewConflict("customer with this email already exists").
				WithDetail("email", *c.Email)
		}
	}

	return nil
}

// FindByEmail retrieves a customer by email.
func (s *Service) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	return s.repo.FindByEmail(ctx, email)
}

// FindCustomer implements serial.CustomerSource, so document numbering can
// resolve the customer's prefix and counter scope. An unknown or deleted
// customer yields (nil, nil).
func (s *Service) FindCustomer(ctx context.Context, customerID id.ID) (*serial.CustomerRef, error) {
	c, err := s.GetByID(ctx, customerID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &serial.CustomerRef{ID: c.ID, Prefix: c.Prefix}, nil
}

// emailTaken checks whether the email is used by another customer.
func (s *Service) emailTaken(ctx context.Context, email string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Not found is fine; other errors must be propagated.
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}
