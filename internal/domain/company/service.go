package company

import (
	"context"
	"fmt"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
	"facture/internal/core/tx"
)

// DefaultNumberFormats seeds new companies with sensible document numbers.
var DefaultNumberFormats = map[string]string{
	SettingInvoiceNumberFormat:  "{{SERIES:INV}}{{DELIMITER:-}}{{SEQUENCE:6}}",
	SettingEstimateNumberFormat: "{{SERIES:EST}}{{DELIMITER:-}}{{SEQUENCE:6}}",
	SettingPaymentNumberFormat:  "{{SERIES:PAY}}{{DELIMITER:-}}{{SEQUENCE:6}}",
}

// Service provides business logic for companies.
type Service struct {
	repo      Repository
	settings  *SettingsService
	txManager tx.Manager
}

// NewService creates a company service.
func NewService(repo Repository, settings *SettingsService, txManager tx.Manager) *Service {
	return &Service{repo: repo, settings: settings, txManager: txManager}
}

// Create validates and persists a company, seeding its default number
// formats in the same transaction.
func (s *Service) Create(ctx context.Context, c *Company) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, c); err != nil {
			return fmt.Errorf("create company: %w", err)
		}
		if err := s.settings.SetMany(ctx, c.ID, DefaultNumberFormats); err != nil {
			return fmt.Errorf("seed company settings: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a company.
func (s *Service) GetByID(ctx context.Context, companyID id.ID) (*Company, error) {
	c, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("company", companyID.String())
		}
		return nil, err
	}
	return c, nil
}

// Update validates and persists company changes.
func (s *Service) Update(ctx context.Context, c *Company) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, c)
	})
}

// ListByOwner returns the companies owned by a user.
func (s *Service) ListByOwner(ctx context.Context, ownerID id.ID) ([]*Company, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Settings exposes the settings service.
func (s *Service) Settings() *SettingsService {
	return s.settings
}
