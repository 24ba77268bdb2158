package company

import (
	"context"
	"fmt"

	"facture/internal/core/id"
)

// Well-known setting keys. Number formats follow the
// "<entity>_number_format" convention consumed by the serial package.
const (
	SettingInvoiceNumberFormat  = "invoice_number_format"
	SettingEstimateNumberFormat = "estimate_number_format"
	SettingPaymentNumberFormat  = "payment_number_format"
)

// NumberFormatKey builds the setting key holding the number format for an
// entity type ("invoice" -> "invoice_number_format").
func NumberFormatKey(entityType string) string {
	return entityType + "_number_format"
}

// Setting is one key-value pair of company configuration.
type Setting struct {
	CompanyID id.ID  `db:"company_id" json:"companyId"`
	Key       string `db:"key" json:"key"`
	Value     string `db:"value" json:"value"`
}

// SettingsRepository persists company settings.
type SettingsRepository interface {
	// Get returns the value for key, with found=false when unset.
	Get(ctx context.Context, companyID id.ID, key string) (string, bool, error)

	// GetMany returns the values for the given keys; unset keys are absent
	// from the result.
	GetMany(ctx context.Context, companyID id.ID, keys []string) (map[string]string, error)

	// Set upserts one key.
	Set(ctx context.Context, companyID id.ID, key, value string) error

	// SetMany upserts several keys atomically.
	SetMany(ctx context.Context, companyID id.ID, values map[string]string) error
}

// SettingsService exposes company settings to the API and to document
// numbering. It implements serial.FormatSource.
type SettingsService struct {
	repo SettingsRepository
}

// NewSettingsService creates a settings service.
func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the value for key, or the empty string when unset.
func (s *SettingsService) Get(ctx context.Context, companyID id.ID, key string) (string, error) {
	value, _, err := s.repo.Get(ctx, companyID, key)
	if err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// GetMany returns the values for the given keys.
func (s *SettingsService) GetMany(ctx context.Context, companyID id.ID, keys []string) (map[string]string, error) {
	return s.repo.GetMany(ctx, companyID, keys)
}

// Set upserts one key.
func (s *SettingsService) Set(ctx context.Context, companyID id.ID, key, value string) error {
	return s.repo.Set(ctx, companyID, key, value)
}

// SetMany upserts several keys.
func (s *SettingsService) SetMany(ctx context.Context, companyID id.ID, values map[string]string) error {
	return s.repo.SetMany(ctx, companyID, values)
}

// NumberFormat implements serial.FormatSource. It returns the configured
// format for the entity type, or the empty string when none is set.
func (s *SettingsService) NumberFormat(ctx context.Context, companyID id.ID, entityType string) (string, error) {
	return s.Get(ctx, companyID, NumberFormatKey(entityType))
}
