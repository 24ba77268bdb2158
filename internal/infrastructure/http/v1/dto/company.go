package dto

import (
	"time"

	"facture/internal/domain/company"
)

// --- Request DTOs ---

// CreateCompanyRequest is the request body for creating a company.
type CreateCompanyRequest struct {
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency"`
}

// UpdateCompanyRequest is the request body for updating a company.
type UpdateCompanyRequest struct {
	Name     string `json:"name" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

// UpdateSettingsRequest replaces or adds the given setting keys.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

// NumberFormatRequest sets the number format for one document type.
type NumberFormatRequest struct {
	Format string `json:"format" binding:"required"`
}

// --- Response DTOs ---

// CompanyResponse is the response body for a company.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromCompany creates response DTO from domain entity.
func FromCompany(c *company.Company) *CompanyResponse {
	return &CompanyResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Currency:  c.Currency,
		OwnerID:   c.OwnerID.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// SettingsResponse carries setting key/value pairs.
type SettingsResponse struct {
	Settings map[string]string `json:"settings"`
}

// NumberFormatResponse carries the effective number format for one
// document type.
type NumberFormatResponse struct {
	EntityType string `json:"entityType"`
	Format     string `json:"format"`
}
