// Package company provides the Company catalog and per-company settings.
// A company is the tenant boundary: every catalog and document row is scoped
// to one company, and settings such as number formats are stored per company.
package company

import (
	"context"
	"time"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
)

// Company is the tenant everything else is scoped to.
type Company struct {
	ID   id.ID  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	// Currency is the company default for new documents
	Currency string `db:"currency" json:"currency"`

	// OwnerID is the user who created the company
	OwnerID id.ID `db:"owner_id" json:"ownerId"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a company owned by the given user.
func New(name string, ownerID id.ID) *Company {
	now := time.Now().UTC()
	return &Company{
		ID:        id.New(),
		Name:      name,
		Currency:  "USD",
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks company invariants.
func (c *Company) Validate(_ context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("company name is required").
			WithDetail("field", "name")
	}
	if id.IsNil(c.OwnerID) {
		return apperror.NewValidation("company owner is required").
			WithDetail("field", "ownerId")
	}
	return nil
}
