// Package customer provides the Customer catalog. Customers are the parties
// invoices, estimates and payments are issued to; a customer's prefix feeds
// the {{CUSTOMER_SERIES}} placeholder of document numbers.
package customer

import (
	"context"
	"regexp"

	"facture/internal/core/apperror"
	"facture/internal/core/entity"
	"facture/internal/core/id"
)

// Pre-compiled regex patterns for validation
var (
	emailRE  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	prefixRE = regexp.MustCompile(`^[A-Z0-9]{1,8}$`)
)

// Address is a postal address attached to a customer.
type Address struct {
	Name        *string `db:"name" json:"name,omitempty"`
	AddressLine *string `db:"address_line" json:"addressLine,omitempty"`
	City        *string `db:"city" json:"city,omitempty"`
	State       *string `db:"state" json:"state,omitempty"`
	Country     *string `db:"country" json:"country,omitempty"`
	Zip         *string `db:"zip" json:"zip,omitempty"`
	Phone       *string `db:"phone" json:"phone,omitempty"`
}

// Customer represents a billed party.
type Customer struct {
	entity.Catalog

	// Prefix is the short series rendered by {{CUSTOMER_SERIES}}.
	// Empty means the default series is used.
	Prefix string `db:"prefix" json:"prefix"`

	// ContactName is the primary contact person
	ContactName *string `db:"contact_name" json:"contactName,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Website is the customer's web site
	Website *string `db:"website" json:"website,omitempty"`

	// Currency is the ISO 4217 code documents for this customer default to
	Currency string `db:"currency" json:"currency"`

	// EnablePortal grants the customer access to the client portal
	EnablePortal bool `db:"enable_portal" json:"enablePortal"`

	// BillingAddress and ShippingAddress are stored as JSONB
	BillingAddress  *Address `db:"billing_address" json:"billingAddress,omitempty"`
	ShippingAddress *Address `db:"shipping_address" json:"shippingAddress,omitempty"`
}

// New creates a new Customer with required fields.
func New(companyID id.ID, name string) *Customer {
	return &Customer{
		Catalog:  entity.NewCatalog(companyID, "", name),
		Currency: "USD",
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Prefix != "" && !prefixRE.MatchString(c.Prefix) {
		return apperror.NewValidation("prefix must be 1-8 uppercase letters or digits").
			WithDetail("field", "prefix").
			WithDetail("value", c.Prefix)
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	if c.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}

	return nil
}

// SeriesPrefix returns the prefix used for {{CUSTOMER_SERIES}}, or empty when
// the default applies.
func (c *Customer) SeriesPrefix() string {
	return c.Prefix
}
