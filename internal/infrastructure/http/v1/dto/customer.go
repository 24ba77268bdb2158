package dto

import (
	"facture/internal/core/id"
	"facture/internal/domain/catalogs/customer"
)

// --- Request DTOs ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Code            string            `json:"code"`
	Name            string            `json:"name" binding:"required"`
	Prefix          string            `json:"prefix"`
	ContactName     *string           `json:"contactName"`
	Email           *string           `json:"email"`
	Phone           *string           `json:"phone"`
	Website         *string           `json:"website"`
	Currency        string            `json:"currency"`
	EnablePortal    bool              `json:"enablePortal"`
	BillingAddress  *customer.Address `json:"billingAddress"`
	ShippingAddress *customer.Address `json:"shippingAddress"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity(companyID id.ID) *customer.Customer {
	c := customer.New(companyID, r.Name)
	c.Code = r.Code
	c.Prefix = r.Prefix
	c.ContactName = r.ContactName
	c.Email = r.Email
	c.Phone = r.Phone
	c.Website = r.Website
	if r.Currency != "" {
		c.Currency = r.Currency
	}
	c.EnablePortal = r.EnablePortal
	c.BillingAddress = r.BillingAddress
	c.ShippingAddress = r.ShippingAddress
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Code            string            `json:"code"`
	Name            string            `json:"name" binding:"required"`
	Prefix          string            `json:"prefix"`
	ContactName     *string           `json:"contactName"`
	Email           *string           `json:"email"`
	Phone           *string           `json:"phone"`
	Website         *string           `json:"website"`
	Currency        string            `json:"currency" binding:"required"`
	EnablePortal    bool              `json:"enablePortal"`
	BillingAddress  *customer.Address `json:"billingAddress"`
	ShippingAddress *customer.Address `json:"shippingAddress"`
	Version         int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Code = r.Code
	c.Name = r.Name
	c.Prefix = r.Prefix
	c.ContactName = r.ContactName
	c.Email = r.Email
	c.Phone = r.Phone
	c.Website = r.Website
	c.Currency = r.Currency
	c.EnablePortal = r.EnablePortal
	c.BillingAddress = r.BillingAddress
	c.ShippingAddress = r.ShippingAddress
	c.Version = r.Version
}

// --- Response DTOs ---

// CustomerResponse is the response body for a customer.
type CustomerResponse struct {
	ID              string            `json:"id"`
	Code            string            `json:"code"`
	Name            string            `json:"name"`
	Prefix          string            `json:"prefix"`
	ContactName     *string           `json:"contactName,omitempty"`
	Email           *string           `json:"email,omitempty"`
	Phone           *string           `json:"phone,omitempty"`
	Website         *string           `json:"website,omitempty"`
	Currency        string            `json:"currency"`
	EnablePortal    bool              `json:"enablePortal"`
	BillingAddress  *customer.Address `json:"billingAddress,omitempty"`
	ShippingAddress *customer.Address `json:"shippingAddress,omitempty"`
	DeletionMark    bool              `json:"deletionMark"`
	Version         int               `json:"version"`
}

// FromCustomer creates response DTO from domain entity.
func FromCustomer(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:              c.ID.String(),
		Code:            c.Code,
		Name:            c.Name,
		Prefix:          c.Prefix,
		ContactName:     c.ContactName,
		Email:           c.Email,
		Phone:           c.Phone,
		Website:         c.Website,
		Currency:        c.Currency,
		EnablePortal:    c.EnablePortal,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		DeletionMark:    c.DeletionMark,
		Version:         c.Version,
	}
}
