package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"facture/internal/core/id"
	"facture/internal/domain/documents/payment"
)

// --- Request DTOs ---

// CreatePaymentRequest is the request body for recording a payment.
type CreatePaymentRequest struct {
	CustomerID   *string         `json:"customerId"`
	InvoiceID    *string         `json:"invoiceId"`
	Date         *time.Time      `json:"date"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Currency     string          `json:"currency"`
	Method       payment.Method  `json:"method"`
	Notes        string          `json:"notes"`
	NumberFormat string          `json:"numberFormat"`
}

// ToEntity converts DTO to domain entity.
func (r *CreatePaymentRequest) ToEntity(companyID id.ID) (*payment.Payment, error) {
	doc := payment.New(companyID, r.Amount)

	if r.CustomerID != nil && *r.CustomerID != "" {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return nil, err
		}
		doc.SetCustomer(customerID)
	}
	if r.InvoiceID != nil && *r.InvoiceID != "" {
		invoiceID, err := id.Parse(*r.InvoiceID)
		if err != nil {
			return nil, err
		}
		doc.InvoiceID = &invoiceID
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	if r.Currency != "" {
		doc.Currency = r.Currency
	}
	if r.Method != "" {
		doc.Method = r.Method
	}
	doc.Notes = r.Notes
	return doc, nil
}

// UpdatePaymentRequest is the request body for updating a payment.
// Amount and invoice link cannot change; delete and recreate instead.
type UpdatePaymentRequest struct {
	Date         *time.Time     `json:"date"`
	Method       payment.Method `json:"method" binding:"required"`
	Notes        string         `json:"notes"`
	NumberFormat string         `json:"numberFormat"`
	Version      int            `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdatePaymentRequest) ApplyTo(doc *payment.Payment) {
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.Method = r.Method
	doc.Notes = r.Notes
	doc.Version = r.Version
}

// --- Response DTOs ---

// PaymentResponse is the response body for a payment.
type PaymentResponse struct {
	ID                     string          `json:"id"`
	Number                 string          `json:"number"`
	SequenceNumber         int64           `json:"sequenceNumber"`
	CustomerSequenceNumber *int64          `json:"customerSequenceNumber,omitempty"`
	CustomerID             *string         `json:"customerId,omitempty"`
	InvoiceID              *string         `json:"invoiceId,omitempty"`
	Date                   time.Time       `json:"date"`
	Amount                 decimal.Decimal `json:"amount"`
	Currency               string          `json:"currency"`
	Method                 payment.Method  `json:"method"`
	Notes                  string          `json:"notes,omitempty"`
	DeletionMark           bool            `json:"deletionMark"`
	Version                int             `json:"version"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// FromPayment creates response DTO from domain entity.
func FromPayment(doc *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:                     doc.ID.String(),
		Number:                 doc.Number,
		SequenceNumber:         doc.SequenceNumber,
		CustomerSequenceNumber: doc.CustomerSequenceNumber,
		CustomerID:             idPtrString(doc.CustomerID),
		InvoiceID:              idPtrString(doc.InvoiceID),
		Date:                   doc.Date,
		Amount:                 doc.Amount,
		Currency:               doc.Currency,
		Method:                 doc.Method,
		Notes:                  doc.Notes,
		DeletionMark:           doc.DeletionMark,
		Version:                doc.Version,
		CreatedAt:              doc.CreatedAt,
		UpdatedAt:              doc.UpdatedAt,
	}
}
