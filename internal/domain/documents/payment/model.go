// Package payment provides the Payment document: money received from a
// customer, optionally settling an invoice.
package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"facture/internal/core/apperror"
	"facture/internal/core/entity"
	"facture/internal/core/id"
)

// Method is how the payment was made.
type Method string

const (
	MethodCash         Method = "CASH"
	MethodCheck        Method = "CHECK"
	MethodCreditCard   Method = "CREDIT_CARD"
	MethodBankTransfer Method = "BANK_TRANSFER"
	MethodOther        Method = "OTHER"
)

// Payment records money received from a customer.
type Payment struct {
	entity.Document

	// InvoiceID links the payment to the invoice it settles; nil for
	// payments on account.
	InvoiceID *id.ID `db:"invoice_id" json:"invoiceId,omitempty"`

	Amount   decimal.Decimal `db:"amount" json:"amount"`
	Currency string          `db:"currency" json:"currency"`
	Method   Method          `db:"method" json:"method"`
}

// New creates a payment for a company.
func New(companyID id.ID, amount decimal.Decimal) *Payment {
	return &Payment{
		Document: entity.NewDocument(companyID),
		Amount:   amount,
		Currency: "USD",
		Method:   MethodOther,
	}
}

// Validate implements entity.Validatable.
func (p *Payment) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if !p.Amount.IsPositive() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}
	if !isValidMethod(p.Method) {
		return apperror.NewValidation("invalid payment method").
			WithDetail("field", "method").
			WithDetail("value", string(p.Method))
	}

	return nil
}

func isValidMethod(m Method) bool {
	switch m {
	case MethodCash, MethodCheck, MethodCreditCard, MethodBankTransfer, MethodOther:
		return true
	}
	return false
}
