// Package estimate provides the Estimate document: a quote offered to a
// customer that can be accepted and converted into an invoice.
package estimate

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"facture/internal/core/apperror"
	"facture/internal/core/entity"
	"facture/internal/core/id"
)

// Status tracks the estimate lifecycle.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusSent     Status = "SENT"
	StatusViewed   Status = "VIEWED"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
	StatusExpired  Status = "EXPIRED"
)

// DiscountType selects how Discount is applied to the subtotal.
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Estimate is a quote offered to a customer.
type Estimate struct {
	entity.Document

	Status Status `db:"status" json:"status"`

	Currency string `db:"currency" json:"currency"`

	// ExpiryDate is when the quote stops being valid
	ExpiryDate *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	DiscountType DiscountType    `db:"discount_type" json:"discountType"`
	Discount     decimal.Decimal `db:"discount" json:"discount"`

	SubTotal decimal.Decimal `db:"sub_total" json:"subTotal"`
	Tax      decimal.Decimal `db:"tax" json:"tax"`
	Total    decimal.Decimal `db:"total" json:"total"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one quoted item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`

	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
	Price     decimal.Decimal `db:"price" json:"price"`
	TaxRate   decimal.Decimal `db:"tax_rate" json:"taxRate"`
	TaxAmount decimal.Decimal `db:"tax_amount" json:"taxAmount"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
}

// New creates a draft estimate for a company.
func New(companyID id.ID) *Estimate {
	return &Estimate{
		Document:     entity.NewDocument(companyID),
		Status:       StatusDraft,
		Currency:     "USD",
		DiscountType: DiscountFixed,
		Lines:        make([]Line, 0),
	}
}

// AddLine appends a quoted item and recalculates totals.
func (e *Estimate) AddLine(name string, quantity, price, taxRate decimal.Decimal) {
	base := quantity.Mul(price)
	taxAmount := base.Mul(taxRate).Div(decimal.NewFromInt(100))

	e.Lines = append(e.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(e.Lines) + 1,
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		TaxRate:   taxRate,
		TaxAmount: taxAmount,
		Amount:    base.Add(taxAmount),
	})
	e.RecalculateTotals()
}

// RecalculateTotals updates totals from lines and discount.
func (e *Estimate) RecalculateTotals() {
	subTotal := decimal.Zero
	tax := decimal.Zero
	for _, line := range e.Lines {
		subTotal = subTotal.Add(line.Amount.Sub(line.TaxAmount))
		tax = tax.Add(line.TaxAmount)
	}

	discount := e.Discount
	if e.DiscountType == DiscountPercentage {
		discount = subTotal.Mul(e.Discount).Div(decimal.NewFromInt(100))
	}

	e.SubTotal = subTotal
	e.Tax = tax
	e.Total = subTotal.Add(tax).Sub(discount)
}

// Validate implements entity.Validatable.
func (e *Estimate) Validate(ctx context.Context) error {
	if err := e.Document.Validate(ctx); err != nil {
		return err
	}

	if !isValidStatus(e.Status) {
		return apperror.NewValidation("invalid estimate status").
			WithDetail("field", "status").
			WithDetail("value", string(e.Status))
	}
	if e.DiscountType != DiscountFixed && e.DiscountType != DiscountPercentage {
		return apperror.NewValidation("invalid discount type").
			WithDetail("field", "discountType")
	}
	if e.Discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount")
	}
	if len(e.Lines) == 0 {
		return apperror.NewValidation("estimate must have at least one line").
			WithDetail("field", "lines")
	}
	for _, line := range e.Lines {
		if line.Name == "" {
			return apperror.NewValidation("line name is required").
				WithDetail("lineNo", line.LineNo)
		}
		if line.Quantity.IsNegative() || line.Price.IsNegative() {
			return apperror.NewValidation("line quantity and price cannot be negative").
				WithDetail("lineNo", line.LineNo)
		}
	}

	return nil
}

// MarkSent transitions a draft estimate to sent.
func (e *Estimate) MarkSent() error {
	if e.Status != StatusDraft {
		return apperror.NewBusinessRule(apperror.CodeDocumentSent, "only draft estimates can be sent").
			WithDetail("status", string(e.Status))
	}
	e.Status = StatusSent
	return nil
}

// Accept marks the estimate accepted. Expired and rejected estimates cannot
// be accepted.
func (e *Estimate) Accept() error {
	switch e.Status {
	case StatusSent, StatusViewed:
		e.Status = StatusAccepted
		return nil
	}
	return apperror.NewBusinessRule(apperror.CodeBusinessRule, "estimate cannot be accepted").
		WithDetail("status", string(e.Status))
}

// Reject marks the estimate rejected.
func (e *Estimate) Reject() error {
	switch e.Status {
	case StatusSent, StatusViewed:
		e.Status = StatusRejected
		return nil
	}
	return apperror.NewBusinessRule(apperror.CodeBusinessRule, "estimate cannot be rejected").
		WithDetail("status", string(e.Status))
}

// IsExpired reports whether the expiry date has passed.
func (e *Estimate) IsExpired(now time.Time) bool {
	return e.ExpiryDate != nil && now.After(*e.ExpiryDate)
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSent, StatusViewed, StatusAccepted, StatusRejected, StatusExpired:
		return true
	}
	return false
}
