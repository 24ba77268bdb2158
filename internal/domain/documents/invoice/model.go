// Package invoice provides the Invoice document: a bill issued to a customer,
// numbered by the company's invoice format and settled by payments.
package invoice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"facture/internal/core/apperror"
	"facture/internal/core/entity"
	"facture/internal/core/id"
)

// Status tracks the invoice lifecycle.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusSent      Status = "SENT"
	StatusViewed    Status = "VIEWED"
	StatusCompleted Status = "COMPLETED"
)

// PaidStatus tracks settlement independently of lifecycle.
type PaidStatus string

const (
	PaidStatusUnpaid    PaidStatus = "UNPAID"
	PaidStatusPartially PaidStatus = "PARTIALLY_PAID"
	PaidStatusPaid      PaidStatus = "PAID"
)

// DiscountType selects how Discount is applied to the subtotal.
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Invoice is a bill issued to a customer.
type Invoice struct {
	entity.Document

	Status     Status     `db:"status" json:"status"`
	PaidStatus PaidStatus `db:"paid_status" json:"paidStatus"`

	// Currency is the ISO 4217 code amounts are denominated in
	Currency string `db:"currency" json:"currency"`

	// ReferenceNumber is a free-form external reference
	ReferenceNumber *string `db:"reference_number" json:"referenceNumber,omitempty"`

	// DueDate is when payment falls due
	DueDate *time.Time `db:"due_date" json:"dueDate,omitempty"`

	DiscountType DiscountType    `db:"discount_type" json:"discountType"`
	Discount     decimal.Decimal `db:"discount" json:"discount"`

	// Totals (calculated from lines)
	SubTotal decimal.Decimal `db:"sub_total" json:"subTotal"`
	Tax      decimal.Decimal `db:"tax" json:"tax"`
	Total    decimal.Decimal `db:"total" json:"total"`

	// DueAmount is Total minus recorded payments
	DueAmount decimal.Decimal `db:"due_amount" json:"dueAmount"`

	// Table part: billed items
	Lines []Line `db:"-" json:"lines"`
}

// Line is one billed item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`

	Quantity decimal.Decimal `db:"quantity" json:"quantity"`
	Price    decimal.Decimal `db:"price" json:"price"`

	// TaxRate is a percentage, e.g. 20 for 20%
	TaxRate   decimal.Decimal `db:"tax_rate" json:"taxRate"`
	TaxAmount decimal.Decimal `db:"tax_amount" json:"taxAmount"`

	// Amount is quantity * price + tax
	Amount decimal.Decimal `db:"amount" json:"amount"`
}

// New creates a draft invoice for a company.
func New(companyID id.ID) *Invoice {
	return &Invoice{
		Document:     entity.NewDocument(companyID),
		Status:       StatusDraft,
		PaidStatus:   PaidStatusUnpaid,
		Currency:     "USD",
		DiscountType: DiscountFixed,
		Lines:        make([]Line, 0),
	}
}

// AddLine appends a billed item and recalculates totals.
func (inv *Invoice) AddLine(name string, quantity, price, taxRate decimal.Decimal) {
	base := quantity.Mul(price)
	taxAmount := base.Mul(taxRate).Div(decimal.NewFromInt(100))

	inv.Lines = append(inv.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(inv.Lines) + 1,
		Name:      name,
		Quantity:  quantity,
		Price:     price,
		TaxRate:   taxRate,
		TaxAmount: taxAmount,
		Amount:    base.Add(taxAmount),
	})
	inv.RecalculateTotals()
}

// RecalculateTotals updates document totals from lines and discount.
// DueAmount is reset to the new total; recorded payments are reapplied by
// the payment service.
func (inv *Invoice) RecalculateTotals() {
	subTotal := decimal.Zero
	tax := decimal.Zero
	for _, line := range inv.Lines {
		subTotal = subTotal.Add(line.Amount.Sub(line.TaxAmount))
		tax = tax.Add(line.TaxAmount)
	}

	discount := inv.Discount
	if inv.DiscountType == DiscountPercentage {
		discount = subTotal.Mul(inv.Discount).Div(decimal.NewFromInt(100))
	}

	inv.SubTotal = subTotal
	inv.Tax = tax
	inv.Total = subTotal.Add(tax).Sub(discount)
	inv.DueAmount = inv.Total
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if !isValidStatus(inv.Status) {
		return apperror.NewValidation("invalid invoice status").
			WithDetail("field", "status").
			WithDetail("value", string(inv.Status))
	}
	if inv.DiscountType != DiscountFixed && inv.DiscountType != DiscountPercentage {
		return apperror.NewValidation("invalid discount type").
			WithDetail("field", "discountType")
	}
	if inv.Discount.IsNegative() {
		return apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount")
	}
	if len(inv.Lines) == 0 {
		return apperror.NewValidation("invoice must have at least one line").
			WithDetail("field", "lines")
	}
	for _, line := range inv.Lines {
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

// MarkSent transitions a draft invoice to sent.
func (inv *Invoice) MarkSent() error {
	if inv.Status != StatusDraft {
		return apperror.NewBusinessRule(apperror.CodeDocumentSent, "only draft invoices can be sent").
			WithDetail("status", string(inv.Status))
	}
	inv.Status = StatusSent
	return nil
}

// MarkViewed records that the customer opened the invoice.
func (inv *Invoice) MarkViewed() {
	if inv.Status == StatusSent {
		inv.Status = StatusViewed
	}
}

// ApplyPayment reduces the due amount and updates the paid status.
func (inv *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if amount.IsNegative() || amount.IsZero() {
		return apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}
	if amount.GreaterThan(inv.DueAmount) {
		return apperror.NewBusinessRule(apperror.CodePaymentExceedsDue, "payment exceeds amount due").
			WithDetail("due", inv.DueAmount.String()).
			WithDetail("amount", amount.String())
	}

	inv.DueAmount = inv.DueAmount.Sub(amount)
	if inv.DueAmount.IsZero() {
		inv.PaidStatus = PaidStatusPaid
		inv.Status = StatusCompleted
	} else {
		inv.PaidStatus = PaidStatusPartially
	}
	return nil
}

// RevertPayment restores the due amount when a payment is removed.
func (inv *Invoice) RevertPayment(amount decimal.Decimal) {
	inv.DueAmount = inv.DueAmount.Add(amount)
	if inv.DueAmount.GreaterThanOrEqual(inv.Total) {
		inv.DueAmount = inv.Total
		inv.PaidStatus = PaidStatusUnpaid
	} else {
		inv.PaidStatus = PaidStatusPartially
	}
	if inv.Status == StatusCompleted {
		inv.Status = StatusSent
	}
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSent, StatusViewed, StatusCompleted:
		return true
	}
	return false
}
