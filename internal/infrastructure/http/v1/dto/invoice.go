package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"facture/internal/core/id"
	"facture/internal/domain/documents/invoice"
)

// --- Line DTOs ---

// LineRequest is one line item in a document request.
type LineRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// LineResponse is one line item in a document response.
type LineResponse struct {
	LineID      string          `json:"lineId"`
	LineNo      int             `json:"lineNo"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	Amount      decimal.Decimal `json:"amount"`
}

// --- Request DTOs ---

// CreateInvoiceRequest is the request body for creating an invoice.
// NumberFormat, when set, overrides the company's invoice number format
// for this document only.
type CreateInvoiceRequest struct {
	CustomerID      *string              `json:"customerId"`
	Date            *time.Time           `json:"date"`
	DueDate         *time.Time           `json:"dueDate"`
	Currency        string               `json:"currency"`
	ReferenceNumber *string              `json:"referenceNumber"`
	DiscountType    invoice.DiscountType `json:"discountType"`
	Discount        decimal.Decimal      `json:"discount"`
	Notes           string               `json:"notes"`
	NumberFormat    string               `json:"numberFormat"`
	Lines           []LineRequest        `json:"lines" binding:"required,min=1"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateInvoiceRequest) ToEntity(companyID id.ID) (*invoice.Invoice, error) {
	doc := invoice.New(companyID)

	if r.CustomerID != nil && *r.CustomerID != "" {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return nil, err
		}
		doc.SetCustomer(customerID)
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.DueDate = r.DueDate
	if r.Currency != "" {
		doc.Currency = r.Currency
	}
	doc.ReferenceNumber = r.ReferenceNumber
	if r.DiscountType != "" {
		doc.DiscountType = r.DiscountType
	}
	doc.Discount = r.Discount
	doc.Notes = r.Notes

	for _, line := range r.Lines {
		doc.AddLine(line.Name, line.Quantity, line.Price, line.TaxRate)
		doc.Lines[len(doc.Lines)-1].Description = line.Description
	}
	return doc, nil
}

// UpdateInvoiceRequest is the request body for updating an invoice.
// Lines replace the stored lines entirely.
type UpdateInvoiceRequest struct {
	CustomerID      *string              `json:"customerId"`
	Date            *time.Time           `json:"date"`
	DueDate         *time.Time           `json:"dueDate"`
	Currency        string               `json:"currency" binding:"required"`
	ReferenceNumber *string              `json:"referenceNumber"`
	DiscountType    invoice.DiscountType `json:"discountType" binding:"required"`
	Discount        decimal.Decimal      `json:"discount"`
	Notes           string               `json:"notes"`
	NumberFormat    string               `json:"numberFormat"`
	Lines           []LineRequest        `json:"lines" binding:"required,min=1"`
	Version         int                  `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateInvoiceRequest) ApplyTo(doc *invoice.Invoice) error {
	if r.CustomerID != nil && *r.CustomerID != "" {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return err
		}
		doc.SetCustomer(customerID)
	} else {
		doc.CustomerID = nil
	}
	if r.Date != nil {
		doc.Date = *r.Date
	}
	doc.DueDate = r.DueDate
	doc.Currency = r.Currency
	doc.ReferenceNumber = r.ReferenceNumber
	doc.DiscountType = r.DiscountType
	doc.Discount = r.Discount
	doc.Notes = r.Notes
	doc.Version = r.Version

	doc.Lines = doc.Lines[:0]
	for _, line := range r.Lines {
		doc.AddLine(line.Name, line.Quantity, line.Price, line.TaxRate)
		doc.Lines[len(doc.Lines)-1].Description = line.Description
	}
	return nil
}

// --- Response DTOs ---

// InvoiceResponse is the response body for an invoice.
type InvoiceResponse struct {
	ID                     string               `json:"id"`
	Number                 string               `json:"number"`
	SequenceNumber         int64                `json:"sequenceNumber"`
	CustomerSequenceNumber *int64               `json:"customerSequenceNumber,omitempty"`
	CustomerID             *string              `json:"customerId,omitempty"`
	Status                 invoice.Status       `json:"status"`
	PaidStatus             invoice.PaidStatus   `json:"paidStatus"`
	Date                   time.Time            `json:"date"`
	DueDate                *time.Time           `json:"dueDate,omitempty"`
	Currency               string               `json:"currency"`
	ReferenceNumber        *string              `json:"referenceNumber,omitempty"`
	DiscountType           invoice.DiscountType `json:"discountType"`
	Discount               decimal.Decimal      `json:"discount"`
	SubTotal               decimal.Decimal      `json:"subTotal"`
	Tax                    decimal.Decimal      `json:"tax"`
	Total                  decimal.Decimal      `json:"total"`
	DueAmount              decimal.Decimal      `json:"dueAmount"`
	Notes                  string               `json:"notes,omitempty"`
	Lines                  []LineResponse       `json:"lines,omitempty"`
	DeletionMark           bool                 `json:"deletionMark"`
	Version                int                  `json:"version"`
	CreatedAt              time.Time            `json:"createdAt"`
	UpdatedAt              time.Time            `json:"updatedAt"`
}

// FromInvoice creates response DTO from domain entity.
func FromInvoice(doc *invoice.Invoice) *InvoiceResponse {
	lines := make([]LineResponse, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, LineResponse{
			LineID:      line.LineID.String(),
			LineNo:      line.LineNo,
			Name:        line.Name,
			Description: line.Description,
			Quantity:    line.Quantity,
			Price:       line.Price,
			TaxRate:     line.TaxRate,
			TaxAmount:   line.TaxAmount,
			Amount:      line.Amount,
		})
	}

	return &InvoiceResponse{
		ID:                     doc.ID.String(),
		Number:                 doc.Number,
		SequenceNumber:         doc.SequenceNumber,
		CustomerSequenceNumber: doc.CustomerSequenceNumber,
		CustomerID:             idPtrString(doc.CustomerID),
		Status:                 doc.Status,
		PaidStatus:             doc.PaidStatus,
		Date:                   doc.Date,
		DueDate:                doc.DueDate,
		Currency:               doc.Currency,
		ReferenceNumber:        doc.ReferenceNumber,
		DiscountType:           doc.DiscountType,
		Discount:               doc.Discount,
		SubTotal:               doc.SubTotal,
		Tax:                    doc.Tax,
		Total:                  doc.Total,
		DueAmount:              doc.DueAmount,
		Notes:                  doc.Notes,
		Lines:                  lines,
		DeletionMark:           doc.DeletionMark,
		Version:                doc.Version,
		CreatedAt:              doc.CreatedAt,
		UpdatedAt:              doc.UpdatedAt,
	}
}

func idPtrString(v *id.ID) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
