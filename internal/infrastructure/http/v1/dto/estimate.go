package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"facture/internal/core/id"
	"facture/internal/domain/documents/estimate"
)

// --- Request DTOs ---

// CreateEstimateRequest is the request body for creating an estimate.
type CreateEstimateRequest struct {
	CustomerID   *string               `json:"customerId"`
	Date         *time.Time            `json:"date"`
	ExpiryDate   *time.Time            `json:"expiryDate"`
	Currency     string                `json:"currency"`
	DiscountType estimate.DiscountType `json:"discountType"`
	Discount     decimal.Decimal       `json:"discount"`
	Notes        string                `json:"notes"`
	NumberFormat string                `json:"numberFormat"`
	Lines        []LineRequest         `json:"lines" binding:"required,min=1"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateEstimateRequest) ToEntity(companyID id.ID) (*estimate.Estimate, error) {
	doc := estimate.New(companyID)

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
	doc.ExpiryDate = r.ExpiryDate
	if r.Currency != "" {
		doc.Currency = r.Currency
	}
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

// UpdateEstimateRequest is the request body for updating an estimate.
type UpdateEstimateRequest struct {
	CustomerID   *string               `json:"customerId"`
	Date         *time.Time            `json:"date"`
	ExpiryDate   *time.Time            `json:"expiryDate"`
	Currency     string                `json:"currency" binding:"required"`
	DiscountType estimate.DiscountType `json:"discountType" binding:"required"`
	Discount     decimal.Decimal       `json:"discount"`
	Notes        string                `json:"notes"`
	NumberFormat string                `json:"numberFormat"`
	Lines        []LineRequest         `json:"lines" binding:"required,min=1"`
	Version      int                   `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateEstimateRequest) ApplyTo(doc *estimate.Estimate) error {
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
	doc.ExpiryDate = r.ExpiryDate
	doc.Currency = r.Currency
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

// EstimateResponse is the response body for an estimate.
type EstimateResponse struct {
	ID                     string                `json:"id"`
	Number                 string                `json:"number"`
	SequenceNumber         int64                 `json:"sequenceNumber"`
	CustomerSequenceNumber *int64                `json:"customerSequenceNumber,omitempty"`
	CustomerID             *string               `json:"customerId,omitempty"`
	Status                 estimate.Status       `json:"status"`
	Date                   time.Time             `json:"date"`
	ExpiryDate             *time.Time            `json:"expiryDate,omitempty"`
	Currency               string                `json:"currency"`
	DiscountType           estimate.DiscountType `json:"discountType"`
	Discount               decimal.Decimal       `json:"discount"`
	SubTotal               decimal.Decimal       `json:"subTotal"`
	Tax                    decimal.Decimal       `json:"tax"`
	Total                  decimal.Decimal       `json:"total"`
	Notes                  string                `json:"notes,omitempty"`
	Lines                  []LineResponse        `json:"lines,omitempty"`
	DeletionMark           bool                  `json:"deletionMark"`
	Version                int                   `json:"version"`
	CreatedAt              time.Time             `json:"createdAt"`
	UpdatedAt              time.Time             `json:"updatedAt"`
}

// FromEstimate creates response DTO from domain entity.
func FromEstimate(doc *estimate.Estimate) *EstimateResponse {
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

	return &EstimateResponse{
		ID:                     doc.ID.String(),
		Number:                 doc.Number,
		SequenceNumber:         doc.SequenceNumber,
		CustomerSequenceNumber: doc.CustomerSequenceNumber,
		CustomerID:             idPtrString(doc.CustomerID),
		Status:                 doc.Status,
		Date:                   doc.Date,
		ExpiryDate:             doc.ExpiryDate,
		Currency:               doc.Currency,
		DiscountType:           doc.DiscountType,
		Discount:               doc.Discount,
		SubTotal:               doc.SubTotal,
		Tax:                    doc.Tax,
		Total:                  doc.Total,
		Notes:                  doc.Notes,
		Lines:                  lines,
		DeletionMark:           doc.DeletionMark,
		Version:                doc.Version,
		CreatedAt:              doc.CreatedAt,
		UpdatedAt:              doc.UpdatedAt,
	}
}
