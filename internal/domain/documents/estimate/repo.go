package estimate

import (
	"context"
	"time"

	"facture/internal/core/id"
	"facture/internal/domain"
)

// Repository defines operations for estimate documents.
type Repository interface {
	Create(ctx context.Context, doc *Estimate) error
	GetByID(ctx context.Context, docID id.ID) (*Estimate, error)
	GetByNumber(ctx context.Context, number string) (*Estimate, error)
	Update(ctx context.Context, doc *Estimate) error
	SetDeletionMark(ctx context.Context, docID id.ID, marked bool) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Estimate], error)

	GetForUpdate(ctx context.Context, docID id.ID) (*Estimate, error)
}

// ListFilter for filtering estimates.
type ListFilter struct {
	domain.ListFilter

	CustomerID *id.ID
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
}
