package invoice

import (
	"context"
	"fmt"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
	"facture/internal/core/tx"
	"facture/internal/domain"
	"facture/internal/domain/documents"
	"facture/pkg/logger"
)

// Service provides business operations for invoices.
type Service struct {
	repo      Repository
	numbering *documents.Numbering
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Invoice]
}

// NewService creates a new invoice service.
func NewService(repo Repository, numbering *documents.Numbering, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numbering: numbering,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Invoice](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Invoice] {
	return s.hooks
}

// Create numbers and persists a new invoice with its lines. formatOverride,
// when non-empty, replaces the company's configured invoice number format
// for this document only. A concurrent insert can take the same sequence
// number; the unique index rejects it and the numbering is retried once.
func (s *Service) Create(ctx context.Context, doc *Invoice, formatOverride string) error {
	if err := s.hooks.Run(ctx, domain.BeforeCreate, doc); err != nil {
		return err
	}

	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.persistNew(ctx, doc, formatOverride)
	if apperror.IsNumberCollision(err) {
		logger.Warn(ctx, "invoice number collision, retrying", "number", doc.Number)
		err = s.persistNew(ctx, doc, formatOverride)
	}
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "invoice created", "id", doc.ID, "number", doc.Number)
	return nil
}

func (s *Service) persistNew(ctx context.Context, doc *Invoice, formatOverride string) error {
	if err := s.numbering.Assign(ctx, documents.EntityInvoice, &doc.Document, formatOverride, false); err != nil {
		return fmt.Errorf("assign number: %w", err)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// GetByID retrieves an invoice with its lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("invoice", docID.String())
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines
	return doc, nil
}

// Update persists invoice changes. The number is re-rendered against the
// document's own stored counters, so editing never advances the company
// sequence; changing the customer draws a fresh customer counter.
func (s *Service) Update(ctx context.Context, doc *Invoice, formatOverride string) error {
	if err := s.hooks.Run(ctx, domain.BeforeUpdate, doc); err != nil {
		return err
	}

	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.numbering.Assign(ctx, documents.EntityInvoice, &doc.Document, formatOverride, true); err != nil {
		return fmt.Errorf("assign number: %w", err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterUpdate, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
	return nil
}

// Delete soft-deletes an invoice.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeDelete, doc); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SetDeletionMark(ctx, docID, true)
	})
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}

// MarkSent transitions a draft invoice to sent.
func (s *Service) MarkSent(ctx context.Context, docID id.ID) (*Invoice, error) {
	return s.transition(ctx, docID, func(doc *Invoice) error {
		return doc.MarkSent()
	})
}

// MarkViewed records that the customer opened the invoice.
func (s *Service) MarkViewed(ctx context.Context, docID id.ID) (*Invoice, error) {
	return s.transition(ctx, docID, func(doc *Invoice) error {
		doc.MarkViewed()
		return nil
	})
}

func (s *Service) transition(ctx context.Context, docID id.ID, apply func(*Invoice) error) (*Invoice, error) {
	var doc *Invoice
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("invoice", docID.String())
			}
			return err
		}
		if err := apply(doc); err != nil {
			return err
		}
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// NextNumber previews the number the next invoice would receive.
func (s *Service) NextNumber(ctx context.Context, companyID id.ID, customerID *id.ID, formatOverride string) (string, error) {
	return s.numbering.Preview(ctx, documents.EntityInvoice, companyID, customerID, formatOverride)
}
