package estimate

import (
	"context"
	"fmt"
	"time"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
	"facture/internal/core/tx"
	"facture/internal/domain"
	"facture/internal/domain/documents"
	"facture/internal/domain/documents/invoice"
	"facture/pkg/logger"
)

// Service provides business operations for estimates.
type Service struct {
	repo      Repository
	invoices  *invoice.Service
	numbering *documents.Numbering
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Estimate]

	now func() time.Time
}

// NewService creates a new estimate service.
func NewService(repo Repository, invoices *invoice.Service, numbering *documents.Numbering, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		invoices:  invoices,
		numbering: numbering,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Estimate](),
		now:       time.Now,
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Estimate] {
	return s.hooks
}

// Create numbers and persists a new estimate with its lines. A number
// collision from a concurrent insert is retried once.
func (s *Service) Create(ctx context.Context, doc *Estimate, formatOverride string) error {
	if err := s.hooks.Run(ctx, domain.BeforeCreate, doc); err != nil {
		return err
	}

	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.persistNew(ctx, doc, formatOverride)
	if apperror.IsNumberCollision(err) {
		logger.Warn(ctx, "estimate number collision, retrying", "number", doc.Number)
		err = s.persistNew(ctx, doc, formatOverride)
	}
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "estimate created", "id", doc.ID, "number", doc.Number)
	return nil
}

func (s *Service) persistNew(ctx context.Context, doc *Estimate, formatOverride string) error {
	if err := s.numbering.Assign(ctx, documents.EntityEstimate, &doc.Document, formatOverride, false); err != nil {
		return fmt.Errorf("assign number: %w", err)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create estimate: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// GetByID retrieves an estimate with its lines, marking it expired when its
// expiry date has passed.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Estimate, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("estimate", docID.String())
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	if doc.Status == StatusSent && doc.IsExpired(s.now()) {
		doc.Status = StatusExpired
	}
	return doc, nil
}

// Update persists estimate changes, re-rendering the number against the
// document's stored counters.
func (s *Service) Update(ctx context.Context, doc *Estimate, formatOverride string) error {
	if err := s.hooks.Run(ctx, domain.BeforeUpdate, doc); err != nil {
		return err
	}

	doc.RecalculateTotals()
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if err := s.numbering.Assign(ctx, documents.EntityEstimate, &doc.Document, formatOverride, true); err != nil {
		return fmt.Errorf("assign number: %w", err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update estimate: %w", err)
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

// Delete soft-deletes an estimate.
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

// List retrieves estimates with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Estimate], error) {
	return s.repo.List(ctx, filter)
}

// MarkSent transitions a draft estimate to sent.
func (s *Service) MarkSent(ctx context.Context, docID id.ID) (*Estimate, error) {
	return s.transition(ctx, docID, (*Estimate).MarkSent)
}

// Accept marks the estimate accepted.
func (s *Service) Accept(ctx context.Context, docID id.ID) (*Estimate, error) {
	return s.transition(ctx, docID, (*Estimate).Accept)
}

// Reject marks the estimate rejected.
func (s *Service) Reject(ctx context.Context, docID id.ID) (*Estimate, error) {
	return s.transition(ctx, docID, (*Estimate).Reject)
}

func (s *Service) transition(ctx context.Context, docID id.ID, apply func(*Estimate) error) (*Estimate, error) {
	var doc *Estimate
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("estimate", docID.String())
			}
			return err
		}
		if doc.IsExpired(s.now()) {
			doc.Status = StatusExpired
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

// ConvertToInvoice creates a draft invoice from an accepted estimate. The
// invoice copies the estimate's customer, lines and discount, and receives
// its own number from the invoice sequence.
func (s *Service) ConvertToInvoice(ctx context.Context, docID id.ID) (*invoice.Invoice, error) {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.Status != StatusAccepted {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule, "only accepted estimates can be converted").
			WithDetail("status", string(doc.Status))
	}

	inv := invoice.New(doc.CompanyID)
	inv.CustomerID = doc.CustomerID
	inv.Currency = doc.Currency
	inv.Notes = doc.Notes
	inv.DiscountType = invoice.DiscountType(doc.DiscountType)
	inv.Discount = doc.Discount
	for _, line := range doc.Lines {
		inv.Lines = append(inv.Lines, invoice.Line{
			LineID:      id.New(),
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

	if err := s.invoices.Create(ctx, inv, ""); err != nil {
		return nil, fmt.Errorf("convert estimate %s: %w", doc.Number, err)
	}

	logger.Info(ctx, "estimate converted to invoice",
		"estimate", doc.Number,
		"invoice", inv.Number)
	return inv, nil
}

// NextNumber previews the number the next estimate would receive.
func (s *Service) NextNumber(ctx context.Context, companyID id.ID, customerID *id.ID, formatOverride string) (string, error) {
	return s.numbering.Preview(ctx, documents.EntityEstimate, companyID, customerID, formatOverride)
}
