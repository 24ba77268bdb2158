package payment

import (
	"context"
	"fmt"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
	"facture/internal/core/tx"
	"facture/internal/domain"
	"facture/internal/domain/documents"
	"facture/internal/domain/documents/invoice"
	"facture/pkg/logger"
)

// Service provides business operations for payments.
type Service struct {
	repo      Repository
	invoices  invoice.Repository
	numbering *documents.Numbering
	txManager tx.Manager
	hooks     *domain.HookRegistry[*Payment]
}

// NewService creates a new payment service.
func NewService(repo Repository, invoices invoice.Repository, numbering *documents.Numbering, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		invoices:  invoices,
		numbering: numbering,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*Payment](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*Payment] {
	return s.hooks
}

// Create numbers and persists a payment. When the payment settles an
// invoice, the invoice's due amount and paid status are updated in the same
// transaction, under a row lock; a payment above the amount due is rejected.
// A number collision from a concurrent insert is retried once.
func (s *Service) Create(ctx context.Context, doc *Payment, formatOverride string) error {
	if err := s.hooks.Run(ctx, domain.BeforeCreate, doc); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	// An invoice-linked payment inherits the invoice's customer. This must
	// happen before numbering, so the counter and CUSTOMER_SERIES come from
	// the customer's bucket rather than the no-customer one.
	if doc.InvoiceID != nil && doc.CustomerID == nil {
		inv, err := s.invoices.GetByID(ctx, *doc.InvoiceID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("invoice", doc.InvoiceID.String())
			}
			return err
		}
		doc.CustomerID = inv.CustomerID
	}

	err := s.persistNew(ctx, doc, formatOverride)
	if apperror.IsNumberCollision(err) {
		logger.Warn(ctx, "payment number collision, retrying", "number", doc.Number)
		err = s.persistNew(ctx, doc, formatOverride)
	}
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterCreate, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "payment created", "id", doc.ID, "number", doc.Number, "amount", doc.Amount)
	return nil
}

func (s *Service) persistNew(ctx context.Context, doc *Payment, formatOverride string) error {
	if err := s.numbering.Assign(ctx, documents.EntityPayment, &doc.Document, formatOverride, false); err != nil {
		return fmt.Errorf("assign number: %w", err)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if doc.InvoiceID != nil {
			if err := s.applyToInvoice(ctx, doc); err != nil {
				return err
			}
		}
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		return nil
	})
}

func (s *Service) applyToInvoice(ctx context.Context, doc *Payment) error {
	inv, err := s.invoices.GetForUpdate(ctx, *doc.InvoiceID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("invoice", doc.InvoiceID.String())
		}
		return err
	}
	if err := inv.ApplyPayment(doc.Amount); err != nil {
		return err
	}
	if err := s.invoices.Update(ctx, inv); err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByID retrieves a payment.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Payment, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("payment", docID.String())
		}
		return nil, err
	}
	return doc, nil
}

// Update persists payment changes. Amount and invoice link are immutable
// once recorded; delete and re-create the payment to change them.
func (s *Service) Update(ctx context.Context, doc *Payment, formatOverride string) error {
	stored, err := s.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}
	if !stored.Amount.Equal(doc.Amount) {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "payment amount cannot be changed").
			WithDetail("field", "amount")
	}
	if !idPtrEqual(stored.InvoiceID, doc.InvoiceID) {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule, "payment invoice cannot be changed").
			WithDetail("field", "invoiceId")
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeUpdate, doc); err != nil {
		return err
	}
	if err := s.numbering.Assign(ctx, documents.EntityPayment, &doc.Document, formatOverride, true); err != nil {
		return fmt.Errorf("assign number: %w", err)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return err
	}

	if err := s.hooks.Run(ctx, domain.AfterUpdate, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}
	return nil
}

// Delete soft-deletes a payment, restoring the linked invoice's due amount.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if err := s.hooks.Run(ctx, domain.BeforeDelete, doc); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if doc.InvoiceID != nil {
			inv, err := s.invoices.GetForUpdate(ctx, *doc.InvoiceID)
			if err != nil && !apperror.IsNotFound(err) {
				return err
			}
			if err == nil {
				inv.RevertPayment(doc.Amount)
				if err := s.invoices.Update(ctx, inv); err != nil {
					return fmt.Errorf("update invoice: %w", err)
				}
			}
		}
		return s.repo.SetDeletionMark(ctx, docID, true)
	})
}

// List retrieves payments with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error) {
	return s.repo.List(ctx, filter)
}

// NextNumber previews the number the next payment would receive.
func (s *Service) NextNumber(ctx context.Context, companyID id.ID, customerID *id.ID, formatOverride string) (string, error) {
	return s.numbering.Preview(ctx, documents.EntityPayment, companyID, customerID, formatOverride)
}

func idPtrEqual(a, b *id.ID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
