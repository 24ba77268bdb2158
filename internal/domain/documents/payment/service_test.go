package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
	"facture/internal/core/serial"
	"facture/internal/domain"
	"facture/internal/domain/documents"
	"facture/internal/domain/documents/invoice"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePaymentRepo struct {
	created []*Payment
	stored  map[id.ID]*Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{stored: make(map[id.ID]*Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, doc *Payment) error {
	cp := *doc
	r.created = append(r.created, &cp)
	r.stored[doc.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, docID id.ID) (*Payment, error) {
	doc, ok := r.stored[docID]
	if !ok {
		return nil, apperror.NewNotFound("payment", docID.String())
	}
	cp := *doc
	return &cp, nil
}

func (r *fakePaymentRepo) GetByNumber(_ context.Context, number string) (*Payment, error) {
	return nil, apperror.NewNotFound("payment", number)
}

func (r *fakePaymentRepo) Update(_ context.Context, doc *Payment) error {
	cp := *doc
	r.stored[doc.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) SetDeletionMark(_ context.Context, docID id.ID, marked bool) error {
	if doc, ok := r.stored[docID]; ok {
		doc.DeletionMark = marked
	}
	return nil
}

func (r *fakePaymentRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*Payment], error) {
	return domain.ListResult[*Payment]{}, nil
}

type fakeInvoiceRepo struct {
	invoices map[id.ID]*invoice.Invoice
}

func newFakeInvoiceRepo(invs ...*invoice.Invoice) *fakeInvoiceRepo {
	r := &fakeInvoiceRepo{invoices: make(map[id.ID]*invoice.Invoice)}
	for _, inv := range invs {
		r.invoices[inv.ID] = inv
	}
	return r
}

func (r *fakeInvoiceRepo) get(docID id.ID) (*invoice.Invoice, error) {
	inv, ok := r.invoices[docID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", docID.String())
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) Create(_ context.Context, doc *invoice.Invoice) error {
	r.invoices[doc.ID] = doc
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, docID id.ID) (*invoice.Invoice, error) {
	return r.get(docID)
}

func (r *fakeInvoiceRepo) GetByNumber(_ context.Context, number string) (*invoice.Invoice, error) {
	return nil, apperror.NewNotFound("invoice", number)
}

func (r *fakeInvoiceRepo) Update(_ context.Context, doc *invoice.Invoice) error {
	cp := *doc
	r.invoices[doc.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) SetDeletionMark(_ context.Context, docID id.ID, marked bool) error {
	if inv, ok := r.invoices[docID]; ok {
		inv.DeletionMark = marked
	}
	return nil
}

func (r *fakeInvoiceRepo) GetLines(_ context.Context, _ id.ID) ([]invoice.Line, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) SaveLines(_ context.Context, _ id.ID, _ []invoice.Line) error {
	return nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, _ invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	return domain.ListResult[*invoice.Invoice]{}, nil
}

func (r *fakeInvoiceRepo) GetForUpdate(_ context.Context, docID id.ID) (*invoice.Invoice, error) {
	return r.get(docID)
}

func newTestService(invoices invoice.Repository, src *serial.MockSource) (*Service, *fakePaymentRepo) {
	repo := newFakePaymentRepo()
	numbering := documents.NewNumbering(src, src, src)
	return NewService(repo, invoices, numbering, fakeTxManager{}), repo
}

func TestCreate_InheritsCustomerFromInvoiceBeforeNumbering(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()
	customerID := id.New()

	inv := invoice.New(companyID)
	inv.SetCustomer(customerID)
	inv.AddLine("Consulting", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero)

	src := serial.NewMockSource()
	src.AddCustomer(serial.CustomerRef{ID: customerID, Prefix: "ACME"})
	src.SetFormat(companyID, documents.EntityPayment, "{{CUSTOMER_SERIES}}-{{CUSTOMER_SEQUENCE:3}}")

	invoiceRepo := newFakeInvoiceRepo(inv)
	svc, repo := newTestService(invoiceRepo, src)

	doc := New(companyID, decimal.NewFromInt(100))
	doc.InvoiceID = &inv.ID

	require.NoError(t, svc.Create(ctx, doc, ""))

	// The customer is resolved from the invoice before the number is
	// drawn, so the counter comes from the customer's bucket.
	require.NotNil(t, doc.CustomerID)
	assert.Equal(t, customerID, *doc.CustomerID)
	assert.Equal(t, "ACME-001", doc.Number)
	require.NotNil(t, doc.CustomerSequenceNumber)
	assert.Equal(t, int64(1), *doc.CustomerSequenceNumber)

	require.Len(t, repo.created, 1)
	assert.Equal(t, customerID, *repo.created[0].CustomerID)

	settled, err := invoiceRepo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, settled.DueAmount.IsZero())
	assert.Equal(t, invoice.PaidStatusPaid, settled.PaidStatus)
}

func TestCreate_WithoutInvoiceUsesSharedBucket(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	src := serial.NewMockSource()
	src.SetFormat(companyID, documents.EntityPayment, "PAY-{{SEQUENCE:4}}")

	svc, repo := newTestService(newFakeInvoiceRepo(), src)

	doc := New(companyID, decimal.NewFromInt(50))
	require.NoError(t, svc.Create(ctx, doc, ""))

	assert.Nil(t, doc.CustomerID)
	assert.Equal(t, "PAY-0001", doc.Number)
	require.Len(t, repo.created, 1)
}

func TestCreate_UnknownInvoiceFails(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	src := serial.NewMockSource()
	svc, repo := newTestService(newFakeInvoiceRepo(), src)

	doc := New(companyID, decimal.NewFromInt(25))
	missing := id.New()
	doc.InvoiceID = &missing

	err := svc.Create(ctx, doc, "")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, repo.created)
}

func TestCreate_ExplicitCustomerIsKept(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()
	invoiceCustomerID := id.New()
	payerID := id.New()

	inv := invoice.New(companyID)
	inv.SetCustomer(invoiceCustomerID)
	inv.AddLine("Consulting", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero)

	src := serial.NewMockSource()
	src.AddCustomer(serial.CustomerRef{ID: payerID, Prefix: "PAYER"})
	src.SetFormat(companyID, documents.EntityPayment, "{{CUSTOMER_SERIES}}-{{CUSTOMER_SEQUENCE:3}}")

	svc, _ := newTestService(newFakeInvoiceRepo(inv), src)

	doc := New(companyID, decimal.NewFromInt(40))
	doc.InvoiceID = &inv.ID
	doc.SetCustomer(payerID)

	require.NoError(t, svc.Create(ctx, doc, ""))

	require.NotNil(t, doc.CustomerID)
	assert.Equal(t, payerID, *doc.CustomerID)
	assert.Equal(t, "PAYER-001", doc.Number)
}

func TestDelete_RevertsInvoiceDueAmount(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()
	customerID := id.New()

	inv := invoice.New(companyID)
	inv.SetCustomer(customerID)
	inv.AddLine("Consulting", decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero)

	src := serial.NewMockSource()
	src.SetFormat(companyID, documents.EntityPayment, "PAY-{{SEQUENCE:4}}")

	invoiceRepo := newFakeInvoiceRepo(inv)
	svc, _ := newTestService(invoiceRepo, src)

	doc := New(companyID, decimal.NewFromInt(100))
	doc.InvoiceID = &inv.ID
	require.NoError(t, svc.Create(ctx, doc, ""))

	require.NoError(t, svc.Delete(ctx, doc.ID))

	reverted, err := invoiceRepo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", reverted.DueAmount.String())
	assert.Equal(t, invoice.PaidStatusUnpaid, reverted.PaidStatus)
}
