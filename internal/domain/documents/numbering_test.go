package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facture/internal/core/entity"
	"facture/internal/core/id"
	"facture/internal/core/serial"
)

func TestAssign_NewDocument(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	src := serial.NewMockSource()
	src.SetFormat(companyID, EntityInvoice, "INV-{{SEQUENCE:4}}")
	src.SetSequence(companyID, EntityInvoice, 41)

	numbering := NewNumbering(src, src, src)

	doc := entity.NewDocument(companyID)
	err := numbering.Assign(ctx, EntityInvoice, &doc, "", false)
	require.NoError(t, err)

	assert.Equal(t, "INV-0042", doc.Number)
	assert.Equal(t, int64(42), doc.SequenceNumber)

	// Documents without a customer draw from the shared no-customer bucket.
	require.NotNil(t, doc.CustomerSequenceNumber)
	assert.Equal(t, int64(1), *doc.CustomerSequenceNumber)
}

func TestAssign_FormatOverrideWins(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	src := serial.NewMockSource()
	src.SetFormat(companyID, EntityInvoice, "INV-{{SEQUENCE:4}}")

	numbering := NewNumbering(src, src, src)

	doc := entity.NewDocument(companyID)
	err := numbering.Assign(ctx, EntityInvoice, &doc, "X{{SEQUENCE:2}}", false)
	require.NoError(t, err)

	assert.Equal(t, "X01", doc.Number)
}

func TestAssign_CustomerPlaceholders(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()
	customerID := id.New()

	src := serial.NewMockSource()
	src.AddCustomer(serial.CustomerRef{ID: customerID, Prefix: "ACME"})
	src.SetFormat(companyID, EntityInvoice, "{{CUSTOMER_SERIES}}-{{CUSTOMER_SEQUENCE:3}}")
	src.SetCustomerSequence(companyID, EntityInvoice, &customerID, 7)

	numbering := NewNumbering(src, src, src)

	doc := entity.NewDocument(companyID)
	doc.CustomerID = &customerID
	err := numbering.Assign(ctx, EntityInvoice, &doc, "", false)
	require.NoError(t, err)

	assert.Equal(t, "ACME-008", doc.Number)
	require.NotNil(t, doc.CustomerSequenceNumber)
	assert.Equal(t, int64(8), *doc.CustomerSequenceNumber)
}

func TestAssign_ExistingDocumentKeepsCounters(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	src := serial.NewMockSource()
	src.SetFormat(companyID, EntityInvoice, "INV-{{SEQUENCE:4}}")
	src.SetSequence(companyID, EntityInvoice, 100)

	numbering := NewNumbering(src, src, src)

	doc := entity.NewDocument(companyID)
	doc.SequenceNumber = 15
	src.AddDocument(serial.DocumentRef{ID: doc.ID, SequenceNumber: 15})

	err := numbering.Assign(ctx, EntityInvoice, &doc, "", true)
	require.NoError(t, err)

	// The stored document re-renders with its own counter, not counter 101.
	assert.Equal(t, "INV-0015", doc.Number)
	assert.Equal(t, int64(15), doc.SequenceNumber)
}

func TestAssign_DefaultFormatWhenUnconfigured(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	src := serial.NewMockSource()
	numbering := NewNumbering(src, src, src)

	doc := entity.NewDocument(companyID)
	err := numbering.Assign(ctx, EntityInvoice, &doc, "", false)
	require.NoError(t, err)

	assert.Equal(t, "000001", doc.Number)
	assert.Equal(t, int64(1), doc.SequenceNumber)
}

func TestAssign_CountersAreScopedPerEntityType(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	src := serial.NewMockSource()
	src.SetFormat(companyID, EntityInvoice, "INV-{{SEQUENCE:3}}")
	src.SetFormat(companyID, EntityEstimate, "EST-{{SEQUENCE:3}}")
	src.SetSequence(companyID, EntityInvoice, 9)

	numbering := NewNumbering(src, src, src)

	inv := entity.NewDocument(companyID)
	require.NoError(t, numbering.Assign(ctx, EntityInvoice, &inv, "", false))
	est := entity.NewDocument(companyID)
	require.NoError(t, numbering.Assign(ctx, EntityEstimate, &est, "", false))

	assert.Equal(t, "INV-010", inv.Number)
	assert.Equal(t, "EST-001", est.Number)
}

func TestPreview_DoesNotAdvanceCounters(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	src := serial.NewMockSource()
	src.SetFormat(companyID, EntityPayment, "PAY-{{SEQUENCE:4}}")
	src.SetSequence(companyID, EntityPayment, 3)

	numbering := NewNumbering(src, src, src)

	for i := 0; i < 3; i++ {
		number, err := numbering.Preview(ctx, EntityPayment, companyID, nil, "")
		require.NoError(t, err)
		assert.Equal(t, "PAY-0004", number)
	}
}

func TestPreview_UnknownCustomerFallsBackToDefaultSeries(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()
	missing := id.New()

	src := serial.NewMockSource()
	src.SetFormat(companyID, EntityInvoice, "{{CUSTOMER_SERIES}}-{{SEQUENCE:2}}")

	numbering := NewNumbering(src, src, src)

	number, err := numbering.Preview(ctx, EntityInvoice, companyID, &missing, "")
	require.NoError(t, err)
	assert.Equal(t, "CST-01", number)
}
