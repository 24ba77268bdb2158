package invoice

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facture/internal/core/apperror"
	"facture/internal/core/id"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAddLine_Totals(t *testing.T) {
	inv := New(id.New())
	inv.AddLine("consulting", dec("10"), dec("100"), dec("20"))
	inv.AddLine("hosting", dec("1"), dec("50"), dec("0"))

	assert.True(t, inv.SubTotal.Equal(dec("1050")), "sub total: %s", inv.SubTotal)
	assert.True(t, inv.Tax.Equal(dec("200")), "tax: %s", inv.Tax)
	assert.True(t, inv.Total.Equal(dec("1250")), "total: %s", inv.Total)
	assert.True(t, inv.DueAmount.Equal(inv.Total))

	require.Len(t, inv.Lines, 2)
	assert.Equal(t, 1, inv.Lines[0].LineNo)
	assert.Equal(t, 2, inv.Lines[1].LineNo)
	assert.True(t, inv.Lines[0].Amount.Equal(dec("1200")))
}

func TestRecalculateTotals_PercentageDiscount(t *testing.T) {
	inv := New(id.New())
	inv.DiscountType = DiscountPercentage
	inv.Discount = dec("10")
	inv.AddLine("item", dec("2"), dec("500"), dec("0"))

	// 1000 subtotal, 10% discount
	assert.True(t, inv.Total.Equal(dec("900")), "total: %s", inv.Total)
}

func TestRecalculateTotals_FixedDiscount(t *testing.T) {
	inv := New(id.New())
	inv.Discount = dec("150")
	inv.AddLine("item", dec("1"), dec("1000"), dec("20"))

	// 1000 + 200 tax - 150
	assert.True(t, inv.Total.Equal(dec("1050")), "total: %s", inv.Total)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	inv := New(id.New())
	err := inv.Validate(ctx)
	require.Error(t, err, "no lines")

	inv.AddLine("item", dec("1"), dec("10"), dec("0"))
	require.NoError(t, inv.Validate(ctx))

	inv.Discount = dec("-5")
	err = inv.Validate(ctx)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestMarkSent(t *testing.T) {
	inv := New(id.New())
	require.NoError(t, inv.MarkSent())
	assert.Equal(t, StatusSent, inv.Status)

	err := inv.MarkSent()
	require.Error(t, err, "already sent")
}

func TestMarkViewed_OnlyAfterSent(t *testing.T) {
	inv := New(id.New())
	inv.MarkViewed()
	assert.Equal(t, StatusDraft, inv.Status)

	require.NoError(t, inv.MarkSent())
	inv.MarkViewed()
	assert.Equal(t, StatusViewed, inv.Status)
}

func TestApplyPayment(t *testing.T) {
	inv := New(id.New())
	inv.AddLine("item", dec("1"), dec("100"), dec("0"))
	require.NoError(t, inv.MarkSent())

	require.NoError(t, inv.ApplyPayment(dec("40")))
	assert.Equal(t, PaidStatusPartially, inv.PaidStatus)
	assert.True(t, inv.DueAmount.Equal(dec("60")))

	require.NoError(t, inv.ApplyPayment(dec("60")))
	assert.Equal(t, PaidStatusPaid, inv.PaidStatus)
	assert.Equal(t, StatusCompleted, inv.Status)
	assert.True(t, inv.DueAmount.IsZero())
}

func TestApplyPayment_ExceedsDue(t *testing.T) {
	inv := New(id.New())
	inv.AddLine("item", dec("1"), dec("100"), dec("0"))

	err := inv.ApplyPayment(dec("150"))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePaymentExceedsDue, appErr.Code)
}

func TestApplyPayment_RejectsNonPositive(t *testing.T) {
	inv := New(id.New())
	inv.AddLine("item", dec("1"), dec("100"), dec("0"))

	require.Error(t, inv.ApplyPayment(decimal.Zero))
	require.Error(t, inv.ApplyPayment(dec("-1")))
}

func TestRevertPayment(t *testing.T) {
	inv := New(id.New())
	inv.AddLine("item", dec("1"), dec("100"), dec("0"))
	require.NoError(t, inv.MarkSent())
	require.NoError(t, inv.ApplyPayment(dec("100")))
	require.Equal(t, StatusCompleted, inv.Status)

	inv.RevertPayment(dec("100"))
	assert.Equal(t, PaidStatusUnpaid, inv.PaidStatus)
	assert.Equal(t, StatusSent, inv.Status)
	assert.True(t, inv.DueAmount.Equal(inv.Total))
}
