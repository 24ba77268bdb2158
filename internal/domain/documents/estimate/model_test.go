package estimate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facture/internal/core/id"
)

func TestLifecycle(t *testing.T) {
	est := New(id.New())
	est.AddLine("design", decimal.NewFromInt(1), decimal.NewFromInt(500), decimal.Zero)

	require.NoError(t, est.MarkSent())
	assert.Equal(t, StatusSent, est.Status)

	require.NoError(t, est.Accept())
	assert.Equal(t, StatusAccepted, est.Status)
}

func TestAccept_RequiresSentOrViewed(t *testing.T) {
	est := New(id.New())
	require.Error(t, est.Accept(), "draft")

	require.NoError(t, est.MarkSent())
	require.NoError(t, est.Reject())
	require.Error(t, est.Accept(), "rejected")
}

func TestReject_RequiresSentOrViewed(t *testing.T) {
	est := New(id.New())
	require.Error(t, est.Reject(), "draft")
}

func TestIsExpired(t *testing.T) {
	est := New(id.New())
	now := time.Now()

	assert.False(t, est.IsExpired(now), "no expiry date")

	past := now.Add(-time.Hour)
	est.ExpiryDate = &past
	assert.True(t, est.IsExpired(now))

	future := now.Add(time.Hour)
	est.ExpiryDate = &future
	assert.False(t, est.IsExpired(now))
}

func TestRecalculateTotals_PercentageDiscount(t *testing.T) {
	est := New(id.New())
	est.DiscountType = DiscountPercentage
	est.Discount = decimal.NewFromInt(25)
	est.AddLine("work", decimal.NewFromInt(4), decimal.NewFromInt(100), decimal.NewFromInt(10))

	assert.True(t, est.SubTotal.Equal(decimal.NewFromInt(400)), "sub total: %s", est.SubTotal)
	assert.True(t, est.Tax.Equal(decimal.NewFromInt(40)), "tax: %s", est.Tax)
	// 400 + 40 - 100 discount
	assert.True(t, est.Total.Equal(decimal.NewFromInt(340)), "total: %s", est.Total)
}
