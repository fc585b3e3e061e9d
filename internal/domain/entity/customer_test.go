package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizstack/bizledger-api/internal/domain/enum"
)

func TestRecordFinancialEvent_BilledAndPaid(t *testing.T) {
	customer := &Customer{CreditDays: 30, LoyaltyTier: enum.TierBronze}
	now := time.Now()

	customer.RecordFinancialEvent(50_000, 20_000, now)

	assert.Equal(t, int64(50_000), customer.TotalBilled)
	assert.Equal(t, int64(20_000), customer.TotalPaid)
	assert.Equal(t, int64(30_000), customer.OutstandingDue)
	assert.Equal(t, 1, customer.VisitCount)
	assert.Equal(t, 500, customer.LoyaltyPoints)
	require.NotNil(t, customer.LastPurchaseDate)
	require.NotNil(t, customer.LastPaymentDate)
}

func TestRecordFinancialEvent_OutstandingNeverNegative(t *testing.T) {
	customer := &Customer{CreditDays: 30}
	now := time.Now()

	customer.RecordFinancialEvent(10_000, 0, now)
	customer.RecordFinancialEvent(0, 15_000, now)

	assert.Equal(t, int64(0), customer.OutstandingDue)
}

func TestRecordFinancialEvent_PaymentOnlyDoesNotTouchLoyalty(t *testing.T) {
	customer := &Customer{CreditDays: 30}
	now := time.Now()

	customer.RecordFinancialEvent(0, 5_000, now)

	assert.Equal(t, 0, customer.VisitCount)
	assert.Equal(t, 0, customer.LoyaltyPoints)
	assert.Nil(t, customer.LastPurchaseDate)
	require.NotNil(t, customer.LastPaymentDate)
}

func TestLoyaltyTierProgression(t *testing.T) {
	customer := &Customer{CreditDays: 30, LoyaltyTier: enum.TierBronze}
	now := time.Now()

	customer.RecordFinancialEvent(enum.SilverThresholdCents, enum.SilverThresholdCents, now)
	assert.Equal(t, enum.TierSilver, customer.LoyaltyTier)

	customer.RecordFinancialEvent(enum.GoldThresholdCents-enum.SilverThresholdCents, 0, now)
	assert.Equal(t, enum.TierGold, customer.LoyaltyTier)

	customer.RecordFinancialEvent(enum.PlatinumThresholdCents-enum.GoldThresholdCents, 0, now)
	assert.Equal(t, enum.TierPlatinum, customer.LoyaltyTier)
}

func TestAverageOrderValue(t *testing.T) {
	customer := &Customer{CreditDays: 30}
	now := time.Now()

	customer.RecordFinancialEvent(10_000, 0, now)
	customer.RecordFinancialEvent(30_000, 0, now)

	assert.Equal(t, int64(20_000), customer.AverageOrderValue)
}

func TestDueStatusBuckets(t *testing.T) {
	now := time.Now()

	paid := &Customer{CreditDays: 30}
	assert.Equal(t, DueStatusPaid, paid.DueStatus(now))

	tests := []struct {
		name        string
		purchasedAt time.Time
		want        DueStatus
	}{
		{"within credit window", now.AddDate(0, 0, -10), DueStatusCurrent},
		{"overdue under 30", now.AddDate(0, 0, -45), DueStatusOverdue30},
		{"overdue under 60", now.AddDate(0, 0, -80), DueStatusOverdue60},
		{"overdue past 90", now.AddDate(0, 0, -150), DueStatusOverdue90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			purchased := tt.purchasedAt
			customer := &Customer{
				CreditDays:       30,
				OutstandingDue:   5_000,
				LastPurchaseDate: &purchased,
			}
			assert.Equal(t, tt.want, customer.DueStatus(now))
		})
	}
}

func TestCanMakePurchase(t *testing.T) {
	cash := &Customer{PaymentTerms: enum.TermsCash}
	assert.True(t, cash.CanMakePurchase(1_000_000))

	blacklisted := &Customer{PaymentTerms: enum.TermsCash, IsBlacklisted: true}
	assert.False(t, blacklisted.CanMakePurchase(100))

	credit := &Customer{
		PaymentTerms:   enum.TermsCredit,
		CreditLimit:    100_000,
		OutstandingDue: 40_000,
	}
	assert.True(t, credit.CanMakePurchase(60_000))
	assert.False(t, credit.CanMakePurchase(60_001))
}
