package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bizstack/bizledger-api/internal/domain/enum"
)

func TestSupplierRecordFinancialEvent(t *testing.T) {
	supplier := &Supplier{PaymentTerms: enum.SupplierTermsNet30}
	now := time.Now()

	supplier.RecordFinancialEvent(80_000, 30_000, now)

	assert.Equal(t, int64(80_000), supplier.TotalPurchased)
	assert.Equal(t, int64(30_000), supplier.TotalPaid)
	assert.Equal(t, int64(50_000), supplier.OutstandingPayable)
	assert.Equal(t, 1, supplier.SupplyCount)
	assert.Equal(t, int64(80_000), supplier.AverageOrderValue)

	supplier.RecordFinancialEvent(40_000, 0, now)
	assert.Equal(t, 2, supplier.SupplyCount)
	assert.Equal(t, int64(60_000), supplier.AverageOrderValue)
}

func TestSupplierTermsCreditDays(t *testing.T) {
	tests := []struct {
		terms enum.SupplierTerms
		days  int
	}{
		{enum.SupplierTermsImmediate, 0},
		{enum.SupplierTermsNet15, 15},
		{enum.SupplierTermsNet30, 30},
		{enum.SupplierTermsNet60, 60},
		{enum.SupplierTermsNet90, 90},
	}

	for _, tt := range tests {
		supplier := &Supplier{PaymentTerms: tt.terms}
		assert.Equal(t, tt.days, supplier.CreditDays(), "terms %s", tt.terms)
	}
}

func TestSupplierDueStatus(t *testing.T) {
	now := time.Now()

	settled := &Supplier{PaymentTerms: enum.SupplierTermsNet30}
	assert.Equal(t, DueStatusPaid, settled.DueStatus(now))

	recent := now.AddDate(0, 0, -5)
	current := &Supplier{
		PaymentTerms:       enum.SupplierTermsNet90,
		OutstandingPayable: 10_000,
		LastSupplyDate:     &recent,
	}
	assert.Equal(t, DueStatusCurrent, current.DueStatus(now))

	closing := now.AddDate(0, 0, -20)
	dueSoon := &Supplier{
		PaymentTerms:       enum.SupplierTermsNet30,
		OutstandingPayable: 10_000,
		LastSupplyDate:     &closing,
	}
	assert.Equal(t, DueStatusDueSoon, dueSoon.DueStatus(now))

	old := now.AddDate(0, 0, -45)
	overdue := &Supplier{
		PaymentTerms:       enum.SupplierTermsNet30,
		OutstandingPayable: 10_000,
		LastSupplyDate:     &old,
	}
	assert.Equal(t, DueStatusOverdue, overdue.DueStatus(now))
}
