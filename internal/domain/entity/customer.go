package entity

import (
	"encoding/json"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DueStatus buckets a party's outstanding balance by how overdue it is.
type DueStatus string

const (
	DueStatusPaid      DueStatus = "paid"
	DueStatusCurrent   DueStatus = "current"
	DueStatusOverdue30 DueStatus = "overdue_30"
	DueStatusOverdue60 DueStatus = "overdue_60"
	DueStatusOverdue90 DueStatus = "overdue_90"
	DueStatusDueSoon   DueStatus = "due_soon"
	DueStatusOverdue   DueStatus = "overdue"
)

// Customer represents a customer and its running financial totals.
// OutstandingDue is always recomputed as max(0, TotalBilled-TotalPaid) and is
// never written independently of that formula.
type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name    string    `gorm:"size:255;not null" json:"name"`
	Email   *string   `gorm:"size:255" json:"email,omitempty"`
	Phone   *string   `gorm:"size:50" json:"phone,omitempty"`
	Address *string   `gorm:"type:text" json:"address,omitempty"`

	// Financials, amounts stored in cents
	TotalBilled       int64      `gorm:"default:0" json:"-"`
	TotalPaid         int64      `gorm:"default:0" json:"-"`
	OutstandingDue    int64      `gorm:"default:0" json:"-"`
	AverageOrderValue int64      `gorm:"default:0" json:"-"`
	LastPaymentDate   *time.Time `json:"last_payment_date,omitempty"`
	LastPurchaseDate  *time.Time `json:"last_purchase_date,omitempty"`

	// Credit
	CreditLimit   int64             `gorm:"default:0" json:"-"`
	PaymentTerms  enum.PaymentTerms `gorm:"size:50;default:'cash'" json:"payment_terms"`
	CreditDays    int               `gorm:"default:30" json:"credit_days"`
	IsBlacklisted bool              `gorm:"default:false" json:"is_blacklisted"`

	// Loyalty, derived from cumulative spend
	LoyaltyPoints     int              `gorm:"default:0" json:"loyalty_points"`
	LoyaltyTier       enum.LoyaltyTier `gorm:"size:50;default:'bronze'" json:"loyalty_tier"`
	LoyaltyTotalSpent int64            `gorm:"default:0" json:"-"`
	VisitCount        int              `gorm:"default:0" json:"visit_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Invoices []Invoice `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// RecordFinancialEvent folds a billed amount and a paid amount (cents, either
// may be zero) into the customer's running totals and recomputes every
// derived field.
func (c *Customer) RecordFinancialEvent(billedAmount, paidAmount int64, at time.Time) {
	c.TotalBilled += billedAmount
	c.TotalPaid += paidAmount
	c.OutstandingDue = c.TotalBilled - c.TotalPaid
	if c.OutstandingDue < 0 {
		c.OutstandingDue = 0
	}

	if paidAmount > 0 {
		paymentDate := at
		c.LastPaymentDate = &paymentDate
	}

	if billedAmount > 0 {
		purchaseDate := at
		c.LastPurchaseDate = &purchaseDate
		c.LoyaltyTotalSpent += billedAmount
		c.VisitCount++
		c.LoyaltyPoints += int(billedAmount / 100)
		c.LoyaltyTier = enum.TierForSpend(c.LoyaltyTotalSpent)
		c.AverageOrderValue = c.TotalBilled / int64(c.VisitCount)
	}
}

// OverdueDays returns how many whole days the outstanding balance is past the
// credit window, or 0 when nothing is outstanding.
func (c *Customer) OverdueDays(now time.Time) int {
	if c.OutstandingDue <= 0 || c.LastPurchaseDate == nil {
		return 0
	}
	dueDate := c.LastPurchaseDate.AddDate(0, 0, c.CreditDays)
	days := int(now.Sub(dueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DueStatus buckets the customer's balance: paid, current, or overdue by
// 30/60/90-day thresholds.
func (c *Customer) DueStatus(now time.Time) DueStatus {
	if c.OutstandingDue <= 0 {
		return DueStatusPaid
	}
	days := c.OverdueDays(now)
	switch {
	case days <= 0:
		return DueStatusCurrent
	case days <= 30:
		return DueStatusOverdue30
	case days <= 60:
		return DueStatusOverdue60
	default:
		return DueStatusOverdue90
	}
}

// CanMakePurchase reports whether a credit purchase of amount cents is
// allowed. Cash customers are never credit-gated; blacklisted customers are
// always refused.
func (c *Customer) CanMakePurchase(amount int64) bool {
	if c.IsBlacklisted {
		return false
	}
	if c.PaymentTerms == enum.TermsCash {
		return true
	}
	return amount <= c.CreditLimit-c.OutstandingDue
}

// MarshalJSON converts Customer to JSON with decimal amounts
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		TotalBilled       float64 `json:"total_billed"`
		TotalPaid         float64 `json:"total_paid"`
		OutstandingDue    float64 `json:"outstanding_due"`
		AverageOrderValue float64 `json:"average_order_value"`
		CreditLimit       float64 `json:"credit_limit"`
		LoyaltyTotalSpent float64 `json:"loyalty_total_spent"`
	}{
		Alias:             Alias(c),
		TotalBilled:       float64(c.TotalBilled) / 100,
		TotalPaid:         float64(c.TotalPaid) / 100,
		OutstandingDue:    float64(c.OutstandingDue) / 100,
		AverageOrderValue: float64(c.AverageOrderValue) / 100,
		CreditLimit:       float64(c.CreditLimit) / 100,
		LoyaltyTotalSpent: float64(c.LoyaltyTotalSpent) / 100,
	})
}
