package entity

import (
	"encoding/json"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier represents a supplier and its running financial totals, the
// payable-side mirror of Customer. OutstandingPayable is always recomputed as
// max(0, TotalPurchased-TotalPaid).
type Supplier struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Email    *string   `gorm:"size:255" json:"email,omitempty"`
	Phone    *string   `gorm:"size:50" json:"phone,omitempty"`
	Address  *string   `gorm:"type:text" json:"address,omitempty"`
	ShopName *string   `gorm:"size:255;column:shopname" json:"shopname,omitempty"`

	// Financials, amounts stored in cents
	TotalPurchased     int64      `gorm:"default:0" json:"-"`
	TotalPaid          int64      `gorm:"default:0" json:"-"`
	OutstandingPayable int64      `gorm:"default:0" json:"-"`
	AverageOrderValue  int64      `gorm:"default:0" json:"-"`
	LastPaymentDate    *time.Time `json:"last_payment_date,omitempty"`
	LastSupplyDate     *time.Time `json:"last_supply_date,omitempty"`

	PaymentTerms enum.SupplierTerms `gorm:"size:50;default:'immediate'" json:"payment_terms"`
	SupplyCount  int                `gorm:"default:0" json:"supply_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Invoices []Invoice `gorm:"foreignKey:SupplierID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new supplier
func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}

// RecordFinancialEvent folds a purchased amount and a paid amount (cents,
// either may be zero) into the supplier's running totals.
func (s *Supplier) RecordFinancialEvent(purchasedAmount, paidAmount int64, at time.Time) {
	s.TotalPurchased += purchasedAmount
	s.TotalPaid += paidAmount
	s.OutstandingPayable = s.TotalPurchased - s.TotalPaid
	if s.OutstandingPayable < 0 {
		s.OutstandingPayable = 0
	}

	if paidAmount > 0 {
		paymentDate := at
		s.LastPaymentDate = &paymentDate
	}

	if purchasedAmount > 0 {
		supplyDate := at
		s.LastSupplyDate = &supplyDate
		s.SupplyCount++
		s.AverageOrderValue = s.TotalPurchased / int64(s.SupplyCount)
	}
}

// CreditDays returns the payment window implied by the supplier's terms.
func (s *Supplier) CreditDays() int {
	return s.PaymentTerms.CreditDays()
}

// OverdueDays returns how many whole days the payable is past the terms
// window, or 0 when nothing is owed.
func (s *Supplier) OverdueDays(now time.Time) int {
	if s.OutstandingPayable <= 0 || s.LastSupplyDate == nil {
		return 0
	}
	dueDate := s.LastSupplyDate.AddDate(0, 0, s.CreditDays())
	days := int(now.Sub(dueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DueStatus buckets the payable: paid, current, due_soon (within 15 days of
// the terms window) or overdue.
func (s *Supplier) DueStatus(now time.Time) DueStatus {
	if s.OutstandingPayable <= 0 {
		return DueStatusPaid
	}
	if s.OverdueDays(now) > 0 {
		return DueStatusOverdue
	}
	if s.LastSupplyDate != nil {
		dueDate := s.LastSupplyDate.AddDate(0, 0, s.CreditDays())
		if dueDate.Sub(now).Hours() <= 15*24 {
			return DueStatusDueSoon
		}
	}
	return DueStatusCurrent
}

// MarshalJSON converts Supplier to JSON with decimal amounts
func (s Supplier) MarshalJSON() ([]byte, error) {
	type Alias Supplier
	return json.Marshal(&struct {
		Alias
		TotalPurchased     float64 `json:"total_purchased"`
		TotalPaid          float64 `json:"total_paid"`
		OutstandingPayable float64 `json:"outstanding_payable"`
		AverageOrderValue  float64 `json:"average_order_value"`
	}{
		Alias:              Alias(s),
		TotalPurchased:     float64(s.TotalPurchased) / 100,
		TotalPaid:          float64(s.TotalPaid) / 100,
		OutstandingPayable: float64(s.OutstandingPayable) / 100,
		AverageOrderValue:  float64(s.AverageOrderValue) / 100,
	})
}
