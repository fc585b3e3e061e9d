package entity

import (
	"encoding/json"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is one immutable entry in the account ledger. For a fixed
// account, entries ordered by (date, created_at) form a chain in which each
// entry's BalanceBefore equals the previous entry's BalanceAfter. Entries are
// never mutated after creation except by the explicit chain-rebuild repair.
type Transaction struct {
	ID            uuid.UUID                `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID                `gorm:"type:uuid;not null;index" json:"user_id"`
	Type          string                   `gorm:"size:100;not null" json:"type"`
	Category      enum.TransactionCategory `gorm:"size:50;not null;index" json:"category"`
	Account       enum.Account             `gorm:"size:50;not null;index" json:"account"`
	Amount        int64                    `gorm:"not null" json:"-"` // Stored in cents, always >= 0
	BalanceBefore int64                    `gorm:"not null" json:"-"` // Stored in cents
	BalanceAfter  int64                    `gorm:"not null" json:"-"` // Stored in cents
	Description   string                   `gorm:"size:500" json:"description"`
	CustomerID    *uuid.UUID               `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SupplierID    *uuid.UUID               `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	InvoiceID     *uuid.UUID               `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	Date          time.Time                `gorm:"not null;index" json:"date"`
	CreatedAt     time.Time                `json:"created_at"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"-"`
	Invoice  *Invoice  `gorm:"foreignKey:InvoiceID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// SignedAmount returns the amount with the category's sign applied.
func (t *Transaction) SignedAmount() int64 {
	return t.Category.Sign() * t.Amount
}

// Chain sets the balance pair from the balance preceding this entry.
func (t *Transaction) Chain(balanceBefore int64) {
	t.BalanceBefore = balanceBefore
	t.BalanceAfter = balanceBefore + t.SignedAmount()
}

// MarshalJSON converts Transaction to JSON with decimal amounts
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		Amount        float64 `json:"amount"`
		BalanceBefore float64 `json:"balance_before"`
		BalanceAfter  float64 `json:"balance_after"`
	}{
		Alias:         Alias(t),
		Amount:        float64(t.Amount) / 100,
		BalanceBefore: float64(t.BalanceBefore) / 100,
		BalanceAfter:  float64(t.BalanceAfter) / 100,
	})
}
