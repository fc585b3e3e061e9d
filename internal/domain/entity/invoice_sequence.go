package entity

import "fmt"

// InvoiceSequence is a monotonic per-prefix-per-month counter backing invoice
// number generation. Bumped with an atomic upsert so concurrent creations in
// the same period never collide.
type InvoiceSequence struct {
	Prefix  string `gorm:"size:10;primaryKey"`
	Period  string `gorm:"size:6;primaryKey"` // YYYYMM
	Counter int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}

// FormatInvoiceNumber renders {PREFIX}{YYYYMM}{NNNN}.
func FormatInvoiceNumber(prefix, period string, counter int64) string {
	return fmt.Sprintf("%s%s%04d", prefix, period, counter)
}
