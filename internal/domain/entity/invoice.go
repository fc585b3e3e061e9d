package entity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice lifecycle errors.
var (
	ErrNonPositivePayment = errors.New("payment amount must be positive")
	ErrPaymentExceedsDue  = errors.New("payment exceeds amount due")
	ErrInvoiceCancelled   = errors.New("invoice is cancelled")
)

// DefaultDueDays is the payment window applied when no due date is supplied.
const DefaultDueDays = 30

// Invoice represents a sale, purchase or quick-sale invoice. It owns its
// items and its append-only payment list; status and payment_status are pure
// functions of the totals, the payments and the due date (see UpdateStatus),
// with cancelled as a terminal override.
type Invoice struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type          enum.InvoiceType   `gorm:"size:50;not null;index" json:"type"`
	InvoiceNumber string             `gorm:"size:100;unique;not null" json:"invoice_number"`
	CustomerID    *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	SupplierID    *uuid.UUID         `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Date          time.Time          `gorm:"type:date;not null" json:"date"`
	DueDate       *time.Time         `gorm:"type:date" json:"due_date,omitempty"`
	Subtotal      int64              `gorm:"default:0" json:"-"` // Stored in cents
	Discount      int64              `gorm:"default:0" json:"-"` // Stored in cents
	Tax           int64              `gorm:"default:0" json:"-"` // Stored in cents
	Total         int64              `gorm:"default:0" json:"-"` // Stored in cents
	Status        enum.InvoiceStatus `gorm:"size:50;default:'draft';index" json:"status"`
	PaymentStatus enum.PaymentStatus `gorm:"size:50;default:'unpaid';index" json:"payment_status"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	User     User          `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Supplier *Supplier     `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments []Payment     `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// CalculateTotals recomputes every line total, the subtotal and the invoice
// total. Must run whenever items, discount or tax change, before persisting.
func (i *Invoice) CalculateTotals() {
	var subtotal int64
	for idx := range i.Items {
		i.Items[idx].CalculateTotal()
		subtotal += i.Items[idx].TotalPrice
	}
	i.Subtotal = subtotal
	i.Total = subtotal - i.Discount + i.Tax
}

// AmountPaid returns the sum of all recorded payments in cents.
func (i *Invoice) AmountPaid() int64 {
	var paid int64
	for _, p := range i.Payments {
		paid += p.Amount
	}
	return paid
}

// AmountDue returns total minus the sum of recorded payments.
func (i *Invoice) AmountDue() int64 {
	return i.Total - i.AmountPaid()
}

// DaysOverdue returns whole days past the due date, 0 when fully paid or no
// due date is set.
func (i *Invoice) DaysOverdue(now time.Time) int {
	if i.PaymentStatus == enum.PaymentStatusFullyPaid || i.DueDate == nil {
		return 0
	}
	days := int(now.Sub(*i.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// EnsureDueDate applies the default payment window when no due date was
// supplied. Quick invoices never carry one.
func (i *Invoice) EnsureDueDate() {
	if i.DueDate == nil && i.Type != enum.InvoiceTypeQuick {
		due := i.Date.AddDate(0, 0, DefaultDueDays)
		i.DueDate = &due
	}
}

// AddPayment appends a payment and recomputes the status. The amount must be
// positive and must not exceed the amount due; cancelled invoices take no
// further payments.
func (i *Invoice) AddPayment(payment Payment, now time.Time) error {
	if i.Status == enum.InvoiceStatusCancelled {
		return ErrInvoiceCancelled
	}
	if payment.Amount <= 0 {
		return ErrNonPositivePayment
	}
	if payment.Amount > i.AmountDue() {
		return ErrPaymentExceedsDue
	}

	payment.InvoiceID = i.ID
	if payment.Date.IsZero() {
		payment.Date = now
	}
	i.Payments = append(i.Payments, payment)
	i.UpdateStatus(now)
	return nil
}

// UpdateStatus recomputes payment_status and status from the totals, the
// payments and the due date. Cancelled is terminal and never overwritten.
// received (goods receipt on a purchase invoice) holds until the next
// payment event recomputes the view.
func (i *Invoice) UpdateStatus(now time.Time) {
	if i.Status == enum.InvoiceStatusCancelled {
		return
	}

	paid := i.AmountPaid()
	due := i.Total - paid

	switch {
	case due <= 0:
		i.PaymentStatus = enum.PaymentStatusFullyPaid
	case paid > 0:
		i.PaymentStatus = enum.PaymentStatusPartiallyPaid
	default:
		i.PaymentStatus = enum.PaymentStatusUnpaid
	}

	switch i.PaymentStatus {
	case enum.PaymentStatusFullyPaid:
		i.Status = enum.InvoiceStatusPaid
	case enum.PaymentStatusPartiallyPaid:
		i.Status = enum.InvoiceStatusPartiallyPaid
	default:
		if i.DaysOverdue(now) > 0 {
			i.Status = enum.InvoiceStatusOverdue
		} else {
			i.Status = enum.InvoiceStatusSent
		}
	}
}

// Cancel marks the invoice cancelled. No further transitions are allowed.
func (i *Invoice) Cancel() error {
	if i.Status == enum.InvoiceStatusCancelled {
		return ErrInvoiceCancelled
	}
	i.Status = enum.InvoiceStatusCancelled
	return nil
}

// MarkReceived records goods receipt on a purchase invoice.
func (i *Invoice) MarkReceived() error {
	if i.Status == enum.InvoiceStatusCancelled {
		return ErrInvoiceCancelled
	}
	i.Status = enum.InvoiceStatusReceived
	return nil
}

// MarshalJSON converts Invoice to JSON with decimal amounts and the derived
// amount_paid/amount_due fields.
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		Subtotal   float64 `json:"subtotal"`
		Discount   float64 `json:"discount"`
		Tax        float64 `json:"tax"`
		Total      float64 `json:"total"`
		AmountPaid float64 `json:"amount_paid"`
		AmountDue  float64 `json:"amount_due"`
	}{
		Alias:      Alias(i),
		Subtotal:   float64(i.Subtotal) / 100,
		Discount:   float64(i.Discount) / 100,
		Tax:        float64(i.Tax) / 100,
		Total:      float64(i.Total) / 100,
		AmountPaid: float64(i.AmountPaid()) / 100,
		AmountDue:  float64(i.AmountDue()) / 100,
	})
}

// InvoiceItem represents a line item in an invoice
type InvoiceItem struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ProductID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity   int            `gorm:"not null" json:"quantity"`
	UnitPrice  int64          `gorm:"not null" json:"-"`                           // Stored in cents
	Discount   float64        `gorm:"type:decimal(5,2);default:0" json:"discount"` // Percent
	Tax        int64          `gorm:"default:0" json:"-"`                          // Stored in cents
	TotalPrice int64          `gorm:"not null" json:"-"`                           // Stored in cents
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// CalculateTotal recomputes the line total: quantity times unit price, less
// the line discount percentage, plus the line tax amount.
func (it *InvoiceItem) CalculateTotal() {
	gross := it.UnitPrice * int64(it.Quantity)
	discount := int64(float64(gross) * it.Discount / 100)
	it.TotalPrice = gross - discount + it.Tax
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (it InvoiceItem) MarshalJSON() ([]byte, error) {
	type Alias InvoiceItem
	return json.Marshal(&struct {
		Alias
		UnitPrice  float64 `json:"unit_price"`
		Tax        float64 `json:"tax"`
		TotalPrice float64 `json:"total_price"`
	}{
		Alias:      Alias(it),
		UnitPrice:  float64(it.UnitPrice) / 100,
		Tax:        float64(it.Tax) / 100,
		TotalPrice: float64(it.TotalPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Payment is one entry in an invoice's append-only payment list.
type Payment struct {
	ID         uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Amount     int64        `gorm:"not null" json:"-"` // Stored in cents
	Method     enum.Account `gorm:"size:50;not null" json:"method"`
	Date       time.Time    `gorm:"not null" json:"date"`
	RecordedBy uuid.UUID    `gorm:"type:uuid" json:"recorded_by"`
	Reference  *string      `gorm:"size:255" json:"reference,omitempty"`
	Notes      *string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`

	// Relationships
	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
