package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizstack/bizledger-api/internal/domain/enum"
)

func newTestInvoice(items ...InvoiceItem) *Invoice {
	inv := &Invoice{
		Type:          enum.InvoiceTypeSale,
		InvoiceNumber: "INV2024060001",
		Date:          time.Now(),
		Status:        enum.InvoiceStatusSent,
		PaymentStatus: enum.PaymentStatusUnpaid,
		Items:         items,
	}
	inv.CalculateTotals()
	return inv
}

func TestCalculateTotals(t *testing.T) {
	inv := newTestInvoice(
		InvoiceItem{Quantity: 2, UnitPrice: 10_000},              // 200.00
		InvoiceItem{Quantity: 1, UnitPrice: 5_000, Discount: 10}, // 45.00
		InvoiceItem{Quantity: 3, UnitPrice: 1_000, Tax: 150},     // 31.50
	)
	inv.Discount = 500
	inv.Tax = 1_000
	inv.CalculateTotals()

	assert.Equal(t, int64(20_000), inv.Items[0].TotalPrice)
	assert.Equal(t, int64(4_500), inv.Items[1].TotalPrice)
	assert.Equal(t, int64(3_150), inv.Items[2].TotalPrice)
	assert.Equal(t, int64(27_650), inv.Subtotal)
	assert.Equal(t, int64(28_150), inv.Total)
}

func TestAddPayment_StateMachine(t *testing.T) {
	inv := newTestInvoice(InvoiceItem{Quantity: 1, UnitPrice: 10_000})
	now := time.Now()

	err := inv.AddPayment(Payment{Amount: 4_000, Method: enum.AccountCash}, now)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPartiallyPaid, inv.PaymentStatus)
	assert.Equal(t, enum.InvoiceStatusPartiallyPaid, inv.Status)
	assert.Equal(t, int64(6_000), inv.AmountDue())

	err = inv.AddPayment(Payment{Amount: 6_000, Method: enum.AccountBank}, now)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusFullyPaid, inv.PaymentStatus)
	assert.Equal(t, enum.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, int64(0), inv.AmountDue())
}

func TestAddPayment_Rejections(t *testing.T) {
	inv := newTestInvoice(InvoiceItem{Quantity: 1, UnitPrice: 10_000})
	now := time.Now()

	err := inv.AddPayment(Payment{Amount: 0}, now)
	assert.ErrorIs(t, err, ErrNonPositivePayment)

	err = inv.AddPayment(Payment{Amount: 10_001}, now)
	assert.ErrorIs(t, err, ErrPaymentExceedsDue)

	require.NoError(t, inv.Cancel())
	err = inv.AddPayment(Payment{Amount: 1_000}, now)
	assert.ErrorIs(t, err, ErrInvoiceCancelled)
}

func TestUpdateStatus_Overdue(t *testing.T) {
	inv := newTestInvoice(InvoiceItem{Quantity: 1, UnitPrice: 10_000})
	past := time.Now().AddDate(0, 0, -10)
	inv.DueDate = &past

	inv.UpdateStatus(time.Now())
	assert.Equal(t, enum.InvoiceStatusOverdue, inv.Status)
	assert.Equal(t, 10, inv.DaysOverdue(time.Now()))

	// Paying in full clears the overdue view
	require.NoError(t, inv.AddPayment(Payment{Amount: 10_000}, time.Now()))
	assert.Equal(t, enum.InvoiceStatusPaid, inv.Status)
	assert.Equal(t, 0, inv.DaysOverdue(time.Now()))
}

func TestCancel_IsTerminal(t *testing.T) {
	inv := newTestInvoice(InvoiceItem{Quantity: 1, UnitPrice: 10_000})

	require.NoError(t, inv.Cancel())
	assert.ErrorIs(t, inv.Cancel(), ErrInvoiceCancelled)

	// UpdateStatus never overwrites cancelled
	inv.UpdateStatus(time.Now())
	assert.Equal(t, enum.InvoiceStatusCancelled, inv.Status)

	assert.ErrorIs(t, inv.MarkReceived(), ErrInvoiceCancelled)
}

func TestEnsureDueDate(t *testing.T) {
	inv := newTestInvoice(InvoiceItem{Quantity: 1, UnitPrice: 1_000})
	inv.EnsureDueDate()
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, inv.Date.AddDate(0, 0, DefaultDueDays), *inv.DueDate)

	quick := newTestInvoice(InvoiceItem{Quantity: 1, UnitPrice: 1_000})
	quick.Type = enum.InvoiceTypeQuick
	quick.EnsureDueDate()
	assert.Nil(t, quick.DueDate)

	// An explicit due date is never overwritten
	explicit := newTestInvoice(InvoiceItem{Quantity: 1, UnitPrice: 1_000})
	custom := time.Now().AddDate(0, 0, 7)
	explicit.DueDate = &custom
	explicit.EnsureDueDate()
	assert.Equal(t, custom, *explicit.DueDate)
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "INV2024060001", FormatInvoiceNumber("INV", "202406", 1))
	assert.Equal(t, "PUR2024120042", FormatInvoiceNumber("PUR", "202412", 42))
	assert.Equal(t, "QIK20240112345", FormatInvoiceNumber("QIK", "202401", 12345))
}

func TestInvoiceTypePrefixes(t *testing.T) {
	assert.Equal(t, "INV", enum.InvoiceTypeSale.NumberPrefix())
	assert.Equal(t, "PUR", enum.InvoiceTypePurchase.NumberPrefix())
	assert.Equal(t, "QIK", enum.InvoiceTypeQuick.NumberPrefix())
}
