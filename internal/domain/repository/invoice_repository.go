package repository

import (
	"context"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/bizstack/bizledger-api/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	// Delete removes an invoice with its items and payments. Only the create
	// saga uses it, to unwind an insert after a later step failed.
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// ListOverdue returns unpaid or partially paid invoices past their due date.
	ListOverdue(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Invoice, int64, error)
	// AddPayment persists the payment row and the invoice's updated payment
	// fields in a single transaction.
	AddPayment(ctx context.Context, invoice *entity.Invoice, payment *entity.Payment) error
	// ListPaymentsByCustomer returns payments across all of a customer's invoices, newest first.
	ListPaymentsByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Payment, int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	Type           enum.InvoiceType
	Status         enum.InvoiceStatus
	PaymentStatus  enum.PaymentStatus
	CustomerID     *uuid.UUID
	SupplierID     *uuid.UUID
	DateFrom       string
	DateTo         string
	SortBy         string
	SortOrder      string
	SkipUserFilter bool
}

// InvoiceSequenceRepository hands out invoice numbers. NextNumber atomically
// increments the counter for (prefix, period) and returns the new value, so
// two concurrent callers can never see the same number.
type InvoiceSequenceRepository interface {
	NextNumber(ctx context.Context, prefix, period string) (int64, error)
}
