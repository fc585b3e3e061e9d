package service

import (
	"context"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/bizstack/bizledger-api/internal/domain/repository"
	"github.com/bizstack/bizledger-api/pkg/apperror"
	"github.com/bizstack/bizledger-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	UserID       uuid.UUID
	Name         string
	Email        *string
	Phone        *string
	Address      *string
	CreditLimit  float64
	PaymentTerms enum.PaymentTerms
	CreditDays   int
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if input.Email != nil && *input.Email != "" {
		existing, err := s.customerRepo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Customer email already exists")
		}
	}

	terms := input.PaymentTerms
	if terms == "" {
		terms = enum.TermsCash
	}
	if !terms.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid payment terms")
	}

	creditDays := input.CreditDays
	if creditDays <= 0 {
		creditDays = 30
	}

	customer := &entity.Customer{
		UserID:       input.UserID,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		CreditLimit:  int64(input.CreditLimit * 100),
		PaymentTerms: terms,
		CreditDays:   creditDays,
		LoyaltyTier:  enum.TierBronze,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers with pagination and search
func (s *CustomerService) ListCustomers(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, userID, params, search, skipUserFilter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// UpdateCustomerInput represents the update customer input. The financial
// totals are absent: they change only through invoice and payment events.
type UpdateCustomerInput struct {
	CustomerID    uuid.UUID
	Name          *string
	Email         *string
	Phone         *string
	Address       *string
	CreditLimit   *float64
	PaymentTerms  *enum.PaymentTerms
	CreditDays    *int
	IsBlacklisted *bool
}

// UpdateCustomer updates a customer's profile and credit settings
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.CreditLimit != nil {
		customer.CreditLimit = int64(*input.CreditLimit * 100)
	}
	if input.PaymentTerms != nil {
		if !input.PaymentTerms.IsValid() {
			return nil, apperror.NewBadRequestError("Invalid payment terms")
		}
		customer.PaymentTerms = *input.PaymentTerms
	}
	if input.CreditDays != nil {
		customer.CreditDays = *input.CreditDays
	}
	if input.IsBlacklisted != nil {
		customer.IsBlacklisted = *input.IsBlacklisted
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// DeleteCustomer soft-deletes a customer. Customers still owing money cannot
// be removed.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}

	if customer.OutstandingDue > 0 {
		return apperror.NewUnprocessableError("Cannot delete a customer with an outstanding balance")
	}

	return s.customerRepo.Delete(ctx, id)
}

// CustomerDueEntry pairs a customer with the derived due bucket
type CustomerDueEntry struct {
	Customer    entity.Customer  `json:"customer"`
	DueStatus   entity.DueStatus `json:"due_status"`
	OverdueDays int              `json:"overdue_days"`
}

// GetCustomersWithDues returns customers carrying an outstanding balance,
// bucketed by how overdue they are
func (s *CustomerService) GetCustomersWithDues(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[CustomerDueEntry], error) {
	customers, total, err := s.customerRepo.GetWithOutstanding(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]CustomerDueEntry, 0, len(customers))
	for _, c := range customers {
		entries = append(entries, CustomerDueEntry{
			Customer:    c,
			DueStatus:   c.DueStatus(now),
			OverdueDays: c.OverdueDays(now),
		})
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(entries, pag), nil
}

// GetCustomerPayments returns payments across all of a customer's invoices
func (s *CustomerService) GetCustomerPayments(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Payment], error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	payments, total, err := s.invoiceRepo.ListPaymentsByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}
