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

// SupplierService handles supplier-related operations
type SupplierService struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo repository.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// CreateSupplierInput represents the create supplier input
type CreateSupplierInput struct {
	UserID       uuid.UUID
	Name         string
	Email        *string
	Phone        *string
	Address      *string
	ShopName     *string
	PaymentTerms enum.SupplierTerms
}

// CreateSupplier creates a new supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, input *CreateSupplierInput) (*entity.Supplier, error) {
	if input.Email != nil && *input.Email != "" {
		existing, err := s.supplierRepo.GetByEmail(ctx, *input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Supplier email already exists")
		}
	}

	terms := input.PaymentTerms
	if terms == "" {
		terms = enum.SupplierTermsImmediate
	}
	if !terms.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid payment terms")
	}

	supplier := &entity.Supplier{
		UserID:       input.UserID,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		ShopName:     input.ShopName,
		PaymentTerms: terms,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// ListSuppliers lists suppliers with pagination and search
func (s *SupplierService) ListSuppliers(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, skipUserFilter bool) (*pagination.PaginatedResult[entity.Supplier], error) {
	suppliers, total, err := s.supplierRepo.List(ctx, userID, params, search, skipUserFilter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}

// UpdateSupplierInput represents the update supplier input
type UpdateSupplierInput struct {
	SupplierID   uuid.UUID
	Name         *string
	Email        *string
	Phone        *string
	Address      *string
	ShopName     *string
	PaymentTerms *enum.SupplierTerms
}

// UpdateSupplier updates a supplier's profile and terms
func (s *SupplierService) UpdateSupplier(ctx context.Context, input *UpdateSupplierInput) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	if input.Name != nil {
		supplier.Name = *input.Name
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.ShopName != nil {
		supplier.ShopName = input.ShopName
	}
	if input.PaymentTerms != nil {
		if !input.PaymentTerms.IsValid() {
			return nil, apperror.NewBadRequestError("Invalid payment terms")
		}
		supplier.PaymentTerms = *input.PaymentTerms
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// DeleteSupplier soft-deletes a supplier. Suppliers still owed money cannot
// be removed.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return apperror.NewNotFoundError("Supplier")
	}

	if supplier.OutstandingPayable > 0 {
		return apperror.NewUnprocessableError("Cannot delete a supplier with an outstanding payable")
	}

	return s.supplierRepo.Delete(ctx, id)
}

// SupplierDueEntry pairs a supplier with the derived due bucket
type SupplierDueEntry struct {
	Supplier    entity.Supplier  `json:"supplier"`
	DueStatus   entity.DueStatus `json:"due_status"`
	OverdueDays int              `json:"overdue_days"`
}

// GetSuppliersWithPayables returns suppliers the business still owes,
// bucketed by urgency
func (s *SupplierService) GetSuppliersWithPayables(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[SupplierDueEntry], error) {
	suppliers, total, err := s.supplierRepo.GetWithPayables(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]SupplierDueEntry, 0, len(suppliers))
	for _, sup := range suppliers {
		entries = append(entries, SupplierDueEntry{
			Supplier:    sup,
			DueStatus:   sup.DueStatus(now),
			OverdueDays: sup.OverdueDays(now),
		})
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(entries, pag), nil
}
