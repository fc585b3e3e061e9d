package service

import (
	"context"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/bizstack/bizledger-api/internal/domain/repository"
	"github.com/bizstack/bizledger-api/pkg/apperror"
	"github.com/bizstack/bizledger-api/pkg/pagination"
	"github.com/bizstack/bizledger-api/pkg/utils"
	"github.com/google/uuid"
)

// ProductService handles product and stock ledger operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID           uuid.UUID
	SKU              string
	Name             string
	Brand            string
	Category         string
	CostPrice        float64
	SellingPrice     float64
	StockCurrent     int
	ReorderThreshold int
	MinStock         int
}

// CreateProduct creates a new product. An opening stock level lands in the
// activity log as a stock_in entry so the ledger starts consistent.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	sku := input.SKU
	if sku == "" {
		sku = utils.GenerateSKU()
	}

	existing, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product SKU already exists")
	}

	if input.StockCurrent < 0 {
		return nil, apperror.NewBadRequestError("Opening stock cannot be negative")
	}

	product := &entity.Product{
		UserID:           input.UserID,
		SKU:              sku,
		Name:             input.Name,
		Brand:            input.Brand,
		Category:         input.Category,
		ReorderThreshold: input.ReorderThreshold,
		MinStock:         input.MinStock,
	}
	product.SetCostPriceFromDecimal(input.CostPrice)
	product.SetSellingPriceFromDecimal(input.SellingPrice)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	if input.StockCurrent > 0 {
		activity, err := product.ApplyStockMovement(input.StockCurrent, enum.MovementStockIn,
			"opening-stock", input.UserID.String(), "Opening stock", time.Now())
		if err != nil {
			return nil, err
		}
		if err := s.productRepo.ApplyMovements(ctx, []*entity.Product{product}, []entity.StockActivity{*activity}); err != nil {
			return nil, err
		}
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductBySKU retrieves a product by SKU
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, userID uuid.UUID, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input. Stock is absent on
// purpose: stock changes only flow through RecordMovement.
type UpdateProductInput struct {
	UserID           uuid.UUID
	ProductID        uuid.UUID
	SkipUserCheck    bool
	Name             *string
	Brand            *string
	Category         *string
	CostPrice        *float64
	SellingPrice     *float64
	ReorderThreshold *int
	MinStock         *int
}

// UpdateProduct updates a product's catalog fields
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if !input.SkipUserCheck && product.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.CostPrice != nil {
		product.SetCostPriceFromDecimal(*input.CostPrice)
	}
	if input.SellingPrice != nil {
		product.SetSellingPriceFromDecimal(*input.SellingPrice)
	}
	if input.ReorderThreshold != nil {
		product.ReorderThreshold = *input.ReorderThreshold
	}
	if input.MinStock != nil {
		product.MinStock = *input.MinStock
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// ArchiveProduct soft-deletes a product. Products still holding stock cannot
// be archived; stock has to be moved out or adjusted to zero first.
func (s *ProductService) ArchiveProduct(ctx context.Context, userID, productID uuid.UUID, skipOwnerCheck bool) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if !skipOwnerCheck && product.UserID != userID {
		return apperror.ErrForbidden
	}

	if product.StockCurrent > 0 {
		return apperror.NewUnprocessableError("Cannot archive a product with stock on hand")
	}

	return s.productRepo.Delete(ctx, productID)
}

// RecordMovementInput represents a manual stock movement
type RecordMovementInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Type      enum.MovementType
	Quantity  int
	Reference string
	Reason    string
}

// RecordMovement applies a stock movement and writes the activity log entry
func (s *ProductService) RecordMovement(ctx context.Context, input *RecordMovementInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	activity, err := product.ApplyStockMovement(input.Quantity, input.Type,
		input.Reference, input.UserID.String(), input.Reason, time.Now())
	if err != nil {
		switch err {
		case entity.ErrInsufficientStock:
			return nil, apperror.NewUnprocessableError("Insufficient stock for " + product.Name)
		case entity.ErrNegativeQuantity, entity.ErrInvalidMovementType:
			return nil, apperror.NewBadRequestError(err.Error())
		default:
			return nil, err
		}
	}

	if err := s.productRepo.ApplyMovements(ctx, []*entity.Product{product}, []entity.StockActivity{*activity}); err != nil {
		return nil, err
	}

	return product, nil
}

// ListActivities returns a product's stock activity log, newest first
func (s *ProductService) ListActivities(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.StockActivity], error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	activities, total, err := s.productRepo.ListActivities(ctx, productID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(activities, pag), nil
}

// ListActivitiesWithCursor walks a product's activity log with cursor-based
// pagination, oldest first
func (s *ProductService) ListActivitiesWithCursor(ctx context.Context, productID uuid.UUID, params *pagination.CursorParams) (*pagination.CursorPaginatedResult[entity.StockActivity], error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	activities, err := s.productRepo.ListActivitiesWithCursor(ctx, productID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(activities, params.Limit,
		func(a entity.StockActivity) string { return a.ID.String() },
		func(a entity.StockActivity) time.Time { return a.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// GetLowStockProducts returns products at or below their reorder threshold
func (s *ProductService) GetLowStockProducts(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, userID)
}

// GetCriticalStockProducts returns products at or below their minimum stock
func (s *ProductService) GetCriticalStockProducts(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	return s.productRepo.GetCriticalStock(ctx, userID)
}
