package repository

import (
	"context"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	"github.com/bizstack/bizledger-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context, userID uuid.UUID) ([]entity.Product, error)
	GetCriticalStock(ctx context.Context, userID uuid.UUID) ([]entity.Product, error)
	// ApplyMovements persists mutated products together with their activity
	// rows in a single transaction. Either all stock changes and log entries
	// land, or none do.
	ApplyMovements(ctx context.Context, products []*entity.Product, activities []entity.StockActivity) error
	// ListActivities returns a product's stock activity log, newest first.
	ListActivities(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockActivity, int64, error)
	// ListActivitiesWithCursor walks the activity log with keyset pagination,
	// oldest first.
	ListActivitiesWithCursor(ctx context.Context, productID uuid.UUID, params *pagination.CursorParams) ([]entity.StockActivity, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination     *pagination.PaginationParams
	Search         string
	Category       string
	Brand          string
	LowStock       bool
	CriticalStock  bool
	SortBy         string
	SortOrder      string
	SkipUserFilter bool // If true, returns all products (for admins)
}
