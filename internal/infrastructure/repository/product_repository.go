package repository

import (
	"context"
	"errors"

	"github.com/bizstack/bizledger-api/internal/domain/entity"
	domainRepo "github.com/bizstack/bizledger-api/internal/domain/repository"
	"github.com/bizstack/bizledger-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{})
	if !params.SkipUserFilter {
		query = query.Where("user_id = ?", userID)
	}

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR brand ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Brand != "" {
		query = query.Where("brand = ?", params.Brand)
	}

	if params.LowStock {
		query = query.Where("stock_current <= reorder_threshold")
	}

	if params.CriticalStock {
		query = query.Where("stock_current <= min_stock")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder != "" && (params.SortOrder == "ASC" || params.SortOrder == "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) GetLowStock(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND stock_current <= reorder_threshold", userID).
		Order("stock_current ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetCriticalStock(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND stock_current <= min_stock", userID).
		Order("stock_current ASC").
		Find(&products).Error
	return products, err
}

// ApplyMovements persists mutated products and their activity rows in one
// transaction. The stock update is guarded so a concurrent writer that already
// drained the stock makes the whole batch roll back instead of going negative.
func (r *productRepository) ApplyMovements(ctx context.Context, products []*entity.Product, activities []entity.StockActivity) error {
	if len(products) == 0 && len(activities) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, product := range products {
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND stock_current >= 0", product.ID).
				Updates(map[string]interface{}{
					"stock_current":  product.StockCurrent,
					"last_restocked": product.LastRestocked,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		for i := range activities {
			if err := tx.Create(&activities[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListActivities returns a product's stock activity log, newest first
func (r *productRepository) ListActivities(ctx context.Context, productID uuid.UUID, params *pagination.PaginationParams) ([]entity.StockActivity, int64, error) {
	var activities []entity.StockActivity
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.StockActivity{}).
		Where("product_id = ?", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&activities).Error

	return activities, total, err
}

// ListActivitiesWithCursor walks the activity log with keyset pagination
func (r *productRepository) ListActivitiesWithCursor(ctx context.Context, productID uuid.UUID, params *pagination.CursorParams) ([]entity.StockActivity, error) {
	var activities []entity.StockActivity

	params.Validate()
	query := r.db.WithContext(ctx).Model(&entity.StockActivity{}).
		Where("product_id = ?", productID)

	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	// Fetch limit+1 to detect hasMore
	err = query.Limit(params.Limit + 1).
		Order("created_at ASC, id ASC").
		Find(&activities).Error

	return activities, err
}
