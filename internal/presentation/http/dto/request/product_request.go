package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	SKU              string  `json:"sku" binding:"omitempty,max=100"`
	Name             string  `json:"name" binding:"required,min=2,max=255"`
	Brand            string  `json:"brand" binding:"omitempty,max=255"`
	Category         string  `json:"category" binding:"omitempty,max=255"`
	CostPrice        float64 `json:"cost_price" binding:"min=0"`
	SellingPrice     float64 `json:"selling_price" binding:"min=0"`
	StockCurrent     int     `json:"stock_current" binding:"min=0"`
	ReorderThreshold int     `json:"reorder_threshold" binding:"min=0"`
	MinStock         int     `json:"min_stock" binding:"min=0"`
}

// UpdateProductRequest represents a product update request. Stock levels are
// absent on purpose, they only change through movements.
type UpdateProductRequest struct {
	Name             *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Brand            *string  `json:"brand" binding:"omitempty,max=255"`
	Category         *string  `json:"category" binding:"omitempty,max=255"`
	CostPrice        *float64 `json:"cost_price" binding:"omitempty,min=0"`
	SellingPrice     *float64 `json:"selling_price" binding:"omitempty,min=0"`
	ReorderThreshold *int     `json:"reorder_threshold" binding:"omitempty,min=0"`
	MinStock         *int     `json:"min_stock" binding:"omitempty,min=0"`
}

// StockMovementRequest represents a stock movement request
type StockMovementRequest struct {
	Type      string `json:"type" binding:"required,oneof=stock_in stock_out adjustment"`
	Quantity  int    `json:"quantity" binding:"min=0"`
	Reference string `json:"reference" binding:"omitempty,max=255"`
	Reason    string `json:"reason" binding:"omitempty,max=500"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search        string `form:"search"`
	Category      string `form:"category"`
	Brand         string `form:"brand"`
	LowStock      bool   `form:"low_stock"`
	CriticalStock bool   `form:"critical_stock"`
	SortBy        string `form:"sort_by"`
	SortOrder     string `form:"sort_order"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}
