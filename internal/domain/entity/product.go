package entity

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/bizstack/bizledger-api/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock ledger errors.
var (
	ErrNegativeQuantity    = errors.New("quantity must not be negative")
	ErrInvalidMovementType = errors.New("unknown stock movement type")
	ErrInsufficientStock   = errors.New("insufficient stock for movement")
)

// Product represents a product in the inventory. Stock is mutated only
// through ApplyStockMovement so that every change lands in the activity log.
type Product struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SKU              string         `gorm:"size:100;unique;not null" json:"sku"`
	Name             string         `gorm:"size:255;not null" json:"name"`
	Brand            string         `gorm:"size:255" json:"brand"`
	Category         string         `gorm:"size:255;index" json:"category"`
	CostPrice        int64          `gorm:"default:0" json:"-"` // Stored in cents
	SellingPrice     int64          `gorm:"default:0" json:"-"` // Stored in cents
	StockCurrent     int            `gorm:"default:0" json:"stock_current"`
	ReorderThreshold int            `gorm:"default:0" json:"reorder_threshold"`
	MinStock         int            `gorm:"default:0" json:"min_stock"`
	LastRestocked    *time.Time     `json:"last_restocked,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User       User            `gorm:"foreignKey:UserID" json:"-"`
	Activities []StockActivity `gorm:"foreignKey:ProductID" json:"activities,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether current stock is at or below the reorder
// threshold. Recomputed on read, never cached.
func (p *Product) IsLowStock() bool {
	return p.StockCurrent <= p.ReorderThreshold
}

// IsCriticalStock reports whether current stock is at or below the minimum.
func (p *Product) IsCriticalStock() bool {
	return p.StockCurrent <= p.MinStock
}

// ApplyStockMovement applies a movement to the product's stock and returns
// the activity-log record capturing it. Quantity is a non-negative magnitude
// for every type except adjustment, where it is the absolute target level.
// Movements that would take stock below zero are rejected rather than
// clamped; the ledger is the enforcement point for oversell.
func (p *Product) ApplyStockMovement(quantity int, movementType enum.MovementType, reference, actor, reason string, at time.Time) (*StockActivity, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	before := p.StockCurrent
	var after int

	switch movementType {
	case enum.MovementStockIn, enum.MovementPurchase:
		after = before + quantity
	case enum.MovementStockOut, enum.MovementSale:
		if quantity > before {
			return nil, ErrInsufficientStock
		}
		after = before - quantity
	case enum.MovementAdjustment:
		after = quantity
	default:
		return nil, ErrInvalidMovementType
	}

	p.StockCurrent = after
	if movementType.AddsStock() {
		restocked := at
		p.LastRestocked = &restocked
	}

	return &StockActivity{
		ProductID:   p.ID,
		Type:        movementType,
		Quantity:    quantity,
		StockBefore: before,
		StockAfter:  after,
		Reference:   reference,
		Reason:      reason,
		Actor:       actor,
		CreatedAt:   at,
	}, nil
}

// GetCostPriceDecimal returns the cost price as a decimal (for display)
func (p *Product) GetCostPriceDecimal() float64 {
	return float64(p.CostPrice) / 100
}

// GetSellingPriceDecimal returns the selling price as a decimal (for display)
func (p *Product) GetSellingPriceDecimal() float64 {
	return float64(p.SellingPrice) / 100
}

// SetCostPriceFromDecimal sets the cost price from a decimal value
func (p *Product) SetCostPriceFromDecimal(price float64) {
	p.CostPrice = int64(price * 100)
}

// SetSellingPriceFromDecimal sets the selling price from a decimal value
func (p *Product) SetSellingPriceFromDecimal(price float64) {
	p.SellingPrice = int64(price * 100)
}

// MarshalJSON converts Product to JSON with decimal prices and the derived
// stock predicates.
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		CostPrice       float64 `json:"cost_price"`
		SellingPrice    float64 `json:"selling_price"`
		IsLowStock      bool    `json:"is_low_stock"`
		IsCriticalStock bool    `json:"is_critical_stock"`
	}{
		Alias:           Alias(p),
		CostPrice:       p.GetCostPriceDecimal(),
		SellingPrice:    p.GetSellingPriceDecimal(),
		IsLowStock:      p.IsLowStock(),
		IsCriticalStock: p.IsCriticalStock(),
	})
}

// StockActivity is one immutable entry in a product's stock activity log.
// stock_current on the product always equals StockAfter of the latest entry.
type StockActivity struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"product_id"`
	Type        enum.MovementType `gorm:"size:50;not null" json:"type"`
	Quantity    int               `gorm:"not null" json:"quantity"`
	StockBefore int               `gorm:"not null" json:"stock_before"`
	StockAfter  int               `gorm:"not null" json:"stock_after"`
	Reference   string            `gorm:"size:255" json:"reference"`
	Reason      string            `gorm:"size:255" json:"reason"`
	Actor       string            `gorm:"size:255" json:"actor"`
	CreatedAt   time.Time         `json:"created_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock activity
func (a *StockActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockActivity model
func (StockActivity) TableName() string {
	return "stock_activities"
}
