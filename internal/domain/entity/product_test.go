package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizstack/bizledger-api/internal/domain/enum"
)

func newTestProduct(stock int) *Product {
	return &Product{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		SKU:              "SKU-TEST0001",
		Name:             "Engine Oil 5W-30",
		StockCurrent:     stock,
		ReorderThreshold: 10,
		MinStock:         3,
	}
}

func TestApplyStockMovement_StockIn(t *testing.T) {
	product := newTestProduct(5)
	now := time.Now()

	activity, err := product.ApplyStockMovement(20, enum.MovementStockIn, "PUR2024010001", "staff@example.com", "restock", now)
	require.NoError(t, err)

	assert.Equal(t, 25, product.StockCurrent)
	assert.Equal(t, 5, activity.StockBefore)
	assert.Equal(t, 25, activity.StockAfter)
	assert.Equal(t, 20, activity.Quantity)
	require.NotNil(t, product.LastRestocked)
	assert.Equal(t, now, *product.LastRestocked)
}

func TestApplyStockMovement_StockOut(t *testing.T) {
	product := newTestProduct(5)

	activity, err := product.ApplyStockMovement(3, enum.MovementStockOut, "", "staff@example.com", "damaged", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, product.StockCurrent)
	assert.Equal(t, 5, activity.StockBefore)
	assert.Equal(t, 2, activity.StockAfter)
	assert.Nil(t, product.LastRestocked)
}

func TestApplyStockMovement_InsufficientStock(t *testing.T) {
	product := newTestProduct(5)

	_, err := product.ApplyStockMovement(6, enum.MovementSale, "INV2024010001", "", "", time.Now())
	assert.ErrorIs(t, err, ErrInsufficientStock)
	// Stock is untouched on rejection
	assert.Equal(t, 5, product.StockCurrent)
}

func TestApplyStockMovement_ExactDrain(t *testing.T) {
	product := newTestProduct(5)

	_, err := product.ApplyStockMovement(5, enum.MovementSale, "", "", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, product.StockCurrent)
}

func TestApplyStockMovement_AdjustmentIsAbsoluteTarget(t *testing.T) {
	product := newTestProduct(40)

	activity, err := product.ApplyStockMovement(12, enum.MovementAdjustment, "", "admin@example.com", "annual count", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 12, product.StockCurrent)
	assert.Equal(t, 40, activity.StockBefore)
	assert.Equal(t, 12, activity.StockAfter)

	// Adjusting to zero is valid
	_, err = product.ApplyStockMovement(0, enum.MovementAdjustment, "", "", "shrinkage", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, product.StockCurrent)
}

func TestApplyStockMovement_NegativeQuantity(t *testing.T) {
	product := newTestProduct(5)

	_, err := product.ApplyStockMovement(-1, enum.MovementStockIn, "", "", "", time.Now())
	assert.ErrorIs(t, err, ErrNegativeQuantity)
}

func TestApplyStockMovement_UnknownType(t *testing.T) {
	product := newTestProduct(5)

	_, err := product.ApplyStockMovement(1, enum.MovementType("transfer"), "", "", "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidMovementType)
}

func TestStockPredicates(t *testing.T) {
	product := newTestProduct(10)

	assert.True(t, product.IsLowStock())
	assert.False(t, product.IsCriticalStock())

	product.StockCurrent = 3
	assert.True(t, product.IsCriticalStock())

	product.StockCurrent = 11
	assert.False(t, product.IsLowStock())
	assert.False(t, product.IsCriticalStock())
}

func TestActivityLogChains(t *testing.T) {
	product := newTestProduct(0)
	now := time.Now()

	first, err := product.ApplyStockMovement(10, enum.MovementStockIn, "", "", "opening-stock", now)
	require.NoError(t, err)
	second, err := product.ApplyStockMovement(4, enum.MovementSale, "INV2024010002", "", "", now)
	require.NoError(t, err)
	third, err := product.ApplyStockMovement(7, enum.MovementAdjustment, "", "", "count", now)
	require.NoError(t, err)

	// Each entry's StockBefore matches the previous entry's StockAfter
	assert.Equal(t, first.StockAfter, second.StockBefore)
	assert.Equal(t, second.StockAfter, third.StockBefore)
	assert.Equal(t, third.StockAfter, product.StockCurrent)
}
