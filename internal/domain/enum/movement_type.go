package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// MovementType classifies a stock-affecting event and determines how the
// quantity is applied to the product's current stock.
type MovementType string

const (
	MovementStockIn  MovementType = "stock_in"
	MovementStockOut MovementType = "stock_out"
	// MovementAdjustment sets stock to an absolute target; the quantity is
	// not a delta like the other movement types.
	MovementAdjustment MovementType = "adjustment"
	MovementSale       MovementType = "sale"
	MovementPurchase   MovementType = "purchase"
)

func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known movement type.
func (m MovementType) IsValid() bool {
	switch m {
	case MovementStockIn, MovementStockOut, MovementAdjustment, MovementSale, MovementPurchase:
		return true
	}
	return false
}

// AddsStock reports whether the movement increases the stock level.
func (m MovementType) AddsStock() bool {
	return m == MovementStockIn || m == MovementPurchase
}

// RemovesStock reports whether the movement decreases the stock level.
func (m MovementType) RemovesStock() bool {
	return m == MovementStockOut || m == MovementSale
}

func (m MovementType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *MovementType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*m = MovementType(str)
	return nil
}

func (m MovementType) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *MovementType) Scan(value interface{}) error {
	if value == nil {
		*m = MovementAdjustment
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = MovementType(v)
	case []byte:
		*m = MovementType(string(v))
	}
	return nil
}
