package request

import "github.com/google/uuid"

// InvoiceItemRequest represents a single line on a create invoice request
type InvoiceItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	UnitPrice float64   `json:"unit_price" binding:"omitempty,min=0"`
	Discount  float64   `json:"discount" binding:"omitempty,min=0,max=100"`
	Tax       float64   `json:"tax" binding:"omitempty,min=0,max=100"`
}

// CreateInvoiceRequest represents an invoice creation request. The payment
// block is optional except for quick invoices, which must settle in full.
type CreateInvoiceRequest struct {
	Type          string               `json:"type" binding:"required,oneof=sale purchase quick"`
	CustomerID    *uuid.UUID           `json:"customer_id"`
	SupplierID    *uuid.UUID           `json:"supplier_id"`
	Date          string               `json:"date" binding:"omitempty,datetime=2006-01-02"`
	DueDate       *string              `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Discount      float64              `json:"discount" binding:"omitempty,min=0,max=100"`
	Tax           float64              `json:"tax" binding:"omitempty,min=0,max=100"`
	Notes         *string              `json:"notes" binding:"omitempty,max=1000"`
	Items         []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentAmount float64              `json:"payment_amount" binding:"omitempty,min=0"`
	PaymentMethod string               `json:"payment_method" binding:"omitempty,oneof=cash bank_account mobile_money"`
}

// AddPaymentRequest represents a payment on an existing invoice
type AddPaymentRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Method    string  `json:"method" binding:"required,oneof=cash bank_account mobile_money"`
	Reference *string `json:"reference" binding:"omitempty,max=255"`
	Notes     *string `json:"notes" binding:"omitempty,max=500"`
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Search        string `form:"search"`
	Type          string `form:"type"`
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	CustomerID    string `form:"customer_id"`
	SupplierID    string `form:"supplier_id"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
	SortBy        string `form:"sort_by"`
	SortOrder     string `form:"sort_order"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}
