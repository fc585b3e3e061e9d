package request

import "github.com/google/uuid"

// CreateTransactionRequest represents a manual ledger entry request
type CreateTransactionRequest struct {
	Type        string     `json:"type" binding:"omitempty,max=100"`
	Category    string     `json:"category" binding:"required,oneof=income expense asset liability"`
	Account     string     `json:"account" binding:"required,oneof=cash bank_account mobile_money receivables payables"`
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	Description string     `json:"description" binding:"required,max=500"`
	CustomerID  *uuid.UUID `json:"customer_id"`
	SupplierID  *uuid.UUID `json:"supplier_id"`
	InvoiceID   *uuid.UUID `json:"invoice_id"`
	Date        string     `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// TransactionFilterRequest represents ledger filter parameters
type TransactionFilterRequest struct {
	Category string `form:"category"`
	Account  string `form:"account"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
