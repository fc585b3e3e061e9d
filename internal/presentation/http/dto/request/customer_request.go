package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=255"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	CreditLimit  float64 `json:"credit_limit" binding:"min=0"`
	PaymentTerms string  `json:"payment_terms" binding:"omitempty,oneof=cash credit mixed"`
	CreditDays   int     `json:"credit_days" binding:"omitempty,min=1,max=365"`
}

// UpdateCustomerRequest represents a customer update request. Financial
// totals and the loyalty tier are not accepted here, they only move through
// invoicing.
type UpdateCustomerRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Email         *string  `json:"email" binding:"omitempty,email"`
	Phone         *string  `json:"phone" binding:"omitempty,max=50"`
	Address       *string  `json:"address" binding:"omitempty,max=500"`
	CreditLimit   *float64 `json:"credit_limit" binding:"omitempty,min=0"`
	PaymentTerms  *string  `json:"payment_terms" binding:"omitempty,oneof=cash credit mixed"`
	CreditDays    *int     `json:"credit_days" binding:"omitempty,min=1,max=365"`
	IsBlacklisted *bool    `json:"is_blacklisted"`
}
