package request

// CreateSupplierRequest represents a supplier creation request
type CreateSupplierRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=255"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	ShopName     *string `json:"shopname" binding:"omitempty,max=255"`
	PaymentTerms string  `json:"payment_terms" binding:"omitempty,oneof=immediate net15 net30 net60 net90"`
}

// UpdateSupplierRequest represents a supplier update request
type UpdateSupplierRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	ShopName     *string `json:"shopname" binding:"omitempty,max=255"`
	PaymentTerms *string `json:"payment_terms" binding:"omitempty,oneof=immediate net15 net30 net60 net90"`
}
