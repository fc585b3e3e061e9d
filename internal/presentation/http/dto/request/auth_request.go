package request

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	FirstName       string `json:"first_name" binding:"required,min=2,max=255"`
	LastName        string `json:"last_name" binding:"required,min=2,max=255"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	FirstName    string  `json:"first_name" binding:"required,min=2,max=255"`
	LastName     string  `json:"last_name" binding:"required,min=2,max=255"`
	StoreName    *string `json:"store_name" binding:"omitempty,max=255"`
	StoreAddress *string `json:"store_address" binding:"omitempty,max=500"`
	StorePhone   *string `json:"store_phone" binding:"omitempty,max=50"`
}

// UpdateUserRoleRequest represents a role change request
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin staff"`
}
