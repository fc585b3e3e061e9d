package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names and the permissions each role carries. Roles are static; there
// is no role administration surface.
const (
	RoleAdmin string = "admin"
	RoleStaff string = "staff"
)

var rolePermissions = map[string][]string{
	RoleAdmin: {
		"view-dashboard",
		"manage-products",
		"manage-customers",
		"manage-suppliers",
		"manage-invoices",
		"manage-ledger",
		"view-reports",
		"manage-users",
	},
	RoleStaff: {
		"view-dashboard",
		"manage-products",
		"manage-customers",
		"manage-invoices",
	},
}

// User represents a user in the system
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	FirstName    string         `gorm:"size:255;not null" json:"first_name"`
	LastName     string         `gorm:"size:255;not null" json:"last_name"`
	Email        string         `gorm:"size:255;unique;not null" json:"email"`
	Password     string         `gorm:"size:255" json:"-"`
	Role         string         `gorm:"size:50;default:'staff'" json:"role"`
	StoreName    *string        `gorm:"size:255" json:"store_name,omitempty"`
	StoreAddress *string        `gorm:"type:text" json:"store_address,omitempty"`
	StorePhone   *string        `gorm:"size:50" json:"store_phone,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products  []Product  `gorm:"foreignKey:UserID" json:"-"`
	Invoices  []Invoice  `gorm:"foreignKey:UserID" json:"-"`
	Customers []Customer `gorm:"foreignKey:UserID" json:"-"`
	Suppliers []Supplier `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// HasRole checks if the user has a specific role
func (u *User) HasRole(roleName string) bool {
	return u.Role == roleName
}

// GetPermissions returns all permission names for the user's role
func (u *User) GetPermissions() []string {
	perms, ok := rolePermissions[u.Role]
	if !ok {
		return nil
	}
	result := make([]string, len(perms))
	copy(result, perms)
	return result
}

// HasPermission checks if the user's role carries a specific permission
func (u *User) HasPermission(permissionName string) bool {
	for _, p := range u.GetPermissions() {
		if p == permissionName {
			return true
		}
	}
	return false
}
