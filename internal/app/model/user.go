package model

import (
	"time"
)

type Role string // role kind carried by a role assignment

const (
	RoleDiner      Role = "diner"      // default role, may place and view own orders
	RoleAdmin      Role = "admin"      // global role, bypasses all authorization checks
	RoleFranchisee Role = "franchisee" // scoped to one franchise, manages its stores
)

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`              // user ID
	Name         string     `gorm:"not null" json:"name"`              // display name
	Email        string     `gorm:"uniqueIndex;not null" json:"email"` // email (unique)
	PasswordHash string     `gorm:"not null" json:"-"`                 // bcrypt hash, never serialized
	Roles        []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roles"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserRole is one role assignment. A user holds an ordered set of these;
// FranchiseID is populated only for the franchisee role.
type UserRole struct {
	ID          uint  `gorm:"primarykey" json:"-"`
	UserID      uint  `gorm:"not null;index" json:"-"`
	Role        Role  `gorm:"type:varchar(20);not null" json:"role"`
	FranchiseID *uint `gorm:"index" json:"franchiseId,omitempty"` // scope, franchisee only
}

func (UserRole) TableName() string {
	return "user_roles"
}

// HasRole reports whether any assignment carries the given role kind.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}
