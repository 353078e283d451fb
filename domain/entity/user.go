package entity

import (
	"time"
)

// AdminUser is a dashboard operator
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewAdminUser(id, email, fullName string, role Role, passwordHash string) *AdminUser {
	now := time.Now().UTC()
	return &AdminUser{
		ID:           id,
		Email:        email,
		FullName:     fullName,
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// UserRoleSnapshot is the before/after shape of a role change
type UserRoleSnapshot struct {
	Role Role `json:"role"`
}

// UserFilter represents filters for listing admin users
type UserFilter struct {
	Role   *Role       `json:"role,omitempty"`
	Search string      `json:"search,omitempty"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	After  *PageCursor `json:"-"`
}
