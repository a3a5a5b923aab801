package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. The role decides the default set of accessible modules;
// Permissions holds an optional JSON array of module names overriding it.
const (
	RoleAdmin   = "ADMIN"
	RoleSales   = "SALES"
	RoleOps     = "OPS"
	RoleFinance = "FINANCE"
	RoleViewer  = "VIEWER"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name"`
	Role         string     `json:"role" db:"role"`
	Permissions  *string    `json:"permissions,omitempty" db:"permissions"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
