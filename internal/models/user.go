// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles understood by the session authenticator.
const (
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

// User represents a creator or admin account in the Vendio application.
// Identity is anchored by either a wallet address or an email; both are
// unique when present. Wallet accounts carry no password.
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Username      string         `gorm:"uniqueIndex" json:"username"`
	Email         string         `gorm:"uniqueIndex" json:"email"`
	WalletAddress string         `gorm:"uniqueIndex" json:"wallet_address"`
	Password      string         `json:"-"`
	Role          string         `gorm:"not null;default:creator" json:"role"`
	Bio           string         `json:"bio"`
	Avatar        string         `json:"avatar"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Store         *Store         `gorm:"foreignKey:UserID" json:"store,omitempty"`
	LinkInBio     *LinkInBio     `gorm:"foreignKey:UserID" json:"link_in_bio,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
