package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentLink is a shareable, creator-owned sellable unit distinct from a
// catalog product. The slug is globally unique, auto-generated from the
// title with numeric-suffix collision resolution.
type PaymentLink struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Currency    string         `gorm:"not null;default:USDC" json:"currency"`
	AllowTips   bool           `gorm:"default:false" json:"allow_tips"`
	Active      bool           `gorm:"default:true" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Purchases   []Purchase     `gorm:"foreignKey:PaymentLinkID" json:"purchases,omitempty"`
}
