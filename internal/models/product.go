package models

import (
	"time"

	"gorm.io/gorm"
)

// Product types.
const (
	ProductTypeProduct = "PRODUCT"
	ProductTypeService = "SERVICE"
)

// Product is a sellable catalog item belonging to a store.
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	StoreID     uint           `gorm:"not null;index" json:"store_id"`
	Store       *Store         `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"index;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Currency    string         `gorm:"not null;default:USDC" json:"currency"`
	Type        string         `gorm:"not null;default:PRODUCT" json:"type"`
	ImageURL    string         `json:"image_url"`
	Active      bool           `gorm:"default:true" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
