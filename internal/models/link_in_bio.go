package models

import (
	"time"

	"gorm.io/gorm"
)

// LinkInBio is a creator's public "link in bio" page. Each user owns at
// most one page; entries are rendered in Position order.
type LinkInBio struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title     string         `json:"title"`
	Theme     string         `gorm:"default:default" json:"theme"`
	Links     []BioLink      `gorm:"foreignKey:LinkInBioID" json:"links,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BioLink is one ordered entry on a link-in-bio page.
type BioLink struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	LinkInBioID uint   `gorm:"not null;index" json:"link_in_bio_id"`
	Title       string `gorm:"not null" json:"title"`
	URL         string `gorm:"not null" json:"url"`
	Position    int    `gorm:"not null;default:0" json:"position"`
	Active      bool   `gorm:"default:true" json:"active"`
}
