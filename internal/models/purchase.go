package models

import (
	"time"

	"gorm.io/gorm"
)

// Purchase is a persisted record of a single payment-link transaction. It
// parallels Order but is scoped to a PaymentLink and may carry a tip.
type Purchase struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	PurchaseNumber string       `gorm:"uniqueIndex;not null" json:"purchase_number"`
	PaymentLinkID  uint         `gorm:"not null;index" json:"payment_link_id"`
	PaymentLink    *PaymentLink `gorm:"foreignKey:PaymentLinkID" json:"payment_link,omitempty"`

	BuyerName   string  `json:"buyer_name"`
	BuyerEmail  string  `gorm:"index" json:"buyer_email"`
	BuyerWallet string  `gorm:"index" json:"buyer_wallet"`
	Status      string  `gorm:"not null;default:COMPLETED;index" json:"status"`
	PaymentHash string  `gorm:"index" json:"payment_hash"`
	Amount      float64 `gorm:"not null" json:"amount"`
	TipAmount   float64 `json:"tip_amount"`
	Currency    string  `gorm:"not null;default:USDC" json:"currency"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
