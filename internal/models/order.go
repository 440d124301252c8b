package models

import (
	"time"

	"gorm.io/gorm"
)

// Order and purchase statuses. Status is the only field mutated after
// creation; transitions are PENDING -> COMPLETED (payment confirmation),
// PENDING -> CANCELLED (buyer/owner cancellation) and
// COMPLETED -> REFUNDED (admin action).
const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusRefunded  = "REFUNDED"
)

// Order is a persisted record of a cart checkout transaction. Buyer
// identity is captured as either name+email (guest) or a wallet address
// (connected-wallet buyer), never both required.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"`
	StoreID     uint   `gorm:"not null;index" json:"store_id"`
	Store       *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`

	BuyerName    string `json:"buyer_name"`
	BuyerEmail   string `gorm:"index" json:"buyer_email"`
	BuyerWallet  string `gorm:"index" json:"buyer_wallet"`
	Status       string `gorm:"not null;default:PENDING;index" json:"status"`
	// PaymentHash is the opaque on-chain transaction id supplied by the
	// client; it is not verified against chain state here.
	PaymentHash string  `gorm:"index" json:"payment_hash"`
	TotalAmount float64 `gorm:"not null" json:"total_amount"`
	Currency    string  `gorm:"not null;default:USDC" json:"currency"`

	Items     []OrderItem    `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem is one cart line of an order. Price is the unit price
// snapshotted at creation time; later product price changes do not affect
// existing orders.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"not null;index" json:"order_id"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Price     float64  `gorm:"not null" json:"price"`
}

// ValidStatusTransition reports whether an order or purchase may move from
// one status to another.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusCompleted || to == OrderStatusCancelled
	case OrderStatusCompleted:
		return to == OrderStatusRefunded
	default:
		return false
	}
}
