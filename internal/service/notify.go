package service

import (
	"context"

	"vendio/internal/models"
)

// OrderMailer sends transactional emails for the order lifecycle. All sends
// are best-effort: implementations log failures, callers never see them.
type OrderMailer interface {
	SendBuyerConfirmation(ctx context.Context, order *models.Order)
	SendSellerNotification(ctx context.Context, order *models.Order, sellerEmail string)
	SendPaymentReceived(ctx context.Context, order *models.Order)
	SendPurchaseConfirmation(ctx context.Context, purchase *models.Purchase, link *models.PaymentLink)
	SendCreatorNotification(ctx context.Context, purchase *models.Purchase, link *models.PaymentLink, creatorEmail string)
}

// UserMailer sends account lifecycle emails, also best-effort.
type UserMailer interface {
	SendWelcome(ctx context.Context, user *models.User)
}

// OrderNotifier publishes order events to the live seller feed.
type OrderNotifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, order *models.Order, from string)
}
