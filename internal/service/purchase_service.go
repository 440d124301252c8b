package service

import (
	"context"

	"vendio/internal/models"
	"vendio/internal/observability"
	"vendio/internal/repository"
	"vendio/internal/validation"
)

type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
	linkRepo     repository.PaymentLinkRepository
	userRepo     repository.UserRepository
	mailer       OrderMailer
}

type CreatePurchaseInput struct {
	Slug  string     `json:"slug"`
	Buyer BuyerInput `json:"buyer"`
	// TipAmount is an optional extra on top of the link price, honored
	// only when the link allows tips.
	TipAmount float64 `json:"tip_amount"`
	// PaymentHash is the client-asserted transaction id, stored unverified
	// like the checkout flow.
	PaymentHash string `json:"payment_hash"`
}

func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	linkRepo repository.PaymentLinkRepository,
	userRepo repository.UserRepository,
	mailer OrderMailer,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		linkRepo:     linkRepo,
		userRepo:     userRepo,
		mailer:       mailer,
	}
}

// CreatePurchase records a payment-link transaction. Purchases are written
// COMPLETED, trusting the caller's claim that payment succeeded, mirroring
// the checkout trust model. Confirmation emails are best-effort.
func (s *PurchaseService) CreatePurchase(ctx context.Context, in CreatePurchaseInput) (*models.Purchase, error) {
	if in.Slug == "" {
		return nil, models.NewValidationError("slug is required")
	}
	if err := validateBuyer(in.Buyer); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if in.TipAmount < 0 {
		return nil, models.NewValidationError("Tip cannot be negative")
	}

	link, err := s.linkRepo.GetBySlug(ctx, in.Slug)
	if err != nil {
		return nil, err
	}
	if !link.Active {
		return nil, models.NewNotFoundError("Payment link", in.Slug)
	}

	tip := in.TipAmount
	if !link.AllowTips {
		tip = 0
	}

	purchase := &models.Purchase{
		PurchaseNumber: newOrderNumber("PUR"),
		PaymentLinkID:  link.ID,
		BuyerName:      in.Buyer.Name,
		BuyerEmail:     in.Buyer.Email,
		BuyerWallet:    validation.NormalizeWalletAddress(in.Buyer.Wallet),
		Status:         models.OrderStatusCompleted,
		PaymentHash:    in.PaymentHash,
		Amount:         link.Price,
		TipAmount:      tip,
		Currency:       link.Currency,
	}
	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, err
	}
	observability.PurchasesCreated.Inc()

	if s.mailer != nil {
		if purchase.BuyerEmail != "" {
			s.mailer.SendPurchaseConfirmation(ctx, purchase, link)
		}
		if creator, userErr := s.userRepo.GetByID(ctx, link.UserID); userErr == nil && creator.Email != "" {
			s.mailer.SendCreatorNotification(ctx, purchase, link, creator.Email)
		}
	}
	return purchase, nil
}

// ListMyPurchases returns purchases across all of the caller's payment
// links, newest first.
func (s *PurchaseService) ListMyPurchases(ctx context.Context, userID uint, limit, offset int) ([]models.Purchase, int64, error) {
	return s.purchaseRepo.ListByUser(ctx, userID, limit, offset)
}

// ListLinkPurchases returns purchases for one payment link the caller owns.
func (s *PurchaseService) ListLinkPurchases(ctx context.Context, userID, linkID uint, limit, offset int) ([]models.Purchase, int64, error) {
	link, err := s.linkRepo.GetByID(ctx, linkID)
	if err != nil {
		return nil, 0, err
	}
	if link.UserID != userID {
		return nil, 0, models.NewForbiddenError("You do not own this payment link")
	}
	return s.purchaseRepo.ListByPaymentLink(ctx, linkID, limit, offset)
}
