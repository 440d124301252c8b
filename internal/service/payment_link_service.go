package service

import (
	"context"
	"errors"
	"strings"

	"vendio/internal/models"
	"vendio/internal/repository"
)

type PaymentLinkService struct {
	linkRepo repository.PaymentLinkRepository
}

type CreatePaymentLinkInput struct {
	UserID      uint
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	AllowTips   bool    `json:"allow_tips"`
}

type UpdatePaymentLinkInput struct {
	UserID      uint
	LinkID      uint
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	AllowTips   *bool    `json:"allow_tips"`
	Active      *bool    `json:"active"`
}

func NewPaymentLinkService(linkRepo repository.PaymentLinkRepository) *PaymentLinkService {
	return &PaymentLinkService{linkRepo: linkRepo}
}

// CreatePaymentLink creates a standalone payment page with a unique slug
// derived from the title.
func (s *PaymentLinkService) CreatePaymentLink(ctx context.Context, in CreatePaymentLinkInput) (*models.PaymentLink, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Price <= 0 {
		return nil, models.NewValidationError("Price must be greater than zero")
	}

	currency := in.Currency
	if currency == "" {
		currency = "USDC"
	}

	for attempt := 0; attempt < 2; attempt++ {
		slug, err := allocateSlug(ctx, in.Title, "payment_link", s.linkRepo.SlugTaken)
		if err != nil {
			return nil, err
		}

		link := &models.PaymentLink{
			UserID:      in.UserID,
			Title:       in.Title,
			Description: in.Description,
			Slug:        slug,
			Price:       in.Price,
			Currency:    currency,
			AllowTips:   in.AllowTips,
			Active:      true,
		}
		err = s.linkRepo.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
			return nil, err
		}
	}
	return nil, models.NewConflictError("Could not allocate a unique payment link slug")
}

func (s *PaymentLinkService) ListMyLinks(ctx context.Context, userID uint) ([]models.PaymentLink, error) {
	return s.linkRepo.ListByUser(ctx, userID)
}

// GetOwnedLink fetches a payment link and verifies the caller owns it.
func (s *PaymentLinkService) GetOwnedLink(ctx context.Context, userID, linkID uint) (*models.PaymentLink, error) {
	link, err := s.linkRepo.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.UserID != userID {
		return nil, models.NewForbiddenError("You do not own this payment link")
	}
	return link, nil
}

// GetPublicLink returns a payment link by slug for the public payment page.
// Inactive links are hidden.
func (s *PaymentLinkService) GetPublicLink(ctx context.Context, slug string) (*models.PaymentLink, error) {
	link, err := s.linkRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !link.Active {
		return nil, models.NewNotFoundError("Payment link", slug)
	}
	return link, nil
}

func (s *PaymentLinkService) UpdatePaymentLink(ctx context.Context, in UpdatePaymentLinkInput) (*models.PaymentLink, error) {
	link, err := s.GetOwnedLink(ctx, in.UserID, in.LinkID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		link.Title = title
	}
	if in.Description != nil {
		link.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, models.NewValidationError("Price must be greater than zero")
		}
		link.Price = *in.Price
	}
	if in.AllowTips != nil {
		link.AllowTips = *in.AllowTips
	}
	if in.Active != nil {
		link.Active = *in.Active
	}

	if err := s.linkRepo.Update(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *PaymentLinkService) DeletePaymentLink(ctx context.Context, userID, linkID uint) error {
	link, err := s.GetOwnedLink(ctx, userID, linkID)
	if err != nil {
		return err
	}
	return s.linkRepo.Delete(ctx, link)
}
