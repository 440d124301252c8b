package repository

import (
	"context"
	"errors"

	"vendio/internal/cache"
	"vendio/internal/models"

	"gorm.io/gorm"
)

// PaymentLinkRepository defines persistence operations for payment links.
type PaymentLinkRepository interface {
	GetByID(ctx context.Context, id uint) (*models.PaymentLink, error)
	GetBySlug(ctx context.Context, slug string) (*models.PaymentLink, error)
	ListByUser(ctx context.Context, userID uint) ([]models.PaymentLink, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, link *models.PaymentLink) error
	Update(ctx context.Context, link *models.PaymentLink) error
	Delete(ctx context.Context, link *models.PaymentLink) error
}

type paymentLinkRepository struct {
	db *gorm.DB
}

// NewPaymentLinkRepository returns a new PaymentLinkRepository implementation.
func NewPaymentLinkRepository(db *gorm.DB) PaymentLinkRepository {
	return &paymentLinkRepository{db: db}
}

func (r *paymentLinkRepository) GetByID(ctx context.Context, id uint) (*models.PaymentLink, error) {
	var link models.PaymentLink
	if err := r.db.WithContext(ctx).First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Payment link", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &link, nil
}

// GetBySlug serves the public payment page, so it is cached.
func (r *paymentLinkRepository) GetBySlug(ctx context.Context, slug string) (*models.PaymentLink, error) {
	var link models.PaymentLink
	key := cache.PaymentLinkKey(slug)

	err := cache.Aside(ctx, key, &link, cache.PaymentLinkTTL, func() error {
		if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Payment link", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *paymentLinkRepository) ListByUser(ctx context.Context, userID uint) ([]models.PaymentLink, error) {
	var links []models.PaymentLink
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&links).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return links, nil
}

func (r *paymentLinkRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PaymentLink{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *paymentLinkRepository) Create(ctx context.Context, link *models.PaymentLink) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Payment link slug already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *paymentLinkRepository) Update(ctx context.Context, link *models.PaymentLink) error {
	if err := r.db.WithContext(ctx).Save(link).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Payment link slug already taken")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePaymentLink(ctx, link.Slug)
	return nil
}

func (r *paymentLinkRepository) Delete(ctx context.Context, link *models.PaymentLink) error {
	if err := r.db.WithContext(ctx).Delete(link).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePaymentLink(ctx, link.Slug)
	return nil
}
