package repository

import (
	"context"
	"errors"

	"vendio/internal/models"

	"gorm.io/gorm"
)

// PurchaseRepository defines persistence operations for payment link purchases.
type PurchaseRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Purchase, error)
	GetByPurchaseNumber(ctx context.Context, purchaseNumber string) (*models.Purchase, error)
	ListByPaymentLink(ctx context.Context, paymentLinkID uint, limit, offset int) ([]models.Purchase, int64, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Purchase, int64, error)
	Create(ctx context.Context, purchase *models.Purchase) error
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository returns a new PurchaseRepository implementation.
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).First(&purchase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Purchase", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) GetByPurchaseNumber(ctx context.Context, purchaseNumber string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).
		Where("purchase_number = ?", purchaseNumber).
		First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Purchase", purchaseNumber)
		}
		return nil, models.NewInternalError(err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) ListByPaymentLink(ctx context.Context, paymentLinkID uint, limit, offset int) ([]models.Purchase, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := r.db.WithContext(ctx).Model(&models.Purchase{}).Where("payment_link_id = ?", paymentLinkID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var purchases []models.Purchase
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&purchases).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return purchases, total, nil
}

// ListByUser joins through payment_links so a seller sees purchases across
// all of their links.
func (r *purchaseRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Purchase, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Joins("JOIN payment_links ON payment_links.id = purchases.payment_link_id").
		Where("payment_links.user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var purchases []models.Purchase
	if err := q.Order("purchases.created_at DESC").Limit(limit).Offset(offset).Find(&purchases).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return purchases, total, nil
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	if err := r.db.WithContext(ctx).Create(purchase).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Purchase number already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}
