package repository

import (
	"context"
	"errors"

	"vendio/internal/models"

	"gorm.io/gorm"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	GetByPaymentHash(ctx context.Context, paymentHash string) (*models.Order, error)
	ListByStore(ctx context.Context, storeID uint, status string, limit, offset int) ([]models.Order, int64, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository returns a new OrderRepository implementation.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Order", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &order, nil
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Order", orderNumber)
		}
		return nil, models.NewInternalError(err)
	}
	return &order, nil
}

// GetByPaymentHash serves the payment status lookup. The hash is not
// unique by schema; the most recent match wins.
func (r *orderRepository) GetByPaymentHash(ctx context.Context, paymentHash string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_hash = ?", paymentHash).
		Order("created_at DESC").
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Order", paymentHash)
		}
		return nil, models.NewInternalError(err)
	}
	return &order, nil
}

// ListByStore returns newest-first orders with a total count for pagination.
// An empty status means no status filter.
func (r *orderRepository) ListByStore(ctx context.Context, storeID uint, status string, limit, offset int) ([]models.Order, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("store_id = ?", storeID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var orders []models.Order
	if err := q.Preload("Items").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return orders, total, nil
}

// Create persists the order and its items in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Order number already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
