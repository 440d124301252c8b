package repository

import (
	"context"
	"errors"

	"vendio/internal/cache"
	"vendio/internal/models"

	"gorm.io/gorm"
)

// StoreRepository defines persistence operations for stores.
type StoreRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Store, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Store, error)
	GetBySlug(ctx context.Context, slug string) (*models.Store, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, store *models.Store) error
	Update(ctx context.Context, store *models.Store) error
}

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository returns a new StoreRepository implementation.
func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetByID(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Store", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &store, nil
}

// GetByUserID returns (nil, nil) when the user has no store yet.
func (r *storeRepository) GetByUserID(ctx context.Context, userID uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &store, nil
}

// GetBySlug serves the public storefront, so it is cached and preloads
// active products.
func (r *storeRepository) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	var store models.Store
	key := cache.StoreKey(slug)

	err := cache.Aside(ctx, key, &store, cache.StoreTTL, func() error {
		q := r.db.WithContext(ctx).
			Preload("Products", func(db *gorm.DB) *gorm.DB {
				return db.Where("active = ?", true).Order("created_at DESC")
			}).
			Where("slug = ?", slug)
		if err := q.First(&store).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Store", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *storeRepository) Create(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Store slug already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *storeRepository) Update(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Save(store).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Store slug already taken")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateStore(ctx, store.Slug)
	return nil
}
