package repository

import (
	"context"
	"errors"

	"vendio/internal/cache"
	"vendio/internal/models"

	"gorm.io/gorm"
)

// LinkInBioRepository defines persistence operations for link-in-bio pages.
type LinkInBioRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.LinkInBio, error)
	GetBySlug(ctx context.Context, slug string) (*models.LinkInBio, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, bio *models.LinkInBio) error
	Update(ctx context.Context, bio *models.LinkInBio) error
	ReplaceLinks(ctx context.Context, bio *models.LinkInBio, links []models.BioLink) error
}

type linkInBioRepository struct {
	db *gorm.DB
}

// NewLinkInBioRepository returns a new LinkInBioRepository implementation.
func NewLinkInBioRepository(db *gorm.DB) LinkInBioRepository {
	return &linkInBioRepository{db: db}
}

// GetByUserID returns (nil, nil) when the user has no bio page yet.
func (r *linkInBioRepository) GetByUserID(ctx context.Context, userID uint) (*models.LinkInBio, error) {
	var bio models.LinkInBio
	if err := r.db.WithContext(ctx).
		Preload("Links", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		First(&bio).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &bio, nil
}

// GetBySlug serves the public bio page, so it is cached and only returns
// active links.
func (r *linkInBioRepository) GetBySlug(ctx context.Context, slug string) (*models.LinkInBio, error) {
	var bio models.LinkInBio
	key := cache.BioKey(slug)

	err := cache.Aside(ctx, key, &bio, cache.BioTTL, func() error {
		q := r.db.WithContext(ctx).
			Preload("Links", func(db *gorm.DB) *gorm.DB {
				return db.Where("active = ?", true).Order("position ASC")
			}).
			Where("slug = ?", slug)
		if err := q.First(&bio).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Bio page", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &bio, nil
}

func (r *linkInBioRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LinkInBio{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *linkInBioRepository) Create(ctx context.Context, bio *models.LinkInBio) error {
	if err := r.db.WithContext(ctx).Create(bio).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Bio slug already taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *linkInBioRepository) Update(ctx context.Context, bio *models.LinkInBio) error {
	if err := r.db.WithContext(ctx).Save(bio).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Bio slug already taken")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateBio(ctx, bio.Slug)
	return nil
}

// ReplaceLinks swaps the full set of links for a bio page in one transaction.
func (r *linkInBioRepository) ReplaceLinks(ctx context.Context, bio *models.LinkInBio, links []models.BioLink) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_in_bio_id = ?", bio.ID).Delete(&models.BioLink{}).Error; err != nil {
			return err
		}
		for i := range links {
			links[i].ID = 0
			links[i].LinkInBioID = bio.ID
			links[i].Position = i
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	bio.Links = links
	cache.InvalidateBio(ctx, bio.Slug)
	return nil
}
