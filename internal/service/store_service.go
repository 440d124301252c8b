package service

import (
	"context"
	"errors"
	"strings"

	"vendio/internal/models"
	"vendio/internal/repository"
)

type StoreService struct {
	storeRepo repository.StoreRepository
}

type UpdateStoreInput struct {
	UserID      uint
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	Active      *bool   `json:"active"`
}

func NewStoreService(storeRepo repository.StoreRepository) *StoreService {
	return &StoreService{storeRepo: storeRepo}
}

// CreateStoreForUser provisions the user's store at signup, allocating a
// unique slug from the store name. Retries once on a concurrent slug
// conflict; the unique index makes the race loser re-probe.
func (s *StoreService) CreateStoreForUser(ctx context.Context, userID uint, name string) (*models.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Store name is required")
	}

	for attempt := 0; attempt < 2; attempt++ {
		slug, err := allocateSlug(ctx, name, "store", s.storeRepo.SlugTaken)
		if err != nil {
			return nil, err
		}

		store := &models.Store{
			UserID: userID,
			Slug:   slug,
			Name:   name,
			Active: true,
		}
		err = s.storeRepo.Create(ctx, store)
		if err == nil {
			return store, nil
		}
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
			return nil, err
		}
	}
	return nil, models.NewConflictError("Could not allocate a unique store slug")
}

// CreateStore is the explicit store-creation path. Signup already
// provisions a store, so a caller who owns one gets a conflict.
func (s *StoreService) CreateStore(ctx context.Context, userID uint, name string) (*models.Store, error) {
	existing, err := s.storeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("You already have a store")
	}
	return s.CreateStoreForUser(ctx, userID, name)
}

func (s *StoreService) GetMyStore(ctx context.Context, userID uint) (*models.Store, error) {
	store, err := s.storeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, models.NewNotFoundError("Store", userID)
	}
	return store, nil
}

// GetPublicStore returns a storefront by slug. Inactive stores are hidden
// from the public surface.
func (s *StoreService) GetPublicStore(ctx context.Context, slug string) (*models.Store, error) {
	store, err := s.storeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !store.Active {
		return nil, models.NewNotFoundError("Store", slug)
	}
	return store, nil
}

// UpdateStore applies a partial update to the caller's store. The slug is
// immutable after creation; public links never break.
func (s *StoreService) UpdateStore(ctx context.Context, in UpdateStoreInput) (*models.Store, error) {
	store, err := s.GetMyStore(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, models.NewValidationError("Store name cannot be empty")
		}
		store.Name = name
	}
	if in.Description != nil {
		store.Description = *in.Description
	}
	if in.LogoURL != nil {
		store.LogoURL = *in.LogoURL
	}
	if in.Active != nil {
		store.Active = *in.Active
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}
