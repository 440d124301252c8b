package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"vendio/internal/models"
	"vendio/internal/repository"
	"vendio/internal/validation"
)

type LinkInBioService struct {
	bioRepo repository.LinkInBioRepository
}

type BioLinkInput struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Active *bool  `json:"active"`
}

type UpdateLinkInBioInput struct {
	UserID uint
	Title  *string        `json:"title"`
	Theme  *string        `json:"theme"`
	Links  []BioLinkInput `json:"links"`
}

const maxBioLinks = 50

func NewLinkInBioService(bioRepo repository.LinkInBioRepository) *LinkInBioService {
	return &LinkInBioService{bioRepo: bioRepo}
}

// CreateBioForUser provisions the user's bio page at signup. The slug is
// derived from the username; numeric suffixes resolve collisions the same
// way store slugs do.
func (s *LinkInBioService) CreateBioForUser(ctx context.Context, userID uint, username string) (*models.LinkInBio, error) {
	for attempt := 0; attempt < 2; attempt++ {
		slug, err := allocateSlug(ctx, username, "bio", s.bioRepo.SlugTaken)
		if err != nil {
			return nil, err
		}

		bio := &models.LinkInBio{
			UserID: userID,
			Slug:   slug,
			Title:  username,
		}
		err = s.bioRepo.Create(ctx, bio)
		if err == nil {
			return bio, nil
		}
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
			return nil, err
		}
	}
	return nil, models.NewConflictError("Could not allocate a unique bio slug")
}

func (s *LinkInBioService) GetMyBio(ctx context.Context, userID uint) (*models.LinkInBio, error) {
	bio, err := s.bioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bio == nil {
		return nil, models.NewNotFoundError("Bio page", userID)
	}
	return bio, nil
}

// GetPublicBio returns a bio page by slug with only its active links. The
// route carries the raw username, so the lookup normalizes it the same way
// the slug was derived at signup ("Ada_X" resolves to "ada-x").
func (s *LinkInBioService) GetPublicBio(ctx context.Context, slug string) (*models.LinkInBio, error) {
	normalized := validation.Slugify(slug)
	if normalized == "" {
		return nil, models.NewNotFoundError("Bio page", slug)
	}
	return s.bioRepo.GetBySlug(ctx, normalized)
}

// UpdateBio applies a partial update. When Links is non-nil the full entry
// list is replaced; positions follow the submitted order.
func (s *LinkInBioService) UpdateBio(ctx context.Context, in UpdateLinkInBioInput) (*models.LinkInBio, error) {
	bio, err := s.GetMyBio(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		bio.Title = strings.TrimSpace(*in.Title)
	}
	if in.Theme != nil {
		bio.Theme = *in.Theme
	}
	if in.Title != nil || in.Theme != nil {
		if err := s.bioRepo.Update(ctx, bio); err != nil {
			return nil, err
		}
	}

	if in.Links != nil {
		if len(in.Links) > maxBioLinks {
			return nil, models.NewValidationError("Too many links")
		}
		links := make([]models.BioLink, 0, len(in.Links))
		for _, l := range in.Links {
			title := strings.TrimSpace(l.Title)
			if title == "" {
				return nil, models.NewValidationError("Link title is required")
			}
			if _, err := url.ParseRequestURI(l.URL); err != nil {
				return nil, models.NewValidationError("Link URL must be a valid URL")
			}
			active := true
			if l.Active != nil {
				active = *l.Active
			}
			links = append(links, models.BioLink{
				Title:  title,
				URL:    l.URL,
				Active: active,
			})
		}
		if err := s.bioRepo.ReplaceLinks(ctx, bio, links); err != nil {
			return nil, err
		}
	}

	return bio, nil
}
