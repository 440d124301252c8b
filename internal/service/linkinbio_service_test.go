package service

import (
	"context"
	"testing"

	"vendio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkInBioService_CreateBioForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Slug From Username", func(t *testing.T) {
		var created *models.LinkInBio
		repo := noopBioRepo()
		repo.createFn = func(_ context.Context, bio *models.LinkInBio) error {
			created = bio
			return nil
		}
		svc := NewLinkInBioService(repo)

		bio, err := svc.CreateBioForUser(ctx, 7, "alice_99")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "alice-99", bio.Slug)
		assert.Equal(t, "alice_99", bio.Title)
	})

	t.Run("Collision Gets Suffix", func(t *testing.T) {
		repo := noopBioRepo()
		repo.slugTakenFn = func(_ context.Context, slug string) (bool, error) {
			return slug == "alice", nil
		}
		svc := NewLinkInBioService(repo)

		bio, err := svc.CreateBioForUser(ctx, 8, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice-1", bio.Slug)
	})
}

func TestLinkInBioService_UpdateBio_ReplacesLinks(t *testing.T) {
	bio := &models.LinkInBio{ID: 1, UserID: 7, Slug: "alice", Title: "alice"}
	var replaced []models.BioLink
	repo := noopBioRepo()
	repo.getByUserIDFn = func(_ context.Context, _ uint) (*models.LinkInBio, error) { return bio, nil }
	repo.replaceLinksFn = func(_ context.Context, _ *models.LinkInBio, links []models.BioLink) error {
		replaced = links
		return nil
	}
	svc := NewLinkInBioService(repo)

	inactive := false
	_, err := svc.UpdateBio(context.Background(), UpdateLinkInBioInput{
		UserID: 7,
		Links: []BioLinkInput{
			{Title: "Shop", URL: "https://example.com/shop"},
			{Title: "Hidden", URL: "https://example.com/x", Active: &inactive},
		},
	})
	require.NoError(t, err)
	require.Len(t, replaced, 2)
	assert.True(t, replaced[0].Active)
	assert.False(t, replaced[1].Active)
}

func TestLinkInBioService_UpdateBio_Validation(t *testing.T) {
	bio := &models.LinkInBio{ID: 1, UserID: 7, Slug: "alice"}
	repo := noopBioRepo()
	repo.getByUserIDFn = func(_ context.Context, _ uint) (*models.LinkInBio, error) { return bio, nil }
	svc := NewLinkInBioService(repo)
	ctx := context.Background()

	t.Run("Empty Link Title", func(t *testing.T) {
		_, err := svc.UpdateBio(ctx, UpdateLinkInBioInput{
			UserID: 7,
			Links:  []BioLinkInput{{Title: " ", URL: "https://example.com"}},
		})
		assert.Error(t, err)
	})

	t.Run("Bad URL", func(t *testing.T) {
		_, err := svc.UpdateBio(ctx, UpdateLinkInBioInput{
			UserID: 7,
			Links:  []BioLinkInput{{Title: "Shop", URL: "not a url"}},
		})
		assert.Error(t, err)
	})

	t.Run("No Bio Yet", func(t *testing.T) {
		emptyRepo := noopBioRepo()
		missing := NewLinkInBioService(emptyRepo)
		_, err := missing.UpdateBio(ctx, UpdateLinkInBioInput{UserID: 9})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}
